package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

// maxDisplayFactors bounds how many named factors ride along with the
// overall confidence.
const maxDisplayFactors = 4

// AggregateConfidence assembles the scan's confidence summary. The
// overall number is supplied by the upstream analysis, never recomputed
// from the factors here; this function clamps it, trims the factor list
// in its supplied order, and picks the narrative. A non-empty agent note
// wins over the built-in tier narrative and gets a relative-age suffix
// when its timestamp parses.
func AggregateConfidence(factors []domain.ConfidenceFactor, overall int, note *domain.AgentNote, now time.Time) domain.ConfidenceSummary {
	overall = domain.ClampScore(overall)

	if len(factors) > maxDisplayFactors {
		factors = factors[:maxDisplayFactors]
	}

	narrative := tierNarrative(overall)
	if note != nil && strings.TrimSpace(note.Summary) != "" {
		narrative = note.Summary
		if t, ok := domain.ParseDate(note.Timestamp); ok {
			narrative = fmt.Sprintf("%s (%s)", narrative, relativeAge(now.Sub(t)))
		}
	}

	return domain.ConfidenceSummary{
		Overall:   overall,
		Factors:   factors,
		Narrative: narrative,
	}
}

func tierNarrative(overall int) string {
	switch {
	case overall >= 70:
		return "Strong indicators of coordinated inauthentic activity across sources."
	case overall >= 40:
		return "Moderate astroturf indicators detected; patterns warrant continued monitoring."
	default:
		return "Low signal in current data; no coordinated activity pattern stands out."
	}
}

func relativeAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
