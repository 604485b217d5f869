package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

func TestAggregateConfidence_TierNarratives(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		overall  int
		expected string
	}{
		{"low tier", 0, "Low signal in current data; no coordinated activity pattern stands out."},
		{"low tier upper edge", 39, "Low signal in current data; no coordinated activity pattern stands out."},
		{"moderate tier", 40, "Moderate astroturf indicators detected; patterns warrant continued monitoring."},
		{"moderate tier upper edge", 69, "Moderate astroturf indicators detected; patterns warrant continued monitoring."},
		{"high tier", 70, "Strong indicators of coordinated inauthentic activity across sources."},
		{"high tier top", 100, "Strong indicators of coordinated inauthentic activity across sources."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := AggregateConfidence(nil, tt.overall, nil, now)
			if summary.Narrative != tt.expected {
				t.Errorf("Narrative for %d = %q, expected %q", tt.overall, summary.Narrative, tt.expected)
			}
			if summary.Overall != tt.overall {
				t.Errorf("Overall = %d, expected %d", summary.Overall, tt.overall)
			}
		})
	}
}

func TestAggregateConfidence_ClampsOverall(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := AggregateConfidence(nil, 150, nil, now).Overall; got != 100 {
		t.Errorf("Overall = %d, expected clamp to 100", got)
	}
	if got := AggregateConfidence(nil, -10, nil, now).Overall; got != 0 {
		t.Errorf("Overall = %d, expected clamp to 0", got)
	}
}

func TestAggregateConfidence_TrimsFactors(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	factors := []domain.ConfidenceFactor{
		{Factor: "first"},
		{Factor: "second"},
		{Factor: "third"},
		{Factor: "fourth"},
		{Factor: "fifth"},
	}

	summary := AggregateConfidence(factors, 50, nil, now)

	if len(summary.Factors) != maxDisplayFactors {
		t.Fatalf("Expected %d factors, got %d", maxDisplayFactors, len(summary.Factors))
	}
	for i, name := range []string{"first", "second", "third", "fourth"} {
		if summary.Factors[i].Factor != name {
			t.Errorf("Factors[%d] = %q, expected %q (supplied order)", i, summary.Factors[i].Factor, name)
		}
	}
}

func TestAggregateConfidence_NoteWinsOverTier(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	note := &domain.AgentNote{
		Summary:   "Monitoring 12 news, 5 orgs, 3 jobs. 2 alerts.",
		Timestamp: "2025-06-01T10:00:00Z",
	}

	summary := AggregateConfidence(nil, 80, note, now)

	if !strings.HasPrefix(summary.Narrative, note.Summary) {
		t.Errorf("Narrative = %q, expected note summary to lead", summary.Narrative)
	}
	if !strings.Contains(summary.Narrative, "(2h ago)") {
		t.Errorf("Narrative = %q, expected relative age suffix", summary.Narrative)
	}
}

func TestAggregateConfidence_BlankNoteFallsBack(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	note := &domain.AgentNote{Summary: "   ", Timestamp: "2025-06-01T10:00:00Z"}

	summary := AggregateConfidence(nil, 80, note, now)

	if summary.Narrative != "Strong indicators of coordinated inauthentic activity across sources." {
		t.Errorf("Blank note should fall back to tier narrative, got %q", summary.Narrative)
	}
}

func TestAggregateConfidence_UnparsableNoteTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	note := &domain.AgentNote{Summary: "External review in progress.", Timestamp: "yesterday"}

	summary := AggregateConfidence(nil, 80, note, now)

	if summary.Narrative != "External review in progress." {
		t.Errorf("Narrative = %q, expected bare note summary without age suffix", summary.Narrative)
	}
}

func TestRelativeAge(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{"seconds", 30 * time.Second, "just now"},
		{"minutes", 5 * time.Minute, "5m ago"},
		{"minute edge", 59 * time.Minute, "59m ago"},
		{"hours", 3 * time.Hour, "3h ago"},
		{"hour edge", 23 * time.Hour, "23h ago"},
		{"days", 48 * time.Hour, "2d ago"},
		{"long span", 10 * 24 * time.Hour, "10d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := relativeAge(tt.d)
			if result != tt.expected {
				t.Errorf("relativeAge(%v) = %q, expected %q", tt.d, result, tt.expected)
			}
		})
	}
}
