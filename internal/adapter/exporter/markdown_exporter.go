package exporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/civiclens/turfwatch/internal/core/domain"
	"github.com/civiclens/turfwatch/internal/core/ports"
)

const (
	// maxDigestTimelineEntries caps the timeline table in the digest
	maxDigestTimelineEntries = 10

	// maxDigestTitleLen keeps table rows on one line
	maxDigestTitleLen = 80
)

// MarkdownExporter renders the latest scan report as a readable digest
type MarkdownExporter struct {
	store ports.SnapshotStore
}

func NewMarkdownExporter(store ports.SnapshotStore) *MarkdownExporter {
	return &MarkdownExporter{store: store}
}

// Export generates a Markdown digest of the latest scan report
func (e *MarkdownExporter) Export(ctx context.Context) (string, error) {
	report, err := e.store.LoadReport(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load scan report: %w", err)
	}

	var b strings.Builder

	e.writeHeader(&b, report)
	e.writeConfidence(&b, report)
	e.writeConnections(&b, report.Connections)
	e.writeAlerts(&b, report.Alerts)
	e.writeTimeline(&b, report.Timeline)

	return b.String(), nil
}

func (e *MarkdownExporter) writeHeader(b *strings.Builder, report *domain.ScanReport) {
	b.WriteString("# Astroturfing Scan Digest\n\n")
	b.WriteString(fmt.Sprintf("- **Scan**: `%s`\n", report.ID))
	b.WriteString(fmt.Sprintf("- **Generated**: %s\n", report.GeneratedAt))
	b.WriteString(fmt.Sprintf("- **Records**: %d job postings, %d organizations, %d news articles\n\n",
		len(report.Jobs), len(report.Orgs), len(report.News)))
}

func (e *MarkdownExporter) writeConfidence(b *strings.Builder, report *domain.ScanReport) {
	b.WriteString(fmt.Sprintf("## Confidence: %d/100 (%s)\n\n",
		report.Confidence.Overall, confidenceTier(report.Confidence.Overall)))

	if report.Confidence.Narrative != "" {
		b.WriteString(report.Confidence.Narrative)
		b.WriteString("\n\n")
	}

	if len(report.Confidence.Factors) > 0 {
		b.WriteString("| Factor | Score | Detail |\n")
		b.WriteString("|--------|-------|--------|\n")
		for _, f := range report.Confidence.Factors {
			b.WriteString(fmt.Sprintf("| %s | %d | %s |\n",
				escapeCell(f.Factor), f.Score, escapeCell(f.Detail)))
		}
		b.WriteString("\n")
	}

	if len(report.HotStates) > 0 {
		b.WriteString(fmt.Sprintf("**Hot states**: %s\n\n", strings.Join(report.HotStates, ", ")))
	}
}

func (e *MarkdownExporter) writeConnections(b *strings.Builder, connections []domain.Connection) {
	b.WriteString(fmt.Sprintf("## Connections (%d)\n\n", len(connections)))

	if len(connections) == 0 {
		b.WriteString("No coordination patterns detected this scan.\n\n")
		return
	}

	for i, conn := range connections {
		b.WriteString(fmt.Sprintf("**%d. `%s`** (probability %d/100)\n\n", i+1, conn.Type, conn.Probability))
		b.WriteString(conn.Description)
		b.WriteString("\n\n")
		for _, ev := range conn.Evidence {
			b.WriteString(fmt.Sprintf("- [%s] %s\n", ev.Type, ev.Detail))
		}
		if len(conn.Evidence) > 0 {
			b.WriteString("\n")
		}
	}
}

func (e *MarkdownExporter) writeAlerts(b *strings.Builder, alerts []domain.Alert) {
	b.WriteString(fmt.Sprintf("## New Alerts (%d)\n\n", len(alerts)))

	if len(alerts) == 0 {
		b.WriteString("No new alerts raised this scan.\n\n")
		return
	}

	for _, alert := range alerts {
		b.WriteString(fmt.Sprintf("**%s** (confidence %d/100)\n\n", alert.Title, alert.Confidence))
		b.WriteString(alert.Description)
		b.WriteString("\n\n")
		if len(alert.Sources) > 0 {
			b.WriteString(fmt.Sprintf("_Sources: %s. Detected: %s_\n\n",
				strings.Join(alert.Sources, ", "), alert.Timestamp))
		} else {
			b.WriteString(fmt.Sprintf("_Detected: %s_\n\n", alert.Timestamp))
		}
	}
}

func (e *MarkdownExporter) writeTimeline(b *strings.Builder, timeline []domain.TimelineEvent) {
	if len(timeline) == 0 {
		b.WriteString("## Timeline\n\nNo timeline events.\n")
		return
	}

	shown := len(timeline)
	if shown > maxDigestTimelineEntries {
		shown = maxDigestTimelineEntries
	}
	b.WriteString(fmt.Sprintf("## Timeline (top %d of %d)\n\n", shown, len(timeline)))

	b.WriteString("| Date | Type | Score | Title |\n")
	b.WriteString("|------|------|-------|-------|\n")
	for _, ev := range timeline[:shown] {
		b.WriteString(fmt.Sprintf("| %s | %s | %d (%s) | %s |\n",
			shortDate(ev.Date), ev.Type, ev.Score, ev.ScoreLabel,
			escapeCell(domain.Truncate(ev.Title, maxDigestTitleLen))))
	}
}

// confidenceTier maps an overall score to its narrative tier
func confidenceTier(score int) string {
	if score >= 70 {
		return "HIGH"
	} else if score >= 40 {
		return "MODERATE"
	}
	return "LOW"
}

// escapeCell escapes characters that would break a Markdown table row
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// shortDate renders just the calendar date of an event timestamp
func shortDate(value string) string {
	if t, ok := domain.ParseDate(value); ok {
		return t.Format("2006-01-02")
	}
	return "n/a"
}
