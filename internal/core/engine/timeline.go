package engine

import (
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

const (
	// DefaultTimelineLimit is the initial display slice size.
	DefaultTimelineLimit = 8

	// RangeAll disables the date filter.
	RangeAll = 0

	// timelineRelevanceFloor admits a news article into the timeline.
	timelineRelevanceFloor = 70

	// defaultLegacyScore stands in for legacy entries that carry none.
	defaultLegacyScore = 50
)

// BuildTimeline merges high-relevance news with carried-over timeline
// entries into one deduplicated, filtered, sorted event sequence.
// News-derived events are fed first so the scored variant of a repeated
// story survives deduplication. rangeDays <= 0 keeps every event;
// otherwise only events dated within the trailing window stay. Undated
// events count as epoch: out of every bounded range, oldest in the full
// view.
func BuildTimeline(news []domain.NewsArticle, legacy []domain.TimelineEvent, rangeDays int, now time.Time) []domain.TimelineEvent {
	events := make([]domain.TimelineEvent, 0, len(news)+len(legacy))

	for _, article := range news {
		if article.RelevanceScore < timelineRelevanceFloor {
			continue
		}
		events = append(events, domain.TimelineEvent{
			Type:       domain.RecordNews,
			Title:      article.Title,
			Date:       article.Date,
			SourceURL:  article.URL,
			Score:      article.RelevanceScore,
			ScoreLabel: domain.LabelRelevance,
		})
	}

	for _, ev := range legacy {
		events = append(events, normalizeLegacy(ev))
	}

	events = DedupeEvents(events)

	if rangeDays > RangeAll {
		cutoff := now.AddDate(0, 0, -rangeDays)
		kept := events[:0]
		for _, ev := range events {
			if !domain.EventTime(ev.Date).Before(cutoff) {
				kept = append(kept, ev)
			}
		}
		events = kept
	}

	SortTimeline(events)
	return events
}

// normalizeLegacy fixes up a carried-over entry: job and organization
// events get their canonical score label, and a missing score defaults so
// the entry still ranks.
func normalizeLegacy(ev domain.TimelineEvent) domain.TimelineEvent {
	switch ev.Type {
	case domain.RecordJobPosting:
		ev.ScoreLabel = domain.LabelSuspicion
	case domain.RecordOrganization:
		ev.ScoreLabel = domain.LabelRisk
	}
	if ev.Score == 0 {
		ev.Score = defaultLegacyScore
	}
	return ev
}

// PageTimeline slices a sorted timeline for display. Expanding is just a
// larger limit against the same slice; it never re-sorts.
func PageTimeline(events []domain.TimelineEvent, limit int) domain.TimelinePage {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}
	shown := limit
	if shown > len(events) {
		shown = len(events)
	}
	return domain.TimelinePage{
		Events:    events[:shown],
		Total:     len(events),
		Remaining: Remaining(len(events), limit),
	}
}

// ProjectJob turns a noteworthy job posting into a timeline entry.
func ProjectJob(job domain.JobPosting) domain.TimelineEvent {
	return domain.TimelineEvent{
		Type:       domain.RecordJobPosting,
		Title:      job.Title,
		Date:       job.PostedDate,
		SourceURL:  job.URL,
		Score:      job.SuspicionScore,
		ScoreLabel: domain.LabelSuspicion,
	}
}

// ProjectOrg turns a noteworthy organization into a timeline entry.
func ProjectOrg(org domain.Organization) domain.TimelineEvent {
	return domain.TimelineEvent{
		Type:       domain.RecordOrganization,
		Title:      org.Name,
		Date:       org.FirstFileDate,
		SourceURL:  org.SourceURL,
		Score:      org.RiskScore,
		ScoreLabel: domain.LabelRisk,
	}
}
