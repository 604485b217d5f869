package engine

import (
	"sort"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

// Display ordering everywhere is score descending with most-recent-first
// tie-break; equal score and equal date keep input order.

func sortScored[T any](items []T, score func(T) int, date func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := score(items[i]), score(items[j])
		if si != sj {
			return si > sj
		}
		return date(items[i]).After(date(items[j]))
	})
}

// SortJobs orders job postings by suspicion score, then posting date.
func SortJobs(jobs []domain.JobPosting) {
	sortScored(jobs,
		func(j domain.JobPosting) int { return j.SuspicionScore },
		func(j domain.JobPosting) time.Time { return domain.EventTime(j.PostedDate) })
}

// SortOrgs orders organizations by risk score, then filing date.
func SortOrgs(orgs []domain.Organization) {
	sortScored(orgs,
		func(o domain.Organization) int { return o.RiskScore },
		func(o domain.Organization) time.Time { return domain.EventTime(o.FirstFileDate) })
}

// SortNews orders articles by relevance score, then date.
func SortNews(news []domain.NewsArticle) {
	sortScored(news,
		func(n domain.NewsArticle) int { return n.RelevanceScore },
		func(n domain.NewsArticle) time.Time { return domain.EventTime(n.Date) })
}

// SortTimeline orders events by score, then event date.
func SortTimeline(events []domain.TimelineEvent) {
	sortScored(events,
		func(e domain.TimelineEvent) int { return e.Score },
		func(e domain.TimelineEvent) time.Time { return domain.EventTime(e.Date) })
}

// Remaining is the deterministic "show N more" count for a display limit.
func Remaining(total, limit int) int {
	if limit >= total {
		return 0
	}
	return total - limit
}
