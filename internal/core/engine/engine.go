package engine

import (
	"errors"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

// Result is one scan's full engine output: scored record sets, the merged
// timeline, detected connections, the deterministic analysis, and the
// confidence summary derived from it.
type Result struct {
	Records     domain.RecordSet
	Timeline    []domain.TimelineEvent
	Connections []domain.Connection
	Patterns    domain.PatternReport
	Analysis    domain.AnalysisResult
	Confidence  domain.ConfidenceSummary
}

// ErrNilMemory marks a caller that skipped loading scan state. A missing
// memory is a wiring bug and must fail loudly, not run as an empty scan.
var ErrNilMemory = errors.New("engine: nil memory")

// Run executes the full analysis pipeline over one immutable snapshot of
// collected records. It never mutates mem; folding results back into
// memory is the caller's job. Malformed individual records degrade to
// non-matches; only a nil memory aborts.
func Run(records domain.RecordSet, mem *domain.Memory, rangeDays int, now time.Time) (*Result, error) {
	if mem == nil {
		return nil, ErrNilMemory
	}

	for i := range records.Jobs {
		records.Jobs[i].SuspicionScore = domain.ScoreJob(records.Jobs[i])
	}
	for i := range records.Orgs {
		records.Orgs[i].RiskScore = domain.ScoreOrg(records.Orgs[i], now)
	}
	for i := range records.News {
		records.News[i].RelevanceScore = domain.ScoreNews(records.News[i])
	}
	SortJobs(records.Jobs)
	SortOrgs(records.Orgs)
	SortNews(records.News)

	patterns := AnalyzePatterns(records, mem.JobPostingPatterns, now)
	connections := FindConnections(records.Jobs, records.News, records.Orgs, now)
	analysis := Analyze(records.Jobs, records.Orgs, records.News, connections, now)

	// Noteworthy current records enter the timeline ahead of carried-over
	// entries so deduplication keeps the freshly scored variant.
	legacy := make([]domain.TimelineEvent, 0, len(records.Jobs)+len(records.Orgs)+len(mem.Timeline))
	for _, job := range records.Jobs {
		if job.SuspicionScore >= highSuspicionFloor {
			legacy = append(legacy, ProjectJob(job))
		}
	}
	for _, org := range records.Orgs {
		if org.RiskScore >= highRiskFloor {
			legacy = append(legacy, ProjectOrg(org))
		}
	}
	legacy = append(legacy, mem.Timeline...)

	timeline := BuildTimeline(records.News, legacy, rangeDays, now)
	confidence := AggregateConfidence(analysis.Factors, analysis.Confidence, &analysis.Note, now)

	return &Result{
		Records:     records,
		Timeline:    timeline,
		Connections: connections,
		Patterns:    patterns,
		Analysis:    analysis,
		Confidence:  confidence,
	}, nil
}
