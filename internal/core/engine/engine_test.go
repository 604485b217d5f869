package engine

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

func TestRun_NilMemory(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := Run(domain.RecordSet{}, nil, RangeAll, now)

	if !errors.Is(err, ErrNilMemory) {
		t.Errorf("Run(nil memory) err = %v, expected ErrNilMemory", err)
	}
}

func TestRun_EmptyRecords(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	result, err := Run(domain.RecordSet{}, domain.NewMemory(), RangeAll, now)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Analysis.Confidence != 35 {
		t.Errorf("Confidence = %d, expected base", result.Analysis.Confidence)
	}
	if len(result.Timeline) != 0 {
		t.Errorf("Expected empty timeline, got %d events", len(result.Timeline))
	}
	if len(result.Connections) != 0 {
		t.Errorf("Expected no connections, got %d", len(result.Connections))
	}
}

func TestRun_ScoresEveryRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := domain.RecordSet{
		Jobs: []domain.JobPosting{
			{Title: "Paid protest staff, same day pay"},
			{Title: "Software Engineer", SuspicionScore: 99},
		},
		Orgs: []domain.Organization{
			{Name: "Citizens For Freedom", FirstFileDate: "2025-04-01"},
		},
		News: []domain.NewsArticle{
			{Title: "Paid protesters reported downtown", Date: "2025-05-20"},
		},
	}

	result, err := Run(records, domain.NewMemory(), RangeAll, now)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// paid protest 25 + same day pay 25 + protest 10
	if result.Records.Jobs[0].SuspicionScore != 60 {
		t.Errorf("Jobs[0] score = %d, expected 60", result.Records.Jobs[0].SuspicionScore)
	}
	if result.Records.Jobs[1].Title != "Software Engineer" || result.Records.Jobs[1].SuspicionScore != 0 {
		t.Errorf("Stale carried score should be recomputed, got %+v", result.Records.Jobs[1])
	}
	// generic name 15 + three words 10 + recent filing 25
	if result.Records.Orgs[0].RiskScore != 50 {
		t.Errorf("Orgs[0] score = %d, expected 50", result.Records.Orgs[0].RiskScore)
	}
	// base 50 + paid 15 + protest 15
	if result.Records.News[0].RelevanceScore != 80 {
		t.Errorf("News[0] score = %d, expected 80", result.Records.News[0].RelevanceScore)
	}
}

func TestRun_NoteworthyRecordsEnterTimeline(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := domain.RecordSet{
		Jobs: []domain.JobPosting{
			{Title: "Paid protest staff, same day pay", PostedDate: "2025-05-20"}, // scores 60
			{Title: "Rally help wanted", PostedDate: "2025-05-21"},                // scores 10
		},
		Orgs: []domain.Organization{
			{Name: "Citizens For Freedom", FirstFileDate: "2023-01-01", State: "DE"}, // scores 55
		},
	}

	result, err := Run(records, domain.NewMemory(), RangeAll, now)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	titles := make([]string, 0, len(result.Timeline))
	for _, ev := range result.Timeline {
		titles = append(titles, ev.Title)
	}

	if len(result.Timeline) != 1 {
		t.Fatalf("Timeline = %v, expected only the high-suspicion job", titles)
	}
	if result.Timeline[0].Title != "Paid protest staff, same day pay" {
		t.Errorf("Timeline[0] = %q", result.Timeline[0].Title)
	}
	if result.Timeline[0].ScoreLabel != domain.LabelSuspicion {
		t.Errorf("ScoreLabel = %q, expected suspicion", result.Timeline[0].ScoreLabel)
	}
}

func TestRun_CarriedTimelineSurvives(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mem := domain.NewMemory()
	mem.Timeline = []domain.TimelineEvent{
		{Type: domain.RecordEvent, Title: "Documented 2009 astroturf campaign", Date: "2009-08-01", Score: 80},
	}

	result, err := Run(domain.RecordSet{}, mem, RangeAll, now)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Timeline) != 1 {
		t.Fatalf("Expected carried event to survive, got %d events", len(result.Timeline))
	}
	if result.Timeline[0].Title != "Documented 2009 astroturf campaign" {
		t.Errorf("Timeline[0] = %q", result.Timeline[0].Title)
	}
	if len(mem.Timeline) != 1 {
		t.Errorf("Run must not mutate memory, timeline now has %d entries", len(mem.Timeline))
	}
}

func TestRun_FreshVariantBeatsCarried(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mem := domain.NewMemory()
	mem.Timeline = []domain.TimelineEvent{
		{Type: domain.RecordEvent, Title: "Paid protesters reported downtown", Date: "2025-05-01", Score: 55},
	}
	records := domain.RecordSet{
		News: []domain.NewsArticle{
			{Title: "Paid protesters reported downtown", Date: "2025-05-20"}, // scores 80
		},
	}

	result, err := Run(records, mem, RangeAll, now)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Timeline) != 1 {
		t.Fatalf("Expected dedupe to collapse the story, got %d events", len(result.Timeline))
	}
	if result.Timeline[0].Score != 80 {
		t.Errorf("Timeline[0] score = %d, expected the freshly scored news variant", result.Timeline[0].Score)
	}
	if result.Timeline[0].Date != "2025-05-20" {
		t.Errorf("Timeline[0] date = %q, expected the fresh article date", result.Timeline[0].Date)
	}
}

func TestRun_ResultsAreSorted(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := domain.RecordSet{
		Jobs: []domain.JobPosting{
			{Title: "Office clerk"},
			{Title: "Paid protest staff, same day pay, cash daily"},
			{Title: "Rally help"},
		},
	}

	result, err := Run(records, domain.NewMemory(), RangeAll, now)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	jobs := result.Records.Jobs
	for i := 1; i < len(jobs); i++ {
		if jobs[i-1].SuspicionScore < jobs[i].SuspicionScore {
			t.Errorf("Jobs out of order at %d: %d < %d", i, jobs[i-1].SuspicionScore, jobs[i].SuspicionScore)
		}
	}
}

func TestRun_ConfidenceUsesAnalysisNote(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	result, err := Run(domain.RecordSet{}, domain.NewMemory(), RangeAll, now)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.HasPrefix(result.Confidence.Narrative, "Monitoring 0 news, 0 orgs, 0 jobs.") {
		t.Errorf("Narrative = %q, expected the analysis note to lead", result.Confidence.Narrative)
	}
	if result.Confidence.Overall != result.Analysis.Confidence {
		t.Errorf("Overall = %d, expected analysis confidence %d", result.Confidence.Overall, result.Analysis.Confidence)
	}
}
