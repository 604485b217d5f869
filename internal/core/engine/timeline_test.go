package engine

import (
	"testing"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

func TestBuildTimeline_RelevanceFloor(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	news := []domain.NewsArticle{
		{Title: "Admitted story", RelevanceScore: 70, Date: "2025-05-20"},
		{Title: "Background noise", RelevanceScore: 69, Date: "2025-05-21"},
	}

	events := BuildTimeline(news, nil, RangeAll, now)

	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].Title != "Admitted story" {
		t.Errorf("Expected the high-relevance article, got %q", events[0].Title)
	}
	if events[0].Type != domain.RecordNews {
		t.Errorf("Expected news record type, got %q", events[0].Type)
	}
	if events[0].ScoreLabel != domain.LabelRelevance {
		t.Errorf("Expected relevance label, got %q", events[0].ScoreLabel)
	}
}

func TestBuildTimeline_NewsVariantSurvivesDedupe(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	news := []domain.NewsArticle{
		{Title: "Paid protesters reported downtown", RelevanceScore: 85, Date: "2025-05-20", URL: "https://news.example/story"},
	}
	legacy := []domain.TimelineEvent{
		{Type: domain.RecordEvent, Title: "Paid protesters reported downtown", Date: "2025-05-19", Score: 50},
	}

	events := BuildTimeline(news, legacy, RangeAll, now)

	if len(events) != 1 {
		t.Fatalf("Expected dedupe to collapse the repeated story, got %d events", len(events))
	}
	if events[0].Score != 85 {
		t.Errorf("Expected scored news variant to survive, got score %d", events[0].Score)
	}
	if events[0].SourceURL != "https://news.example/story" {
		t.Errorf("Expected news source URL, got %q", events[0].SourceURL)
	}
}

func TestBuildTimeline_RangeFilter(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	legacy := []domain.TimelineEvent{
		{Type: domain.RecordEvent, Title: "recent", Date: "2025-05-15", Score: 60},
		{Type: domain.RecordEvent, Title: "stale", Date: "2025-04-01", Score: 60},
		{Type: domain.RecordEvent, Title: "undated", Score: 60},
	}

	tests := []struct {
		name      string
		rangeDays int
		expected  []string
	}{
		{"thirty day window", 30, []string{"recent"}},
		{"range all keeps undated", RangeAll, []string{"recent", "stale", "undated"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := BuildTimeline(nil, legacy, tt.rangeDays, now)
			if len(events) != len(tt.expected) {
				t.Fatalf("Got %d events, expected %d", len(events), len(tt.expected))
			}
			for i, title := range tt.expected {
				if events[i].Title != title {
					t.Errorf("events[%d] = %q, expected %q", i, events[i].Title, title)
				}
			}
		})
	}
}

func TestBuildTimeline_BoundaryDateKept(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	legacy := []domain.TimelineEvent{
		{Type: domain.RecordEvent, Title: "on cutoff", Date: "2025-05-02", Score: 60},
	}

	events := BuildTimeline(nil, legacy, 30, now)

	if len(events) != 1 {
		t.Errorf("Event dated exactly on the cutoff should stay, got %d events", len(events))
	}
}

func TestNormalizeLegacy(t *testing.T) {
	tests := []struct {
		name          string
		event         domain.TimelineEvent
		expectedLabel domain.ScoreLabel
		expectedScore int
	}{
		{
			"job gets suspicion label",
			domain.TimelineEvent{Type: domain.RecordJobPosting, Score: 80},
			domain.LabelSuspicion,
			80,
		},
		{
			"org gets risk label",
			domain.TimelineEvent{Type: domain.RecordOrganization, Score: 75},
			domain.LabelRisk,
			75,
		},
		{
			"zero score defaults",
			domain.TimelineEvent{Type: domain.RecordEvent},
			"",
			50,
		},
		{
			"news label untouched",
			domain.TimelineEvent{Type: domain.RecordNews, ScoreLabel: domain.LabelRelevance, Score: 90},
			domain.LabelRelevance,
			90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizeLegacy(tt.event)
			if result.ScoreLabel != tt.expectedLabel {
				t.Errorf("normalizeLegacy() label = %q, expected %q", result.ScoreLabel, tt.expectedLabel)
			}
			if result.Score != tt.expectedScore {
				t.Errorf("normalizeLegacy() score = %d, expected %d", result.Score, tt.expectedScore)
			}
		})
	}
}

func TestPageTimeline(t *testing.T) {
	events := make([]domain.TimelineEvent, 20)
	for i := range events {
		events[i] = domain.TimelineEvent{Title: "event", Score: 100 - i}
	}

	tests := []struct {
		name              string
		limit             int
		expectedShown     int
		expectedRemaining int
	}{
		{"default on zero", 0, DefaultTimelineLimit, 12},
		{"default on negative", -3, DefaultTimelineLimit, 12},
		{"explicit limit", 5, 5, 15},
		{"limit beyond total", 50, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := PageTimeline(events, tt.limit)
			if len(page.Events) != tt.expectedShown {
				t.Errorf("PageTimeline(limit=%d) shows %d, expected %d", tt.limit, len(page.Events), tt.expectedShown)
			}
			if page.Total != 20 {
				t.Errorf("Total = %d, expected 20", page.Total)
			}
			if page.Remaining != tt.expectedRemaining {
				t.Errorf("Remaining = %d, expected %d", page.Remaining, tt.expectedRemaining)
			}
		})
	}
}

func TestPageTimeline_ExpandKeepsOrder(t *testing.T) {
	events := []domain.TimelineEvent{
		{Title: "a", Score: 90},
		{Title: "b", Score: 80},
		{Title: "c", Score: 70},
		{Title: "d", Score: 60},
	}

	small := PageTimeline(events, 2)
	large := PageTimeline(events, 4)

	for i := range small.Events {
		if small.Events[i].Title != large.Events[i].Title {
			t.Errorf("Expanding shifted event %d: %q -> %q", i, small.Events[i].Title, large.Events[i].Title)
		}
	}
}

func TestProjectJob(t *testing.T) {
	job := domain.JobPosting{
		Title:          "Paid protest staff",
		PostedDate:     "2025-05-20",
		URL:            "https://jobs.example/1",
		SuspicionScore: 65,
	}

	ev := ProjectJob(job)

	if ev.Type != domain.RecordJobPosting {
		t.Errorf("Type = %q, expected job posting", ev.Type)
	}
	if ev.ScoreLabel != domain.LabelSuspicion {
		t.Errorf("ScoreLabel = %q, expected suspicion", ev.ScoreLabel)
	}
	if ev.Score != 65 || ev.Title != job.Title || ev.Date != job.PostedDate || ev.SourceURL != job.URL {
		t.Errorf("Projection dropped fields: %+v", ev)
	}
}

func TestProjectOrg(t *testing.T) {
	org := domain.Organization{
		Name:          "Citizens For Freedom",
		FirstFileDate: "2024-11-01",
		SourceURL:     "https://filings.example/9",
		RiskScore:     80,
	}

	ev := ProjectOrg(org)

	if ev.Type != domain.RecordOrganization {
		t.Errorf("Type = %q, expected organization", ev.Type)
	}
	if ev.ScoreLabel != domain.LabelRisk {
		t.Errorf("ScoreLabel = %q, expected risk", ev.ScoreLabel)
	}
	if ev.Score != 80 || ev.Title != org.Name || ev.Date != org.FirstFileDate {
		t.Errorf("Projection dropped fields: %+v", ev)
	}
}
