package domain

import (
	"testing"
	"time"
)

func TestScoreJob(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		expected    int
	}{
		{"clean posting", "Software Engineer", "Write Go services", 0},
		{"single activity phrase", "Rally volunteers needed", "", 10},
		{"direct astroturf phrase", "Paid protest staff", "", 35},
		{"urgency only", "Urgent opening", "Start immediate", 10},
		{"stacked phrases", "Urgent! Paid Protest Organizer, Same Day Pay", "", 65},
		{"description contributes", "Event Staff", "hold signs at rally, cash daily", 60},
		{"case insensitive", "PAID PROTEST", "", 35},
		{"phrase counts once", "protest protest protest", "protest again", 10},
		{"empty posting", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreJob(JobPosting{Title: tt.title, Description: tt.description})
			if result != tt.expected {
				t.Errorf("ScoreJob(%q, %q) = %d, expected %d", tt.title, tt.description, result, tt.expected)
			}
		})
	}
}

func TestScoreJob_ClampsAt100(t *testing.T) {
	job := JobPosting{
		Title:       "Urgent paid protest today asap",
		Description: "Hold signs at rally, same day pay, cash daily. Immediate canvass work for grassroots political group.",
	}

	result := ScoreJob(job)
	if result != 100 {
		t.Errorf("ScoreJob() = %d, expected clamp to 100", result)
	}
}

func TestScoreJob_Deterministic(t *testing.T) {
	job := JobPosting{Title: "Paid protest organizer", Description: "same day pay"}

	first := ScoreJob(job)
	for i := 0; i < 10; i++ {
		if got := ScoreJob(job); got != first {
			t.Fatalf("ScoreJob() = %d on repeat, expected %d every time", got, first)
		}
	}
}

func TestScoreOrg(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		org      Organization
		expected int
	}{
		{
			"no signals",
			Organization{Name: "Riverside Community Garden Association", State: "VT"},
			0,
		},
		{
			"filed within two years",
			Organization{Name: "Riverside Community Garden Association", FirstFileDate: "2024-03-15"},
			25,
		},
		{
			"filed within five years",
			Organization{Name: "Riverside Community Garden Association", FirstFileDate: "2021-09-01"},
			15,
		},
		{
			"filed long ago",
			Organization{Name: "Riverside Community Garden Association", FirstFileDate: "2015-01-01"},
			0,
		},
		{
			"unparsable filing date ignored",
			Organization{Name: "Riverside Community Garden Association", FirstFileDate: "not-a-date"},
			0,
		},
		{
			"generic token name",
			Organization{Name: "Citizens for a Better Tomorrow"},
			15,
		},
		{
			"three word patriotic name",
			Organization{Name: "Keep Texas Strong"},
			25,
		},
		{
			"generic token with exactly three words",
			Organization{Name: "Citizens For Freedom"},
			25,
		},
		{
			"delaware registration",
			Organization{Name: "Riverside Community Garden Association", State: "DE"},
			15,
		},
		{
			"delaware case insensitive",
			Organization{Name: "Riverside Community Garden Association", State: "de"},
			15,
		},
		{
			"high activity state",
			Organization{Name: "Riverside Community Garden Association", State: "TX"},
			5,
		},
		{
			"high activity state case insensitive",
			Organization{Name: "Riverside Community Garden Association", State: "tx"},
			5,
		},
		{
			"revenue at floor no bump",
			Organization{Name: "Citizens For Freedom", Revenue: 1_000_000},
			25,
		},
		{
			"revenue above floor",
			Organization{Name: "Citizens For Freedom", Revenue: 1_000_001},
			40,
		},
		{
			"revenue without generic name no bump",
			Organization{Name: "Riverside Community Garden Association", Revenue: 5_000_000},
			0,
		},
		{
			"stacked signals",
			Organization{Name: "Citizens For Freedom", FirstFileDate: "2024-11-01", State: "DE", Revenue: 2_000_000},
			80,
		},
		{
			"empty organization",
			Organization{},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreOrg(tt.org, now)
			if result != tt.expected {
				t.Errorf("ScoreOrg(%q) = %d, expected %d", tt.org.Name, result, tt.expected)
			}
		})
	}
}

func TestScoreNews(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		snippet  string
		expected int
	}{
		{"no keywords", "Local bakery opens downtown", "Fresh bread every morning", 50},
		{"title keyword", "Protest downtown draws hundreds", "", 65},
		{"snippet keyword", "City council meets", "Residents protest zoning change", 55},
		{"two title keywords", "Paid protesters fill plaza", "Organizers deny the claim", 80},
		{"three title keywords", "Astroturf exposed: fake campaign manufactured by consultants", "", 95},
		{"multi word keyword", "Crowds on demand firm hired again", "", 65},
		{"empty article", "", "", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreNews(NewsArticle{Title: tt.title, Snippet: tt.snippet})
			if result != tt.expected {
				t.Errorf("ScoreNews(%q) = %d, expected %d", tt.title, result, tt.expected)
			}
		})
	}
}

func TestScoreNews_ClampsAt100(t *testing.T) {
	article := NewsArticle{
		Title:   "Paid protest astroturf: fake manufactured crowds on demand",
		Snippet: "Paid protest astroturf, fake manufactured crowds on demand",
	}

	result := ScoreNews(article)
	if result != 100 {
		t.Errorf("ScoreNews() = %d, expected clamp to 100", result)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		expected int
	}{
		{"negative", -5, 0},
		{"zero", 0, 0},
		{"mid range", 50, 50},
		{"upper bound", 100, 100},
		{"overflow", 150, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClampScore(tt.score)
			if result != tt.expected {
				t.Errorf("ClampScore(%d) = %d, expected %d", tt.score, result, tt.expected)
			}
		})
	}
}

func BenchmarkScoreJob(b *testing.B) {
	job := JobPosting{
		Title:       "Urgent! Paid Protest Organizer",
		Description: "Hold signs at rally downtown, same day pay, cash daily. Grassroots political canvass work.",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ScoreJob(job)
	}
}

func BenchmarkScoreOrg(b *testing.B) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	org := Organization{
		Name:          "Citizens For Freedom",
		FirstFileDate: "2024-11-01",
		State:         "DE",
		Revenue:       2_000_000,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ScoreOrg(org, now)
	}
}
