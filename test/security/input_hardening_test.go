package security

import (
	"strings"
	"testing"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
	"github.com/civiclens/turfwatch/internal/core/engine"
)

// hostileRecords builds a record set with the kinds of garbage a
// compromised or buggy feed could deliver: empty fields, absurd dates,
// control characters, and oversized strings.
func hostileRecords() domain.RecordSet {
	huge := strings.Repeat("A", 1<<20)
	return domain.RecordSet{
		Jobs: []domain.JobPosting{
			{},
			{Title: huge, Description: huge, City: huge, State: huge, PostedDate: "not-a-date"},
			{Title: "null\x00byte \x1b[31mANSI\x1b[0m", PostedDate: "0000-99-99"},
			{Title: "ünïcödé 🏴 title", City: "phoenix", PostedDate: "2025-13-45T99:99:99Z"},
		},
		Orgs: []domain.Organization{
			{},
			{Name: huge, State: "??", FirstFileDate: "yesterday-ish", Revenue: -1},
			{Name: "Citizens for \x00 Freedom", State: "DE", FirstFileDate: strings.Repeat("9", 64)},
		},
		News: []domain.NewsArticle{
			{},
			{Title: huge, Snippet: huge, Query: huge, Location: huge, Date: "??"},
			{Title: "paid\x00protesters", Date: "-1"},
		},
	}
}

func TestEngine_HostileInputNeverPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("engine panicked on hostile input: %v", r)
		}
	}()

	now := time.Now().UTC()
	records := hostileRecords()

	res, err := engine.Run(records, domain.NewMemory(), engine.RangeAll, now)
	if err != nil {
		t.Fatalf("hostile input must degrade, not error: %v", err)
	}

	for _, job := range res.Records.Jobs {
		if job.SuspicionScore < 0 || job.SuspicionScore > 100 {
			t.Errorf("job score %d escaped the clamp", job.SuspicionScore)
		}
	}
	for _, org := range res.Records.Orgs {
		if org.RiskScore < 0 || org.RiskScore > 100 {
			t.Errorf("org score %d escaped the clamp", org.RiskScore)
		}
	}
	for _, article := range res.Records.News {
		if article.RelevanceScore < 0 || article.RelevanceScore > 100 {
			t.Errorf("news score %d escaped the clamp", article.RelevanceScore)
		}
	}
}

func TestEngine_NilMemoryFailsLoudly(t *testing.T) {
	_, err := engine.Run(domain.RecordSet{}, nil, engine.RangeAll, time.Now().UTC())
	if err == nil {
		t.Fatal("nil memory must be rejected, not treated as empty state")
	}
}

func TestEngine_EvidenceRespectsDisplayBudget(t *testing.T) {
	now := time.Now().UTC()
	huge := strings.Repeat("paid protest ", 500)

	var orgs []domain.Organization
	for i := 0; i < 5; i++ {
		orgs = append(orgs, domain.Organization{
			Name:          "Citizens for " + huge,
			State:         "DE",
			FirstFileDate: now.AddDate(0, -1, 0).Format("2006-01-02"),
			RiskScore:     90,
		})
	}
	news := []domain.NewsArticle{{Title: huge, Location: "phoenix"}}
	jobs := []domain.JobPosting{{Title: huge, City: "phoenix"}}

	connections := engine.FindConnections(jobs, news, orgs, now)
	if len(connections) == 0 {
		t.Fatal("expected connections from oversized records")
	}

	// Display budgets keep evidence renderable no matter what the feed
	// shoved into the record
	for _, conn := range connections {
		for _, ev := range conn.Evidence {
			if n := len([]rune(ev.Detail)); n > 120 {
				t.Errorf("%s evidence detail is %d runes, over the display budget", conn.Type, n)
			}
		}
	}
}

func TestTimeline_GarbageDatesSortLastNotCrash(t *testing.T) {
	now := time.Now().UTC()
	legacy := []domain.TimelineEvent{
		{Type: domain.RecordEvent, Title: "undated event", Score: 60},
		{Type: domain.RecordEvent, Title: "garbage date", Date: "99/99/9999", Score: 60},
		{Type: domain.RecordEvent, Title: "dated event", Date: now.Format("2006-01-02"), Score: 60},
	}

	// Bounded range: only the parsable, recent event survives
	bounded := engine.BuildTimeline(nil, legacy, 7, now)
	if len(bounded) != 1 || bounded[0].Title != "dated event" {
		t.Fatalf("bounded range kept %d events, expected only the dated one", len(bounded))
	}

	// Unbounded: everything survives, undated entries sort last among ties
	all := engine.BuildTimeline(nil, legacy, engine.RangeAll, now)
	if len(all) != 3 {
		t.Fatalf("expected 3 events in the all view, got %d", len(all))
	}
	if all[0].Title != "dated event" {
		t.Errorf("expected the dated event first among equal scores, got %q", all[0].Title)
	}
}
