package collector

import (
	"context"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

// SampleProvider serves a built-in record set for demo runs and for smoke
// testing a deployment before real feeds are wired up. The records are
// chosen to light up every detector at least once.
type SampleProvider struct{}

func NewSampleProvider() *SampleProvider {
	return &SampleProvider{}
}

func (p *SampleProvider) Name() string {
	return "sample"
}

func (p *SampleProvider) FetchRecords(ctx context.Context) (domain.RecordSet, error) {
	now := time.Now().UTC()
	day := func(daysAgo int) string {
		return now.AddDate(0, 0, -daysAgo).Format("2006-01-02")
	}

	jobs := []domain.JobPosting{
		{
			Title:           "Urgent! Paid Protest Organizer, Same Day Pay",
			Description:     "Hold signs at a downtown rally. Cash daily, no experience needed.",
			Company:         "Rapid Staffing LLC",
			URL:             "https://example.org/jobs/9001",
			City:            "Phoenix",
			State:           "AZ",
			PostedDate:      day(1),
			TrackedKeywords: []string{"protest", "rally"},
		},
		{
			Title:           "Grassroots Canvasser - Political Campaign",
			Description:     "Door to door canvass work for an advocacy campaign. Start today.",
			Company:         "Field Ops Partners",
			URL:             "https://example.org/jobs/9002",
			City:            "Atlanta",
			State:           "GA",
			PostedDate:      day(2),
			TrackedKeywords: []string{"canvasser", "grassroots"},
		},
		{
			Title:           "Rally Support Staff Needed Immediate",
			Description:     "Event setup and crowd support for a weekend rally.",
			Company:         "Eventworks",
			URL:             "https://example.org/jobs/9003",
			City:            "Dallas",
			State:           "TX",
			PostedDate:      day(3),
			TrackedKeywords: []string{"rally"},
		},
		{
			Title:       "Warehouse Associate",
			Description: "General warehouse duties, day shift.",
			Company:     "Acme Logistics",
			URL:         "https://example.org/jobs/9004",
			City:        "Columbus",
			State:       "OH",
			PostedDate:  day(4),
		},
	}

	orgs := []domain.Organization{
		{
			Name:             "Citizens for Patriot Freedom",
			Type:             "nonprofit",
			EINOrCommitteeID: "84-1234567",
			City:             "Phoenix",
			State:            "AZ",
			FirstFileDate:    now.AddDate(0, -2, 0).Format("2006-01-02"),
			SourceURL:        "https://example.org/orgs/7001",
		},
		{
			Name:             "Americans for Liberty Action",
			Type:             "new_committee",
			EINOrCommitteeID: "C00847201",
			City:             "Dallas",
			State:            "TX",
			FirstFileDate:    now.AddDate(0, -3, 0).Format("2006-01-02"),
			SourceURL:        "https://example.org/orgs/7002",
		},
		{
			Name:             "Heartland Freedom Voices",
			Type:             "nonprofit",
			City:             "Wilmington",
			State:            "DE",
			FirstFileDate:    now.AddDate(0, -4, 0).Format("2006-01-02"),
			Revenue:          2_400_000,
			SourceURL:        "https://example.org/orgs/7003",
		},
		{
			Name:          "Riverside Community Food Bank",
			Type:          "nonprofit",
			City:          "Riverside",
			State:         "CA",
			FirstFileDate: now.AddDate(-11, 0, 0).Format("2006-01-02"),
			Revenue:       310_000,
			SourceURL:     "https://example.org/orgs/7004",
		},
	}

	news := []domain.NewsArticle{
		{
			Title:     "Paid protesters allegedly bused into Phoenix rally",
			Snippet:   "Organizers deny reports that participants received same day pay.",
			URL:       "https://example.org/news/5001",
			Publisher: "Example Tribune",
			Source:    "google",
			Query:     "paid protesters",
			Location:  "Phoenix",
			Date:      day(1),
		},
		{
			Title:     "Who is funding the sudden wave of rallies in Dallas?",
			Snippet:   "A manufactured grassroots look, critics say, pointing to astroturf tactics.",
			URL:       "https://example.org/news/5002",
			Publisher: "Example Times",
			Source:    "duckduckgo",
			Query:     "paid rally staff",
			Location:  "Dallas",
			Date:      day(2),
		},
		{
			Title:     "Crowds on demand: inside the rent-a-protest industry",
			Snippet:   "Firms openly advertise paid crowds for political events.",
			URL:       "https://example.org/news/5003",
			Publisher: "Example Post",
			Source:    "google",
			Query:     "paid crowds on demand",
			Location:  "Atlanta",
			Date:      day(3),
		},
		{
			Title:     "City council debates new permit rules",
			Snippet:   "Routine coverage of the zoning agenda.",
			URL:       "https://example.org/news/5004",
			Publisher: "Example Ledger",
			Source:    "google",
			Query:     "city council",
			Location:  "Columbus",
			Date:      day(5),
		},
	}

	return domain.RecordSet{Jobs: jobs, Orgs: orgs, News: news}, ctx.Err()
}
