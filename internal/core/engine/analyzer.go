package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

// The deterministic analyzer turns one scan's scored records and
// connections into an overall confidence, named factors, and rule-based
// alerts. It is the numeric judgment the confidence aggregator treats as
// externally supplied.

const (
	baseConfidence = 35
	maxConfidence  = 85

	newsVolumeFloor = 5 // branches only open past these volumes
	orgVolumeFloor  = 3

	highRelevanceFloor = 60
	highRiskFloor      = 70
	highSuspicionFloor = 50

	hotStateFloor = 50
	maxHotStates  = 3
)

// Analyze computes the deterministic analysis for one scan. Pure; alert
// IDs are left empty for the caller to assign on persistence.
func Analyze(jobs []domain.JobPosting, orgs []domain.Organization, news []domain.NewsArticle, connections []domain.Connection, now time.Time) domain.AnalysisResult {
	ts := domain.Timestamp(now)
	confidence := baseConfidence
	factors := make([]domain.ConfidenceFactor, 0, 3)
	alerts := []domain.Alert{}

	if len(news) > newsVolumeFloor {
		confidence += 10
		highRelevance := 0
		for _, n := range news {
			if n.RelevanceScore >= highRelevanceFloor {
				highRelevance++
			}
		}
		factors = append(factors, domain.ConfidenceFactor{
			Factor: "News Coverage",
			Score:  min(highRelevance*8+40, 80),
			Detail: fmt.Sprintf("%d high-relevance articles", highRelevance),
		})

		var paid []domain.NewsArticle
		for _, n := range news {
			if strings.Contains(strings.ToLower(n.Title), "paid") {
				paid = append(paid, n)
			}
		}
		if len(paid) > 0 {
			alerts = append(alerts, domain.Alert{
				Title:       fmt.Sprintf("%d articles about paid protesters", len(paid)),
				Description: "News mentions paid protesters: " + domain.Truncate(paid[0].Title, 60),
				Confidence:  min(50+10*len(paid), 75),
				Sources:     []string{"Google News", "DuckDuckGo"},
				Timestamp:   ts,
			})
		}
	}

	if len(orgs) > orgVolumeFloor {
		confidence += 10
		highRisk := 0
		for _, o := range orgs {
			if o.RiskScore >= highRiskFloor {
				highRisk++
			}
		}
		factors = append(factors, domain.ConfidenceFactor{
			Factor: "Organization Risk",
			Score:  min(highRisk*12+35, 85),
			Detail: fmt.Sprintf("%d high-risk orgs", highRisk),
		})
		if highRisk >= 3 {
			alerts = append(alerts, domain.Alert{
				Title:       fmt.Sprintf("%d high-risk organizations detected", highRisk),
				Description: "Multiple organizations flagged with suspicious patterns.",
				Confidence:  min(55+5*highRisk, 80),
				Sources:     []string{"FEC", "ProPublica"},
				Timestamp:   ts,
			})
		}
	}

	if len(jobs) > 0 {
		confidence += 5
		highSuspicion := 0
		for _, j := range jobs {
			if j.SuspicionScore >= highSuspicionFloor {
				highSuspicion++
			}
		}
		factors = append(factors, domain.ConfidenceFactor{
			Factor: "Job Postings",
			Score:  min(highSuspicion*10+30, 75),
			Detail: fmt.Sprintf("%d suspicious postings", highSuspicion),
		})
		if highSuspicion >= 2 {
			alerts = append(alerts, domain.Alert{
				Title:       fmt.Sprintf("%d suspicious job postings", highSuspicion),
				Description: "Job postings with suspicious keywords detected.",
				Confidence:  min(45+8*highSuspicion, 70),
				Sources:     []string{"Adzuna", "USAJobs"},
				Timestamp:   ts,
			})
		}
	}

	for _, conn := range connections[:min(2, len(connections))] {
		if conn.Probability < 60 {
			continue
		}
		sources := make([]string, 0, 3)
		for _, ev := range conn.Evidence[:min(3, len(conn.Evidence))] {
			sources = append(sources, ev.Type)
		}
		alerts = append(alerts, domain.Alert{
			Title:       "Pattern: " + conn.Type,
			Description: conn.Description,
			Confidence:  conn.Probability,
			Sources:     sources,
			Timestamp:   ts,
		})
	}

	return domain.AnalysisResult{
		Confidence: min(confidence, maxConfidence),
		Factors:    factors,
		Alerts:     alerts,
		Note: domain.AgentNote{
			Summary: fmt.Sprintf("Monitoring %d news, %d orgs, %d jobs. %d alerts.",
				len(news), len(orgs), len(jobs), len(alerts)),
			Timestamp: ts,
		},
		HotStates: hotStates(jobs, orgs),
	}
}

// hotStates sums suspicion and risk per state and keeps the top states
// whose accumulated score clears the floor.
func hotStates(jobs []domain.JobPosting, orgs []domain.Organization) []string {
	totals := make(map[string]int)
	for _, job := range jobs {
		if job.State != "" {
			totals[job.State] += job.SuspicionScore
		}
	}
	for _, org := range orgs {
		if org.State != "" {
			totals[org.State] += org.RiskScore
		}
	}

	type stateTotal struct {
		state string
		total int
	}
	ranked := make([]stateTotal, 0, len(totals))
	for state, total := range totals {
		if total > hotStateFloor {
			ranked = append(ranked, stateTotal{state, total})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].total != ranked[j].total {
			return ranked[i].total > ranked[j].total
		}
		return ranked[i].state < ranked[j].state
	})

	states := make([]string, 0, maxHotStates)
	for _, st := range ranked[:min(maxHotStates, len(ranked))] {
		states = append(states, st.state)
	}
	return states
}
