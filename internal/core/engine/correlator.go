package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

// The correlator runs four independent detectors over one scan's record
// sets. Each detector emits at most one connection; detectors never
// cross-validate, so one record can back several categories. Probability
// is linear in the match count with a per-detector cap, ordered so the
// stronger category never scores below the weaker one:
// Geographic >= Naming >= New High-Risk >= News Cluster.

const (
	ConnectionGeographic  = "Geographic Match"
	ConnectionNaming      = "Naming Pattern"
	ConnectionNewHighRisk = "New High-Risk Orgs"
	ConnectionNewsCluster = "News Cluster"
)

// correlationCities is the fixed city vocabulary searched inside news
// titles when an article carries no explicit location.
var correlationCities = []string{
	"dallas", "los angeles", "la", "new york", "nyc", "chicago", "houston",
	"phoenix", "philadelphia", "san antonio", "san diego", "austin",
	"portland", "seattle", "minneapolis", "denver", "atlanta", "miami",
	"detroit", "boston",
}

// namingTokens is the detector's name vocabulary. Narrower than the
// scorer's table on purpose: only the strongest generic constructions
// count toward a cross-org pattern.
var namingTokens = []string{"freedom", "liberty", "citizens for", "americans for"}

const (
	geographicBase, geographicSlope, geographicCap = 60, 5, 85
	namingBase, namingSlope, namingCap             = 55, 3, 80
	newOrgBase, newOrgSlope, newOrgCap             = 50, 10, 75
	clusterBase, clusterSlope, clusterCap          = 45, 5, 70

	namingMinOrgs   = 3
	clusterMinNews  = 3
	newOrgRiskFloor = 70
	newOrgMaxAge    = 6 // months

	evidenceBudget     = 80
	filedNameBudget    = 35
	newsEvidenceBudget = 100
)

// FindConnections scans the three record sets and returns every detected
// connection, sorted by probability descending; ties keep detector order.
// An empty result is the normal "no pattern" outcome, not an error.
func FindConnections(jobs []domain.JobPosting, news []domain.NewsArticle, orgs []domain.Organization, now time.Time) []domain.Connection {
	connections := make([]domain.Connection, 0, 4)

	if c, ok := detectGeographicMatch(jobs, news); ok {
		connections = append(connections, c)
	}
	if c, ok := detectNamingPattern(orgs); ok {
		connections = append(connections, c)
	}
	if c, ok := detectNewHighRiskOrgs(orgs, now); ok {
		connections = append(connections, c)
	}
	if c, ok := detectNewsCluster(news); ok {
		connections = append(connections, c)
	}

	sort.SliceStable(connections, func(i, j int) bool {
		return connections[i].Probability > connections[j].Probability
	})
	return connections
}

// detectGeographicMatch flags job postings located in cities that current
// protest coverage mentions. The location set is every article's explicit
// location plus any known city name found inside an article title.
func detectGeographicMatch(jobs []domain.JobPosting, news []domain.NewsArticle) (domain.Connection, bool) {
	locations := make(map[string]struct{})
	for _, article := range news {
		if loc := strings.ToLower(strings.TrimSpace(article.Location)); loc != "" {
			locations[loc] = struct{}{}
		}
		title := strings.ToLower(article.Title)
		for _, city := range correlationCities {
			if strings.Contains(title, city) {
				locations[city] = struct{}{}
			}
		}
	}
	if len(locations) == 0 {
		return domain.Connection{}, false
	}

	var matched []domain.JobPosting
	for _, job := range jobs {
		city := strings.ToLower(strings.TrimSpace(job.City))
		if _, ok := locations[city]; ok {
			matched = append(matched, job)
		}
	}
	if len(matched) == 0 {
		return domain.Connection{}, false
	}

	evidence := make([]domain.Evidence, 0, 2)
	for _, job := range matched[:min(2, len(matched))] {
		evidence = append(evidence, domain.Evidence{
			Type:   "Job",
			Detail: fmt.Sprintf("%s (%s)", domain.Truncate(job.Title, evidenceBudget), job.City),
		})
	}

	return domain.Connection{
		Type:        ConnectionGeographic,
		Description: fmt.Sprintf("%d job posting(s) found in cities with protest-related news.", len(matched)),
		Probability: min(geographicBase+geographicSlope*len(matched), geographicCap),
		Evidence:    evidence,
	}, true
}

// detectNamingPattern flags a cluster of organizations sharing generic
// patriotic naming.
func detectNamingPattern(orgs []domain.Organization) (domain.Connection, bool) {
	var matched []domain.Organization
	for _, org := range orgs {
		name := strings.ToLower(org.Name)
		for _, token := range namingTokens {
			if strings.Contains(name, token) {
				matched = append(matched, org)
				break
			}
		}
	}
	if len(matched) < namingMinOrgs {
		return domain.Connection{}, false
	}

	evidence := make([]domain.Evidence, 0, 3)
	for _, org := range matched[:min(3, len(matched))] {
		evidence = append(evidence, domain.Evidence{
			Type:   "Org",
			Detail: domain.Truncate(org.Name, evidenceBudget),
		})
	}

	return domain.Connection{
		Type:        ConnectionNaming,
		Description: fmt.Sprintf("%d orgs with generic patriotic names typical of astroturf.", len(matched)),
		Probability: min(namingBase+namingSlope*len(matched), namingCap),
		Evidence:    evidence,
	}, true
}

// detectNewHighRiskOrgs flags organizations that both filed recently and
// already score as high risk.
func detectNewHighRiskOrgs(orgs []domain.Organization, now time.Time) (domain.Connection, bool) {
	cutoff := now.AddDate(0, -newOrgMaxAge, 0)

	var matched []domain.Organization
	for _, org := range orgs {
		filed, ok := domain.ParseDate(org.FirstFileDate)
		if !ok {
			continue
		}
		if filed.After(cutoff) && org.RiskScore >= newOrgRiskFloor {
			matched = append(matched, org)
		}
	}
	if len(matched) == 0 {
		return domain.Connection{}, false
	}

	evidence := make([]domain.Evidence, 0, 2)
	for _, org := range matched[:min(2, len(matched))] {
		evidence = append(evidence, domain.Evidence{
			Type:   "Filed",
			Detail: fmt.Sprintf("%s (%s)", domain.Truncate(org.Name, filedNameBudget), org.FirstFileDate),
		})
	}

	return domain.Connection{
		Type:        ConnectionNewHighRisk,
		Description: fmt.Sprintf("%d high-risk org(s) filed in last 6 months.", len(matched)),
		Probability: min(newOrgBase+newOrgSlope*len(matched), newOrgCap),
		Evidence:    evidence,
	}, true
}

// detectNewsCluster flags a burst of coverage that names paid
// participation outright, in the headline or in the query that surfaced
// the article.
func detectNewsCluster(news []domain.NewsArticle) (domain.Connection, bool) {
	var matched []domain.NewsArticle
	for _, article := range news {
		if strings.Contains(strings.ToLower(article.Title), "paid") ||
			strings.Contains(strings.ToLower(article.Query), "paid") {
			matched = append(matched, article)
		}
	}
	if len(matched) < clusterMinNews {
		return domain.Connection{}, false
	}

	evidence := make([]domain.Evidence, 0, 2)
	for _, article := range matched[:min(2, len(matched))] {
		evidence = append(evidence, domain.Evidence{
			Type:   "News",
			Detail: domain.Truncate(article.Title, newsEvidenceBudget),
		})
	}

	return domain.Connection{
		Type:        ConnectionNewsCluster,
		Description: fmt.Sprintf("%d articles specifically about paid protesters.", len(matched)),
		Probability: min(clusterBase+clusterSlope*len(matched), clusterCap),
		Evidence:    evidence,
	}, true
}
