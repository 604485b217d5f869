package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

// Statistical pattern detection over one scan, judged against the
// historical baselines carried in memory.

// suspiciousNamePatterns is the ordered construction table for
// organization names; the first match wins. The bare three-capitalized-
// words form is case-sensitive because the capitalization is the signal.
var suspiciousNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+ [A-Z][a-z]+$`),
	regexp.MustCompile(`(?i)(Keep|Save|Protect) \w+ (Safe|Now|First)`),
	regexp.MustCompile(`(?i)(Citizens|Americans|People|Families|Voters) (For|Against|United|First)`),
	regexp.MustCompile(`(?i)\w+ (Justice|Action|Voice|Voices) (Now|Today)`),
}

const (
	spikeRatio          = 2   // current must exceed ratio * historical
	anomalySpikePct     = 100 // percent increase worth flagging
	severeSpikePct      = 200
	patternRiskFloor    = 50
	clusterMinOrgs      = 3
	anomalyClusterFloor = 5
	clusterNamesKept    = 5
)

// AnalyzePatterns computes the statistical picture for one scan. history
// is the previous scan's job distribution; a zero value means no baseline
// and disables spike detection.
func AnalyzePatterns(records domain.RecordSet, history domain.JobPostingPatterns, now time.Time) domain.PatternReport {
	report := domain.PatternReport{
		JobPatterns: analyzeJobPatterns(records.Jobs, history),
		OrgPatterns: analyzeOrgPatterns(records.Orgs, now),
		Hotspots:    detectHotspots(records),
	}
	report.Anomalies = detectAnomalies(report)
	return report
}

func analyzeJobPatterns(jobs []domain.JobPosting, history domain.JobPostingPatterns) domain.JobPostingPatterns {
	patterns := domain.JobPostingPatterns{
		Cities:       map[string]int{},
		Keywords:     map[string]int{},
		WeeklyTrends: []domain.WeeklyTrend{},
		Spikes:       []domain.CitySpike{},
	}

	for _, job := range jobs {
		city := job.City
		if city == "" {
			city = "Unknown"
		}
		patterns.Cities[city]++
		for _, kw := range job.TrackedKeywords {
			patterns.Keywords[kw]++
		}
	}

	for _, city := range sortedKeys(patterns.Cities) {
		count := patterns.Cities[city]
		historical := history.Cities[city]
		if historical > 0 && count > spikeRatio*historical {
			patterns.Spikes = append(patterns.Spikes, domain.CitySpike{
				Type:        "city_spike",
				City:        city,
				Current:     count,
				Historical:  historical,
				IncreasePct: float64(count-historical) / float64(historical) * 100,
			})
		}
	}
	return patterns
}

func analyzeOrgPatterns(orgs []domain.Organization, now time.Time) domain.OrgPatterns {
	patterns := domain.OrgPatterns{
		NameFlags:          []domain.NameFlag{},
		HighRiskOrgs:       []domain.Organization{},
		GeographicClusters: []domain.GeographicCluster{},
		FormationClusters:  []domain.FormationCluster{},
	}

	for _, org := range orgs {
		for _, re := range suspiciousNamePatterns {
			if re.MatchString(org.Name) {
				patterns.NameFlags = append(patterns.NameFlags, domain.NameFlag{
					Name:             org.Name,
					EINOrCommitteeID: org.EINOrCommitteeID,
					State:            org.State,
				})
				break
			}
		}
		if org.RiskScore >= patternRiskFloor {
			patterns.HighRiskOrgs = append(patterns.HighRiskOrgs, org)
		}
	}

	patterns.GeographicClusters = detectGeographicClusters(orgs)
	patterns.FormationClusters = detectFormationClusters(orgs, now)
	return patterns
}

func detectGeographicClusters(orgs []domain.Organization) []domain.GeographicCluster {
	byState := make(map[string][]string)
	for _, org := range orgs {
		if org.State != "" {
			byState[org.State] = append(byState[org.State], org.Name)
		}
	}

	clusters := []domain.GeographicCluster{}
	for _, state := range sortedGroupKeys(byState) {
		names := byState[state]
		if len(names) < clusterMinOrgs {
			continue
		}
		clusters = append(clusters, domain.GeographicCluster{
			State:         state,
			Count:         len(names),
			Organizations: names[:min(clusterNamesKept, len(names))],
		})
	}
	return clusters
}

func detectFormationClusters(orgs []domain.Organization, now time.Time) []domain.FormationCluster {
	byYear := make(map[int][]string)
	for _, org := range orgs {
		if year, ok := filingYear(org.FirstFileDate); ok {
			byYear[year] = append(byYear[year], org.Name)
		}
	}

	clusters := []domain.FormationCluster{}
	for _, year := range []int{now.UTC().Year(), now.UTC().Year() - 1} {
		names := byYear[year]
		if len(names) < clusterMinOrgs {
			continue
		}
		clusters = append(clusters, domain.FormationCluster{
			Year:          year,
			Count:         len(names),
			Organizations: names[:min(clusterNamesKept, len(names))],
		})
	}
	return clusters
}

// filingYear pulls a usable year out of a filing date in any of the
// upstream formats, including bare YYYYMM strings.
func filingYear(date string) (int, bool) {
	if t, ok := domain.ParseDate(date); ok {
		return t.Year(), true
	}
	if len(date) >= 4 {
		if year, err := strconv.Atoi(date[:4]); err == nil && year > 1900 {
			return year, true
		}
	}
	return 0, false
}

// detectHotspots reports cities with simultaneous job and organization
// activity in this scan.
func detectHotspots(records domain.RecordSet) []domain.Hotspot {
	jobCities := make(map[string]struct{})
	for _, job := range records.Jobs {
		if job.City != "" {
			jobCities[job.City] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	hotspots := []domain.Hotspot{}
	for _, org := range records.Orgs {
		if org.City == "" {
			continue
		}
		if _, both := jobCities[org.City]; !both {
			continue
		}
		if _, dup := seen[org.City]; dup {
			continue
		}
		seen[org.City] = struct{}{}
		hotspots = append(hotspots, domain.Hotspot{
			City:                org.City,
			HasJobActivity:      true,
			HasOrgActivity:      true,
			CorrelationStrength: "moderate",
		})
	}
	sort.Slice(hotspots, func(i, j int) bool { return hotspots[i].City < hotspots[j].City })
	return hotspots
}

func detectAnomalies(report domain.PatternReport) []domain.Anomaly {
	anomalies := []domain.Anomaly{}

	for _, spike := range report.JobPatterns.Spikes {
		if spike.IncreasePct <= anomalySpikePct {
			continue
		}
		severity := domain.SeverityMedium
		if spike.IncreasePct > severeSpikePct {
			severity = domain.SeverityHigh
		}
		anomalies = append(anomalies, domain.Anomaly{
			Type:        "job_spike",
			Severity:    severity,
			Description: fmt.Sprintf("Job postings in %s increased %.0f%%", spike.City, spike.IncreasePct),
		})
	}

	for _, org := range report.OrgPatterns.HighRiskOrgs {
		if org.RiskScore >= highRiskFloor {
			anomalies = append(anomalies, domain.Anomaly{
				Type:        "high_risk_org",
				Severity:    domain.SeverityHigh,
				Description: "High-risk organization detected: " + org.Name,
			})
		}
	}

	for _, cluster := range report.OrgPatterns.GeographicClusters {
		if cluster.Count >= anomalyClusterFloor {
			anomalies = append(anomalies, domain.Anomaly{
				Type:        "geographic_cluster",
				Severity:    domain.SeverityMedium,
				Description: fmt.Sprintf("Cluster of %d organizations in %s", cluster.Count, cluster.State),
			})
		}
	}
	return anomalies
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedGroupKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
