package domain

// JobPostingPatterns is the per-scan distribution of job activity, also
// persisted in memory as the historical baseline for spike detection.
type JobPostingPatterns struct {
	Cities       map[string]int `json:"cities"`
	Keywords     map[string]int `json:"keywords"`
	WeeklyTrends []WeeklyTrend  `json:"weeklyTrends"`
	Spikes       []CitySpike    `json:"spikes,omitempty"`
}

type WeeklyTrend struct {
	Week  string `json:"week"`
	Count int    `json:"count"`
}

// CitySpike marks a city whose current job count exceeds twice its
// historical count.
type CitySpike struct {
	Type        string  `json:"type"`
	City        string  `json:"city"`
	Current     int     `json:"current"`
	Historical  int     `json:"historical"`
	IncreasePct float64 `json:"increase_pct"`
}

// Hotspot is a city with simultaneous job and organization activity.
type Hotspot struct {
	City                string `json:"city"`
	HasJobActivity      bool   `json:"has_job_activity"`
	HasOrgActivity      bool   `json:"has_org_activity"`
	CorrelationStrength string `json:"correlation_strength"`
}

// CorrelationMemory is the persisted cross-source correlation block.
type CorrelationMemory struct {
	JobSpikeEvents       []CitySpike        `json:"jobSpikeEvents"`
	OrgFormationClusters []FormationCluster `json:"orgFormationClusters"`
	GeographicHotspots   []Hotspot          `json:"geographicHotspots"`
}

// NameFlag records an organization name that matched one of the
// suspicious-name constructions.
type NameFlag struct {
	Name             string `json:"name"`
	EINOrCommitteeID string `json:"ein_or_committee_id,omitempty"`
	State            string `json:"state,omitempty"`
}

// GeographicCluster is a state holding at least three collected
// organizations in one scan.
type GeographicCluster struct {
	State         string   `json:"state"`
	Count         int      `json:"count"`
	Organizations []string `json:"organizations"`
}

// FormationCluster is a recent filing year holding at least three
// collected organizations.
type FormationCluster struct {
	Year          int      `json:"year"`
	Count         int      `json:"count"`
	Organizations []string `json:"organizations"`
}

// OrgPatterns groups the organization-side statistical findings.
type OrgPatterns struct {
	NameFlags          []NameFlag          `json:"name_flags"`
	HighRiskOrgs       []Organization      `json:"high_risk_orgs"`
	GeographicClusters []GeographicCluster `json:"geographic_clusters"`
	FormationClusters  []FormationCluster  `json:"formation_clusters"`
}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Anomaly is one statistical outlier worth surfacing on its own.
type Anomaly struct {
	Type        string   `json:"type"` // job_spike | high_risk_org | geographic_cluster
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// PatternReport is the full statistical picture for one scan.
type PatternReport struct {
	JobPatterns JobPostingPatterns `json:"job_patterns"`
	OrgPatterns OrgPatterns        `json:"org_patterns"`
	Hotspots    []Hotspot          `json:"hotspots"`
	Anomalies   []Anomaly          `json:"anomalies"`
}
