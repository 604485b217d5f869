package domain

const MemoryVersion = "1.0.0"

// Stats is the running counter block shown on dashboards.
type Stats struct {
	Events              int `json:"events"`
	Alerts              int `json:"alerts"`
	Orgs                int `json:"orgs"`
	TotalScans          int `json:"totalScans"`
	JobPostingsTracked  int `json:"jobPostingsTracked"`
	NonprofitsMonitored int `json:"nonprofitsMonitored"`
}

// KnownPatterns is the curated seed of already-documented astroturf
// infrastructure, loaded from the watchlist.
type KnownPatterns struct {
	ThreeWordNames []string `json:"threeWordNames"`
	DelawareShells []string `json:"delawareShells"`
	PRFirms        []string `json:"prFirms"`
}

// DocumentedCase is one historically confirmed astroturf operation kept
// for reference next to live findings.
type DocumentedCase struct {
	Name      string `json:"name"`
	Year      int    `json:"year,omitempty"`
	Summary   string `json:"summary,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// AnalysisRecord is one compact line of scan history.
type AnalysisRecord struct {
	Timestamp  string `json:"timestamp"`
	Confidence int    `json:"confidence"`
	Alerts     int    `json:"alerts"`
	Records    int    `json:"records"`
}

// Memory is the long-lived working state carried between scans. It is
// loaded at the start of a cycle, folded with the fresh results, pruned,
// and written back whole.
type Memory struct {
	Version                string             `json:"version"`
	LastScan               string             `json:"lastScan,omitempty"`
	LastAnalysis           string             `json:"lastAnalysis,omitempty"`
	Stats                  Stats              `json:"stats"`
	SystemConfidence       int                `json:"systemConfidence"`
	Timeline               []TimelineEvent    `json:"timeline"`
	FlaggedOrganizations   []Organization     `json:"flaggedOrganizations"`
	JobPostingPatterns     JobPostingPatterns `json:"jobPostingPatterns"`
	Correlations           CorrelationMemory  `json:"correlations"`
	KnownAstroturfPatterns KnownPatterns      `json:"knownAstroturfPatterns"`
	DocumentedCases        []DocumentedCase   `json:"documentedCases"`
	AnalysisHistory        []AnalysisRecord   `json:"analysisHistory"`
	AgentNotes             []AgentNote        `json:"agentNotes"`
}

// NewMemory returns a fresh memory with every collection initialized, so a
// first scan never has to nil-check persisted state.
func NewMemory() *Memory {
	return &Memory{
		Version:              MemoryVersion,
		Timeline:             []TimelineEvent{},
		FlaggedOrganizations: []Organization{},
		JobPostingPatterns: JobPostingPatterns{
			Cities:       map[string]int{},
			Keywords:     map[string]int{},
			WeeklyTrends: []WeeklyTrend{},
			Spikes:       []CitySpike{},
		},
		Correlations: CorrelationMemory{
			JobSpikeEvents:       []CitySpike{},
			OrgFormationClusters: []FormationCluster{},
			GeographicHotspots:   []Hotspot{},
		},
		KnownAstroturfPatterns: KnownPatterns{
			ThreeWordNames: []string{},
			DelawareShells: []string{},
			PRFirms:        []string{},
		},
		DocumentedCases: []DocumentedCase{},
		AnalysisHistory: []AnalysisRecord{},
		AgentNotes:      []AgentNote{},
	}
}
