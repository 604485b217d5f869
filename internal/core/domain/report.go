package domain

// AnalysisResult is the deterministic analyzer's judgment for one scan.
type AnalysisResult struct {
	Confidence int                `json:"confidence"`
	Factors    []ConfidenceFactor `json:"factors"`
	Alerts     []Alert            `json:"alerts"`
	Note       AgentNote          `json:"note"`
	HotStates  []string           `json:"hot_states"`
}

// ScanReport is everything one scan produced: the bundle served to
// presentation layers and handed to exporters and notifiers.
type ScanReport struct {
	ID          string            `json:"id"`
	GeneratedAt string            `json:"generated_at"`
	Jobs        []JobPosting      `json:"jobs"`
	Orgs        []Organization    `json:"organizations"`
	News        []NewsArticle     `json:"news"`
	Timeline    []TimelineEvent   `json:"timeline"`
	Connections []Connection      `json:"connections"`
	Confidence  ConfidenceSummary `json:"confidence"`
	Alerts      []Alert           `json:"alerts"`
	Patterns    PatternReport     `json:"patterns"`
	HotStates   []string          `json:"hot_states"`
	Stats       Stats             `json:"stats"`
}

// ScanRow is one archived scan's summary line.
type ScanRow struct {
	ID          string `json:"id"`
	GeneratedAt string `json:"generated_at"`
	Confidence  int    `json:"confidence"`
	Narrative   string `json:"narrative"`
	Jobs        int    `json:"jobs"`
	Orgs        int    `json:"orgs"`
	News        int    `json:"news"`
	Connections int    `json:"connections"`
	Alerts      int    `json:"alerts"`
}
