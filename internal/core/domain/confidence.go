package domain

// ConfidenceFactor is one named contributor shown next to the overall
// confidence. Factors are descriptive, not a formula input.
type ConfidenceFactor struct {
	Factor string `json:"factor"`
	Score  int    `json:"score"`
	Detail string `json:"detail,omitempty"`
}

// AgentNote is a narrative attached to a scan. The analyzer writes a
// terse monitoring line each cycle; richer notes can be submitted from
// outside and take precedence while fresh.
type AgentNote struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations,omitempty"`
	Timestamp       string   `json:"timestamp"`
}

// ConfidenceSummary is the aggregate judgment for one scan.
type ConfidenceSummary struct {
	Overall   int                `json:"overall"`
	Factors   []ConfidenceFactor `json:"factors"`
	Narrative string             `json:"narrative"`
}
