package domain

// ScoreLabel names what a timeline event's score measures.
type ScoreLabel string

const (
	LabelRelevance ScoreLabel = "relevance"
	LabelSuspicion ScoreLabel = "suspicion"
	LabelRisk      ScoreLabel = "risk"
)

// TimelineEvent is the normalized projection of one job posting,
// organization, or news article, or a legacy entry carried over from a
// previous snapshot. Every event traces back to exactly one origin record.
type TimelineEvent struct {
	ID         string     `json:"id,omitempty"`
	Type       RecordType `json:"type"`
	Title      string     `json:"title"`
	Date       string     `json:"date,omitempty"` // ISO-8601; unparsable sorts as epoch
	SourceURL  string     `json:"source_url,omitempty"`
	Score      int        `json:"score"`
	ScoreLabel ScoreLabel `json:"score_label"`
}

// TimelinePage is one display slice of a sorted timeline: the visible
// events plus how many more a caller could reveal by raising the limit.
// Expanding only moves the slice boundary, never re-sorts.
type TimelinePage struct {
	Events    []TimelineEvent `json:"events"`
	Total     int             `json:"total"`
	Remaining int             `json:"remaining"`
}
