package domain

type RecordType string

const (
	RecordJobPosting   RecordType = "job_posting"
	RecordOrganization RecordType = "organization"
	RecordNews         RecordType = "news"
	RecordEvent        RecordType = "event"
)

// JobPosting is one collected job listing. Score is assigned once per scan
// by ScoreJob; the record is immutable afterwards within that snapshot.
type JobPosting struct {
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Company         string   `json:"company,omitempty"`
	URL             string   `json:"url"`
	City            string   `json:"city"`
	State           string   `json:"state"`
	Source          string   `json:"source,omitempty"`
	PostedDate      string   `json:"posted_date,omitempty"` // ISO-8601, may be absent or unparsable
	TrackedKeywords []string `json:"keywords_tracked,omitempty"`
	SuspicionScore  int      `json:"suspicion_score"`
}

// Organization is one nonprofit or campaign-finance committee filing.
type Organization struct {
	Name             string `json:"name"`
	Type             string `json:"type"` // nonprofit | new_committee | other
	Source           string `json:"source,omitempty"`
	EINOrCommitteeID string `json:"ein_or_committee_id,omitempty"`
	City             string `json:"city,omitempty"`
	State            string `json:"state"`
	FirstFileDate    string `json:"first_file_date,omitempty"`
	Revenue          int64  `json:"total_revenue,omitempty"`
	SourceURL        string `json:"source_url,omitempty"`
	RiskScore        int    `json:"risk_score"`
}

// NewsArticle is one collected news search hit.
type NewsArticle struct {
	Title          string `json:"title"`
	Snippet        string `json:"snippet,omitempty"`
	URL            string `json:"url"`
	Publisher      string `json:"publisher,omitempty"`
	Source         string `json:"source"` // google | duckduckgo
	Query          string `json:"query,omitempty"`
	Location       string `json:"location,omitempty"`
	Date           string `json:"date,omitempty"`
	RelevanceScore int    `json:"relevance_score"`
}

// RecordSet is the output of one provider fetch. Any of the three slices
// may be empty; a provider typically fills only one.
type RecordSet struct {
	Jobs []JobPosting   `json:"jobs"`
	Orgs []Organization `json:"organizations"`
	News []NewsArticle  `json:"news"`
}

// Merge appends another set's records into this one.
func (rs *RecordSet) Merge(other RecordSet) {
	rs.Jobs = append(rs.Jobs, other.Jobs...)
	rs.Orgs = append(rs.Orgs, other.Orgs...)
	rs.News = append(rs.News, other.News...)
}

// Empty reports whether the set holds no records of any kind.
func (rs RecordSet) Empty() bool {
	return len(rs.Jobs) == 0 && len(rs.Orgs) == 0 && len(rs.News) == 0
}

// Total is the record count across all three kinds.
func (rs RecordSet) Total() int {
	return len(rs.Jobs) + len(rs.Orgs) + len(rs.News)
}
