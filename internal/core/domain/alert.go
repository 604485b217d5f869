package domain

// Alert is one actionable finding raised by the analyzer. Alerts stay
// active for 30 days, then move to the archive.
type Alert struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Confidence  int      `json:"confidence"`
	Sources     []string `json:"sources,omitempty"`
	Timestamp   string   `json:"timestamp"`
}

// AlertLog is the persisted alert state: the active window plus
// everything aged out of it.
type AlertLog struct {
	Version        string  `json:"version"`
	Alerts         []Alert `json:"alerts"`
	ArchivedAlerts []Alert `json:"archivedAlerts"`
	LastUpdated    string  `json:"lastUpdated,omitempty"`
}

// NewAlertLog returns an empty alert log.
func NewAlertLog() *AlertLog {
	return &AlertLog{
		Version:        "1.0.0",
		Alerts:         []Alert{},
		ArchivedAlerts: []Alert{},
	}
}
