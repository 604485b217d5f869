package ports

// Notifier defines the interface for sending notifications to external systems
type Notifier interface {
	// NotifyConnection sends notification for a high-probability correlation
	NotifyConnection(conn ConnectionNotification) error

	// NotifyAlert sends notification for a newly raised alert
	NotifyAlert(alert AlertNotification) error

	// NotifyScanSummary sends a digest after a completed scan cycle
	NotifyScanSummary(summary ScanSummary) error
}

// Notification data structures

type ConnectionNotification struct {
	Type        string
	Description string
	Probability int
	Evidence    []string
}

type AlertNotification struct {
	Title       string
	Description string
	Confidence  int
	Sources     []string
	Timestamp   string
}

type ScanSummary struct {
	ScanID      string
	Confidence  int
	Narrative   string
	Jobs        int
	Orgs        int
	News        int
	Connections int
	NewAlerts   int
	HotStates   []string
	Duration    string
}
