package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// metricsOnce ensures metrics are registered only once
	metricsOnce sync.Once

	// scanCyclesTotal tracks completed scan cycles by status
	scanCyclesTotal *prometheus.CounterVec

	// scanDuration tracks latency of full scan cycles
	scanDuration prometheus.Histogram

	// recordsScoredTotal tracks scored records by record type
	recordsScoredTotal *prometheus.CounterVec

	// connectionsDetectedTotal tracks detected connections by type
	connectionsDetectedTotal *prometheus.CounterVec

	// systemConfidence tracks the current overall confidence score
	systemConfidence prometheus.Gauge

	// activeAlerts tracks the current active alert count
	activeAlerts prometheus.Gauge

	// notificationsTotal tracks outbound notifications by status
	notificationsTotal *prometheus.CounterVec

	// deliveryErrorsTotal tracks notification delivery errors by reason
	deliveryErrorsTotal *prometheus.CounterVec

	// httpRequestsTotal tracks API requests by path and status code
	httpRequestsTotal *prometheus.CounterVec
)

// InitMetrics registers all Prometheus metrics for the scanner.
// This should be called once at application startup
func InitMetrics() {
	metricsOnce.Do(func() {
		scanCyclesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turfwatch_scan_cycles_total",
				Help: "Total number of scan cycles by status",
			},
			[]string{"status"},
		)

		scanDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "turfwatch_scan_duration_seconds",
				Help:    "Duration of full scan cycles in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
		)

		recordsScoredTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turfwatch_records_scored_total",
				Help: "Total number of records scored by record type",
			},
			[]string{"record_type"},
		)

		connectionsDetectedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turfwatch_connections_detected_total",
				Help: "Total number of detected connections by type",
			},
			[]string{"type"},
		)

		systemConfidence = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "turfwatch_system_confidence",
				Help: "Overall confidence score of the latest scan (0-100)",
			},
		)

		activeAlerts = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "turfwatch_active_alerts",
				Help: "Number of currently active alerts",
			},
		)

		notificationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turfwatch_notifications_total",
				Help: "Total number of outbound notifications by status",
			},
			[]string{"status"},
		)

		deliveryErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turfwatch_delivery_errors_total",
				Help: "Total number of notification delivery errors by reason",
			},
			[]string{"reason"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turfwatch_http_requests_total",
				Help: "Total number of API requests by path and status code",
			},
			[]string{"path", "code"},
		)
	})
}

// RecordScan records a completed scan cycle
// status: "success", "error"
func RecordScan(status string) {
	if scanCyclesTotal != nil {
		scanCyclesTotal.WithLabelValues(status).Inc()
	}
}

// RecordScanDuration records the duration of a scan cycle
func RecordScanDuration(duration time.Duration) {
	if scanDuration != nil {
		scanDuration.Observe(duration.Seconds())
	}
}

// RecordScored records scored records by type
// recordType: "job_posting", "organization", "news"
func RecordScored(recordType string, count int) {
	if recordsScoredTotal != nil && count > 0 {
		recordsScoredTotal.WithLabelValues(recordType).Add(float64(count))
	}
}

// RecordConnection records one detected connection by type
func RecordConnection(connType string) {
	if connectionsDetectedTotal != nil {
		connectionsDetectedTotal.WithLabelValues(connType).Inc()
	}
}

// SetSystemConfidence updates the confidence gauge
func SetSystemConfidence(score int) {
	if systemConfidence != nil {
		systemConfidence.Set(float64(score))
	}
}

// SetActiveAlerts updates the active alert gauge
func SetActiveAlerts(count int) {
	if activeAlerts != nil {
		activeAlerts.Set(float64(count))
	}
}

// RecordNotification records an outbound notification attempt
// status: "sent", "error", "skipped"
func RecordNotification(status string) {
	if notificationsTotal != nil {
		notificationsTotal.WithLabelValues(status).Inc()
	}
}

// RecordDeliveryError records a notification delivery error
// reason: "connection", "rate_limit", "server_error", "circuit_open", "auth", "timeout", "http_error"
func RecordDeliveryError(reason string) {
	if deliveryErrorsTotal != nil {
		deliveryErrorsTotal.WithLabelValues(reason).Inc()
	}
}

// RecordHTTPRequest records one handled API request
func RecordHTTPRequest(path string, code int) {
	if httpRequestsTotal != nil {
		httpRequestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
	}
}

// ScanTimer is a helper for timing scan cycles
type ScanTimer struct {
	start time.Time
}

// StartTimer creates a new timer for measuring scan duration
func StartTimer() *ScanTimer {
	return &ScanTimer{start: time.Now()}
}

// ObserveDuration records the elapsed time since the timer started
func (t *ScanTimer) ObserveDuration() {
	if t != nil {
		RecordScanDuration(time.Since(t.start))
	}
}
