package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

func TestSnapshotStore_LoadMemoryDefaults(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())

	mem, err := store.LoadMemory(context.Background())
	if err != nil {
		t.Fatalf("LoadMemory() error = %v", err)
	}

	if mem.Version != domain.MemoryVersion {
		t.Errorf("Version = %q, expected %q", mem.Version, domain.MemoryVersion)
	}
	if mem.Timeline == nil || mem.JobPostingPatterns.Cities == nil {
		t.Error("Fresh memory should have initialized collections")
	}
}

func TestSnapshotStore_MemoryRoundTrip(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())
	ctx := context.Background()

	mem := domain.NewMemory()
	mem.LastScan = "2025-06-01T12:00:00Z"
	mem.SystemConfidence = 62
	mem.Stats = domain.Stats{TotalScans: 4, JobPostingsTracked: 17}
	mem.Timeline = []domain.TimelineEvent{
		{ID: "ev-1", Type: domain.RecordNews, Title: "Paid protesters reported", Score: 80, ScoreLabel: domain.LabelRelevance},
	}
	mem.JobPostingPatterns.Cities["Phoenix"] = 3

	if err := store.SaveMemory(ctx, mem); err != nil {
		t.Fatalf("SaveMemory() error = %v", err)
	}

	loaded, err := store.LoadMemory(ctx)
	if err != nil {
		t.Fatalf("LoadMemory() error = %v", err)
	}

	if diff := cmp.Diff(mem, loaded); diff != "" {
		t.Errorf("Memory round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestSnapshotStore_SaveMemoryNil(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())

	if err := store.SaveMemory(context.Background(), nil); err == nil {
		t.Error("Expected error persisting nil memory")
	}
}

func TestSnapshotStore_LoadAlertsDefaults(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())

	log, err := store.LoadAlerts(context.Background())
	if err != nil {
		t.Fatalf("LoadAlerts() error = %v", err)
	}

	if log.Version != "1.0.0" {
		t.Errorf("Version = %q", log.Version)
	}
	if len(log.Alerts) != 0 || len(log.ArchivedAlerts) != 0 {
		t.Errorf("Fresh log should be empty, got %d/%d", len(log.Alerts), len(log.ArchivedAlerts))
	}
}

func TestSnapshotStore_AlertsRoundTrip(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())
	ctx := context.Background()

	log := domain.NewAlertLog()
	log.LastUpdated = "2025-06-01T12:00:00Z"
	log.Alerts = []domain.Alert{
		{ID: "alert-1", Title: "2 suspicious job postings", Confidence: 61, Sources: []string{"Adzuna"}, Timestamp: "2025-06-01T12:00:00Z"},
	}
	log.ArchivedAlerts = []domain.Alert{
		{ID: "alert-0", Title: "old finding", Confidence: 70, Timestamp: "2025-04-01T12:00:00Z"},
	}

	if err := store.SaveAlerts(ctx, log); err != nil {
		t.Fatalf("SaveAlerts() error = %v", err)
	}

	loaded, err := store.LoadAlerts(ctx)
	if err != nil {
		t.Fatalf("LoadAlerts() error = %v", err)
	}

	if diff := cmp.Diff(log, loaded); diff != "" {
		t.Errorf("Alert log round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestSnapshotStore_LoadReportMissing(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())

	_, err := store.LoadReport(context.Background())
	if !errors.Is(err, ErrNoReport) {
		t.Errorf("LoadReport() err = %v, expected ErrNoReport", err)
	}
}

func TestSnapshotStore_ReportRoundTrip(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())
	ctx := context.Background()

	report := &domain.ScanReport{
		ID:          "scan-1",
		GeneratedAt: "2025-06-01T12:00:00Z",
		Jobs: []domain.JobPosting{
			{Title: "Paid protest staff", URL: "https://example.org/1", SuspicionScore: 60},
		},
		Connections: []domain.Connection{
			{Type: "Geographic Match", Probability: 65, Evidence: []domain.Evidence{{Type: "Job", Detail: "x"}}},
		},
		Confidence: domain.ConfidenceSummary{Overall: 45, Narrative: "test"},
	}

	if err := store.SaveReport(ctx, report); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	loaded, err := store.LoadReport(ctx)
	if err != nil {
		t.Fatalf("LoadReport() error = %v", err)
	}

	if diff := cmp.Diff(report, loaded); diff != "" {
		t.Errorf("Report round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestSnapshotStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "memory.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewSnapshotStore(dir)
	_, err := store.LoadMemory(context.Background())
	if err == nil {
		t.Error("Expected parse error for corrupt memory file")
	}
}

func TestSnapshotStore_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store := NewSnapshotStore(dir)

	if err := store.SaveMemory(context.Background(), domain.NewMemory()); err != nil {
		t.Fatalf("SaveMemory() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Errorf("Temp file left behind: %s", entry.Name())
		}
	}
}

func TestSnapshotStore_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store := NewSnapshotStore(dir)

	if err := store.SaveMemory(context.Background(), domain.NewMemory()); err != nil {
		t.Fatalf("SaveMemory() should create the data dir: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "memory.json")); err != nil {
		t.Errorf("Expected memory.json under new data dir: %v", err)
	}
}

func TestSnapshotStore_CancelledContext(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.LoadMemory(ctx); err == nil {
		t.Error("Expected error from cancelled context on load")
	}
	if err := store.SaveMemory(ctx, domain.NewMemory()); err == nil {
		t.Error("Expected error from cancelled context on save")
	}
}
