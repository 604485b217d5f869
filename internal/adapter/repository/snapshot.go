package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

const (
	memoryFile = "memory.json"
	alertsFile = "alerts.json"
	reportFile = "report.json"
)

// ErrNoReport means no scan has completed yet on this data dir.
var ErrNoReport = errors.New("no scan report yet")

// SnapshotStore persists the scanner's working state as JSON files under a
// data directory. Any presentation layer can consume the files directly.
// Writes go through a temp file and rename so a crash mid-write never
// leaves a truncated snapshot behind.
type SnapshotStore struct {
	dataDir string
}

func NewSnapshotStore(dataDir string) *SnapshotStore {
	return &SnapshotStore{dataDir: dataDir}
}

// LoadMemory reads memory.json, returning fresh default memory when the
// file does not exist yet.
func (s *SnapshotStore) LoadMemory(ctx context.Context) (*domain.Memory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dataDir, memoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewMemory(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", memoryFile, err)
	}

	mem := domain.NewMemory()
	if err := json.Unmarshal(data, mem); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", memoryFile, err)
	}
	return mem, nil
}

func (s *SnapshotStore) SaveMemory(ctx context.Context, mem *domain.Memory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mem == nil {
		return fmt.Errorf("refusing to persist nil memory")
	}
	return s.writeFile(memoryFile, mem)
}

// LoadAlerts reads alerts.json, returning an empty log when the file does
// not exist yet.
func (s *SnapshotStore) LoadAlerts(ctx context.Context) (*domain.AlertLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dataDir, alertsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewAlertLog(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", alertsFile, err)
	}

	log := domain.NewAlertLog()
	if err := json.Unmarshal(data, log); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", alertsFile, err)
	}
	return log, nil
}

func (s *SnapshotStore) SaveAlerts(ctx context.Context, log *domain.AlertLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if log == nil {
		return fmt.Errorf("refusing to persist nil alert log")
	}
	return s.writeFile(alertsFile, log)
}

// LoadReport reads the latest scan report bundle. ErrNoReport signals a
// data dir no scan has written to yet.
func (s *SnapshotStore) LoadReport(ctx context.Context) (*domain.ScanReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dataDir, reportFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoReport
		}
		return nil, fmt.Errorf("failed to read %s: %w", reportFile, err)
	}

	var report domain.ScanReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", reportFile, err)
	}
	return &report, nil
}

func (s *SnapshotStore) SaveReport(ctx context.Context, report *domain.ScanReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("refusing to persist nil report")
	}
	return s.writeFile(reportFile, report)
}

func (s *SnapshotStore) writeFile(name string, v any) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir %s: %w", s.dataDir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	target := filepath.Join(s.dataDir, name)
	tmp, err := os.CreateTemp(s.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
