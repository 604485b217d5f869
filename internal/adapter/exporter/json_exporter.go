package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/civiclens/turfwatch/internal/core/domain"
	"github.com/civiclens/turfwatch/internal/core/ports"
)

// JSONExporter exports the latest scan report as a portable JSON bundle
type JSONExporter struct {
	store ports.SnapshotStore
}

func NewJSONExporter(store ports.SnapshotStore) *JSONExporter {
	return &JSONExporter{store: store}
}

// Export generates a JSON bundle wrapping the latest scan report
func (e *JSONExporter) Export(ctx context.Context) (string, error) {
	report, err := e.store.LoadReport(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load scan report: %w", err)
	}

	bundle := ReportBundle{
		Type:       "turfwatch-report",
		ID:         fmt.Sprintf("bundle--%s", uuid.New().String()),
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Report:     report,
	}

	// Marshal to JSON
	jsonData, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report bundle: %w", err)
	}

	return string(jsonData), nil
}

// Export bundle structures

type ReportBundle struct {
	Type       string             `json:"type"`
	ID         string             `json:"id"`
	ExportedAt string             `json:"exported_at"`
	Report     *domain.ScanReport `json:"report"`
}
