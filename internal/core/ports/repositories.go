package ports

import (
	"context"
	"time"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

type RecordProvider interface {
	FetchRecords(ctx context.Context) (domain.RecordSet, error)
	Name() string
}

type SnapshotStore interface {
	LoadMemory(ctx context.Context) (*domain.Memory, error)
	SaveMemory(ctx context.Context, mem *domain.Memory) error
	LoadAlerts(ctx context.Context) (*domain.AlertLog, error)
	SaveAlerts(ctx context.Context, log *domain.AlertLog) error
	LoadReport(ctx context.Context) (*domain.ScanReport, error)
	SaveReport(ctx context.Context, report *domain.ScanReport) error
}

type ScanArchive interface {
	SaveScan(ctx context.Context, report *domain.ScanReport) error
	FindScansSince(ctx context.Context, since time.Time, limit int) ([]domain.ScanRow, error)
	FindAlertsSince(ctx context.Context, since time.Time, limit int) ([]domain.Alert, error)
}
