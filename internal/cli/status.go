package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/civiclens/turfwatch/internal/adapter/repository"
)

var statusHistory int

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print stats, confidence and last scan time from the snapshot",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().IntVar(&statusHistory, "history", 0, "also list N recent scans from the archive (requires DATABASE_URL)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := repository.NewSnapshotStore(viper.GetString("data_dir"))

	mem, err := store.LoadMemory(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	lastScan := mem.LastScan
	if lastScan == "" {
		lastScan = "never"
	}
	lastAnalysis := mem.LastAnalysis
	if lastAnalysis == "" {
		lastAnalysis = "never"
	}

	fmt.Printf("System confidence:   %d/100 (%s)\n", mem.SystemConfidence, confidenceTier(mem.SystemConfidence))
	fmt.Printf("Last scan:           %s\n", lastScan)
	fmt.Printf("Last analysis:       %s\n", lastAnalysis)
	fmt.Printf("Total scans:         %d\n", mem.Stats.TotalScans)
	fmt.Printf("Timeline events:     %d\n", mem.Stats.Events)
	fmt.Printf("Active alerts:       %d\n", mem.Stats.Alerts)
	fmt.Printf("Flagged orgs:        %d\n", mem.Stats.Orgs)
	fmt.Printf("Jobs tracked:        %d\n", mem.Stats.JobPostingsTracked)
	fmt.Printf("Nonprofits tracked:  %d\n", mem.Stats.NonprofitsMonitored)

	if statusHistory > 0 {
		if err := printHistory(ctx, statusHistory); err != nil {
			return err
		}
	}

	return nil
}

// printHistory lists recent archived scans from the database
func printHistory(ctx context.Context, limit int) error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return fmt.Errorf("DATABASE_URL not set; scan history requires the archive database")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect to archive: %w", err)
	}
	defer pool.Close()

	archive := repository.NewPostgresArchive(pool)
	rows, err := archive.FindScansSince(ctx, time.Time{}, limit)
	if err != nil {
		return fmt.Errorf("load scan history: %w", err)
	}

	fmt.Printf("\nRecent scans (%d):\n", len(rows))
	if len(rows) == 0 {
		fmt.Println("  none archived yet")
		return nil
	}

	for _, row := range rows {
		fmt.Printf("  %s  %s  confidence %3d  %3d jobs  %3d orgs  %3d news  %d connections  %d alerts\n",
			shortID(row.ID), row.GeneratedAt, row.Confidence,
			row.Jobs, row.Orgs, row.News, row.Connections, row.Alerts)
	}

	return nil
}

// shortID renders the first block of a UUID for compact listings
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
