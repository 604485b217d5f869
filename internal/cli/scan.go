package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/civiclens/turfwatch/internal/adapter/collector"
	"github.com/civiclens/turfwatch/internal/adapter/exporter"
	"github.com/civiclens/turfwatch/internal/adapter/repository"
	"github.com/civiclens/turfwatch/internal/core/ports"
	"github.com/civiclens/turfwatch/internal/scan"
)

var (
	scanSources   string
	scanWatchlist string
	scanDemo      bool
	outJSON       string
	outMD         string
	scanTimeout   time.Duration
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan cycle over the configured record feeds",
	Long: `Scan collects job posting, organization and news records from the
configured feeds, scores and correlates them, folds the results into
the persistent snapshot, and prints a summary.

Example:
  turfwatch scan --demo
  turfwatch scan --sources ./feeds --json report.json
  turfwatch scan --data-dir /var/lib/turfwatch --md digest.md`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Input flags
	scanCmd.Flags().StringVar(&scanSources, "sources", "", "directory of JSON record feeds (default: <data-dir>/feeds)")
	scanCmd.Flags().StringVar(&scanWatchlist, "watchlist", "", "watchlist YAML path (default: built-in keyword and pattern set)")
	scanCmd.Flags().BoolVar(&scanDemo, "demo", false, "include the built-in sample data set")

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "", "write the full report bundle to this path")
	scanCmd.Flags().StringVar(&outMD, "md", "", "write a Markdown digest to this path")

	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 2*time.Minute, "overall scan timeout")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	dir := viper.GetString("data_dir")

	wl, err := collector.LoadWatchlist(scanWatchlist)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}

	sourcesDir := scanSources
	if sourcesDir == "" {
		sourcesDir = filepath.Join(dir, "feeds")
	}

	providers := []ports.RecordProvider{collector.NewFileProvider("feeds", sourcesDir)}
	if scanDemo {
		providers = append(providers, collector.NewSampleProvider())
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Data dir: %s\n", dir)
		fmt.Fprintf(os.Stderr, "Sources:  %s\n", sourcesDir)
		fmt.Fprintf(os.Stderr, "Demo:     %v\n", scanDemo)
		fmt.Fprintln(os.Stderr)
	}

	store := repository.NewSnapshotStore(dir)
	scanner := scan.NewScanner(store, providers, nil, nil, scan.Config{
		TrackedKeywords: wl.TrackedKeywords,
		KnownPatterns:   wl.KnownPatterns,
		DocumentedCases: wl.DocumentedCases,
	})

	report, err := scanner.RunScan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	// Print summary
	fmt.Printf("Scan %s complete\n", report.ID)
	fmt.Printf("  Confidence:  %d/100 (%s)\n", report.Confidence.Overall, confidenceTier(report.Confidence.Overall))
	fmt.Printf("  Records:     %d jobs, %d orgs, %d news\n", len(report.Jobs), len(report.Orgs), len(report.News))
	fmt.Printf("  Connections: %d\n", len(report.Connections))
	fmt.Printf("  New alerts:  %d\n", len(report.Alerts))
	if len(report.HotStates) > 0 {
		fmt.Printf("  Hot states:  %s\n", strings.Join(report.HotStates, ", "))
	}

	// Render optional exports from the snapshot just written
	if outJSON != "" {
		data, err := exporter.NewJSONExporter(store).Export(ctx)
		if err != nil {
			return fmt.Errorf("json export failed: %w", err)
		}
		if err := os.WriteFile(outJSON, []byte(data), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outJSON, err)
		}
		fmt.Printf("✓ Wrote JSON report: %s\n", outJSON)
	}

	if outMD != "" {
		data, err := exporter.NewMarkdownExporter(store).Export(ctx)
		if err != nil {
			return fmt.Errorf("markdown export failed: %w", err)
		}
		if err := os.WriteFile(outMD, []byte(data), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outMD, err)
		}
		fmt.Printf("✓ Wrote Markdown digest: %s\n", outMD)
	}

	return nil
}
