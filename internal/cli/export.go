package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/civiclens/turfwatch/internal/adapter/exporter"
	"github.com/civiclens/turfwatch/internal/adapter/repository"
)

var (
	exportFormat string
	exportOut    string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the latest scan report",
	Long: `Export renders the most recent scan report, either as a JSON bundle
or as a Markdown digest.

Example:
  turfwatch export
  turfwatch export --format markdown --out digest.md`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "export format: json or markdown")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := repository.NewSnapshotStore(viper.GetString("data_dir"))

	var data string
	var err error
	switch exportFormat {
	case "json":
		data, err = exporter.NewJSONExporter(store).Export(ctx)
	case "markdown", "md":
		data, err = exporter.NewMarkdownExporter(store).Export(ctx)
	default:
		return fmt.Errorf("unknown format %q (want json or markdown)", exportFormat)
	}

	if err != nil {
		if errors.Is(err, repository.ErrNoReport) {
			return fmt.Errorf("no scan report found; run 'turfwatch scan' first")
		}
		return fmt.Errorf("export failed: %w", err)
	}

	if exportOut == "" {
		fmt.Println(data)
		return nil
	}

	if err := os.WriteFile(exportOut, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Printf("✓ Wrote %s export: %s\n", exportFormat, exportOut)

	return nil
}
