package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/civiclens/turfwatch/internal/adapter/repository"
	"github.com/civiclens/turfwatch/internal/core/domain"
)

var (
	alertsArchived bool
	alertsLimit    int
)

// alertsCmd represents the alerts command
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List active or archived alerts",
	Long: `Alerts lists the findings the analyzer considered actionable.
Active alerts are at most 30 days old; older ones move to the archive.

Example:
  turfwatch alerts
  turfwatch alerts --archived --limit 10`,
	Args: cobra.NoArgs,
	RunE: runAlerts,
}

func init() {
	rootCmd.AddCommand(alertsCmd)

	alertsCmd.Flags().BoolVar(&alertsArchived, "archived", false, "list archived alerts instead of active ones")
	alertsCmd.Flags().IntVar(&alertsLimit, "limit", 25, "maximum alerts to list")
}

func runAlerts(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := repository.NewSnapshotStore(viper.GetString("data_dir"))

	logbook, err := store.LoadAlerts(ctx)
	if err != nil {
		return fmt.Errorf("load alerts: %w", err)
	}

	list := logbook.Alerts
	kind := "active"
	if alertsArchived {
		list = logbook.ArchivedAlerts
		kind = "archived"
	}

	if len(list) == 0 {
		fmt.Printf("No %s alerts.\n", kind)
		return nil
	}

	shown := len(list)
	if alertsLimit > 0 && shown > alertsLimit {
		shown = alertsLimit
	}

	for _, alert := range list[:shown] {
		printAlert(alert)
	}

	fmt.Printf("Showing %d of %d %s alerts\n", shown, len(list), kind)
	return nil
}

func printAlert(alert domain.Alert) {
	emoji := "🟡"
	if alert.Confidence >= 80 {
		emoji = "🟠"
	}
	if alert.Confidence >= 90 {
		emoji = "🔴"
	}

	fmt.Printf("%s %3d/100  %s  (%s)\n", emoji, alert.Confidence, alert.Title, alert.Timestamp)
	if alert.Description != "" {
		fmt.Printf("   %s\n", domain.Truncate(alert.Description, 160))
	}
	if len(alert.Sources) > 0 {
		fmt.Printf("   Sources: %s\n", strings.Join(alert.Sources, ", "))
	}
	fmt.Println()
}
