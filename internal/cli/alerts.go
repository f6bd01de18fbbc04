package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/upkeep/internal/core/alert"
	"github.com/example/upkeep/internal/models"
	"github.com/example/upkeep/internal/wire"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show overdue, due-today, and upcoming tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		referenceDate := time.Now()
		if raw, _ := cmd.Flags().GetString("date"); raw != "" {
			parsed, err := models.ParseDate(raw)
			if err != nil {
				return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", raw)
			}
			referenceDate = parsed
		}

		alerts, err := wire.TaskService().ListAlerts(context.Background(), referenceDate)
		if err != nil {
			return fmt.Errorf("failed to list alerts: %w", err)
		}

		if len(alerts) == 0 {
			fmt.Println("Nothing due. ✓")
			return nil
		}

		for _, a := range alerts {
			fmt.Printf("%s %s  due %s\n", bucketBadge(a.Bucket), a.TaskID, a.ScheduledDate)
		}
		return nil
	},
}

// bucketBadge renders a colored bucket marker.
func bucketBadge(bucket alert.Bucket) string {
	switch bucket {
	case alert.BucketOverdue:
		return color.New(color.FgRed).Sprint("[overdue] ")
	case alert.BucketToday:
		return color.New(color.FgYellow).Sprint("[today]   ")
	default:
		return color.New(color.FgCyan).Sprint("[upcoming]")
	}
}

func init() {
	alertsCmd.Flags().String("date", "", "Reference date (YYYY-MM-DD, defaults to today)")
}

// AlertsCmd returns the alerts command
func AlertsCmd() *cobra.Command {
	return alertsCmd
}
