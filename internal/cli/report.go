package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/upkeep/internal/ports/primary"
	"github.com/example/upkeep/internal/report"
	"github.com/example/upkeep/internal/wire"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the task ledger and alert buckets to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out, _ := cmd.Flags().GetString("out")

		tasks, err := wire.TaskService().ListTasks(ctx, primary.TaskFilters{})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		alerts, err := wire.TaskService().ListAlerts(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("failed to list alerts: %w", err)
		}

		buffer, err := report.GenerateExcelReport(tasks, alerts)
		if err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}

		if err := os.WriteFile(out, buffer.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		fmt.Printf("✓ Report written to %s (%d tasks)\n", out, len(tasks))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringP("out", "o", "upkeep-report.xlsx", "Output file path")
}

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	return reportCmd
}
