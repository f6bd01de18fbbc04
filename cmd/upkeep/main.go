package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/upkeep/internal/cli"
	"github.com/example/upkeep/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "upkeep",
		Short:   "upkeep - maintenance task ledger",
		Version: version.String(),
		Long: `upkeep manages scheduled maintenance tasks for equipment:
the task lifecycle, recurring schedules, and overdue/due-today/upcoming alerts.`,
	}

	rootCmd.AddCommand(cli.TaskCmd())
	rootCmd.AddCommand(cli.EquipmentCmd())
	rootCmd.AddCommand(cli.AlertsCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
