package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/upkeep/internal/ports/secondary"
	"github.com/example/upkeep/internal/wire"
)

var equipmentCmd = &cobra.Command{
	Use:   "equipment",
	Short: "Manage the equipment directory",
}

var equipmentAddCmd = &cobra.Command{
	Use:   "add [id] [name]",
	Short: "Add or rename an equipment entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		departmentID, _ := cmd.Flags().GetString("department")

		record := &secondary.EquipmentRecord{
			ID:           args[0],
			Name:         args[1],
			DepartmentID: departmentID,
		}
		if err := wire.EquipmentRepository().Upsert(context.Background(), record); err != nil {
			return fmt.Errorf("failed to add equipment: %w", err)
		}

		fmt.Printf("✓ Equipment %s: %s\n", record.ID, record.Name)
		return nil
	},
}

var equipmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List equipment entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := wire.EquipmentRepository().List(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list equipment: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No equipment registered.")
			return nil
		}

		for _, record := range records {
			fmt.Printf("%s  %s", record.ID, record.Name)
			if record.DepartmentID != "" {
				fmt.Printf("  (department %s)", record.DepartmentID)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	equipmentAddCmd.Flags().String("department", "", "Department ID")

	equipmentCmd.AddCommand(equipmentAddCmd)
	equipmentCmd.AddCommand(equipmentListCmd)
}

// EquipmentCmd returns the equipment command
func EquipmentCmd() *cobra.Command {
	return equipmentCmd
}
