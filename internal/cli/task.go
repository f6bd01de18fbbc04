package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/upkeep/internal/models"
	"github.com/example/upkeep/internal/ports/primary"
	"github.com/example/upkeep/internal/wire"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage maintenance tasks",
	Long:  "Create, list, update, complete, and delete maintenance tasks in the upkeep ledger",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new maintenance task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		title := args[0]
		equipmentID, _ := cmd.Flags().GetString("equipment")
		categoryID, _ := cmd.Flags().GetString("category")
		description, _ := cmd.Flags().GetString("description")
		taskType, _ := cmd.Flags().GetString("type")
		priority, _ := cmd.Flags().GetString("priority")
		scheduledDate, _ := cmd.Flags().GetString("date")
		frequency, _ := cmd.Flags().GetString("frequency")
		customDays, _ := cmd.Flags().GetInt("custom-days")
		estimated, _ := cmd.Flags().GetFloat64("estimated-hours")
		assignedTo, _ := cmd.Flags().GetString("assigned-to")

		task, err := wire.TaskService().CreateTask(ctx, primary.CreateTaskRequest{
			EquipmentID:       equipmentID,
			CategoryID:        categoryID,
			Title:             title,
			Description:       description,
			Type:              models.TaskType(taskType),
			Priority:          models.TaskPriority(priority),
			ScheduledDate:     scheduledDate,
			Frequency:         models.Frequency(frequency),
			CustomDays:        customDays,
			EstimatedDuration: estimated,
			AssignedTo:        assignedTo,
		})
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		fmt.Printf("✓ Created task %s: %s\n", task.ID, task.Title)
		fmt.Printf("  Equipment: %s\n", task.EquipmentID)
		fmt.Printf("  Scheduled: %s\n", task.ScheduledDate)
		if task.Frequency.Recurs() {
			fmt.Printf("  Recurs: %s\n", describeFrequency(task.Frequency, task.CustomDays))
		}
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List maintenance tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		equipmentID, _ := cmd.Flags().GetString("equipment")
		categoryID, _ := cmd.Flags().GetString("category")
		status, _ := cmd.Flags().GetString("status")

		tasks, err := wire.TaskService().ListTasks(ctx, primary.TaskFilters{
			EquipmentID: equipmentID,
			CategoryID:  categoryID,
			Status:      models.TaskStatus(status),
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Printf("Found %d task(s):\n\n", len(tasks))
		for _, task := range tasks {
			fmt.Printf("%s %s  %s\n", statusBadge(task.Status), task.ID, task.Title)
			fmt.Printf("    equipment: %s  due: %s", task.EquipmentID, task.ScheduledDate)
			if task.Priority != "" {
				fmt.Printf("  priority: %s", task.Priority)
			}
			fmt.Println()
		}
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := wire.TaskService().GetTask(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", statusBadge(task.Status), task.ID)
		fmt.Printf("  Title:       %s\n", task.Title)
		fmt.Printf("  Equipment:   %s\n", task.EquipmentID)
		if task.CategoryID != "" {
			fmt.Printf("  Category:    %s\n", task.CategoryID)
		}
		if task.Type != "" {
			fmt.Printf("  Type:        %s\n", task.Type)
		}
		if task.Priority != "" {
			fmt.Printf("  Priority:    %s\n", task.Priority)
		}
		fmt.Printf("  Status:      %s\n", task.Status)
		fmt.Printf("  Scheduled:   %s\n", task.ScheduledDate)
		if task.CompletionDate != "" {
			fmt.Printf("  Completed:   %s (%.1fh)\n", task.CompletionDate, task.ActualDuration)
		}
		if task.Frequency.Recurs() {
			fmt.Printf("  Recurs:      %s\n", describeFrequency(task.Frequency, task.CustomDays))
		}
		if task.AssignedTo != "" {
			fmt.Printf("  Assigned to: %s\n", task.AssignedTo)
		}
		if task.Notes != "" {
			fmt.Printf("  Notes:       %s\n", task.Notes)
		}
		return nil
	},
}

var taskStartCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Mark a task in-progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transitionTask(args[0], models.StatusInProgress, "")
	},
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete [task-id]",
	Short: "Complete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID := args[0]
		hours, _ := cmd.Flags().GetFloat64("hours")
		notes, _ := cmd.Flags().GetString("notes")

		result, err := wire.TaskService().CompleteTask(ctx, primary.CompleteTaskRequest{
			TaskID:         taskID,
			ActualDuration: hours,
			Notes:          notes,
		})
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		fmt.Printf("✓ Completed task %s on %s\n", result.Task.ID, result.Task.CompletionDate)
		if result.FollowUp != nil {
			fmt.Printf("  Follow-up %s scheduled for %s\n", result.FollowUp.ID, result.FollowUp.ScheduledDate)
		}
		if result.FollowUpError != "" {
			fmt.Printf("  %s follow-up not created: %s\n", color.New(color.FgYellow).Sprint("warning:"), result.FollowUpError)
		}
		return nil
	},
}

var taskPartialCmd = &cobra.Command{
	Use:   "partial [task-id]",
	Short: "Mark a task partially completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, _ := cmd.Flags().GetString("notes")
		return transitionTask(args[0], models.StatusPartial, notes)
	},
}

var taskReopenCmd = &cobra.Command{
	Use:   "reopen [task-id]",
	Short: "Reopen a partial task (back to in-progress)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transitionTask(args[0], models.StatusInProgress, "")
	},
}

var taskCancelCmd = &cobra.Command{
	Use:   "cancel [task-id]",
	Short: "Cancel a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transitionTask(args[0], models.StatusCancelled, "")
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID := args[0]

		patch := primary.UpdateTaskPatch{}
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			patch.Title = &title
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			patch.Description = &description
		}
		if cmd.Flags().Changed("date") {
			date, _ := cmd.Flags().GetString("date")
			patch.ScheduledDate = &date
		}
		if cmd.Flags().Changed("priority") {
			raw, _ := cmd.Flags().GetString("priority")
			priority := models.TaskPriority(raw)
			patch.Priority = &priority
		}
		if cmd.Flags().Changed("assigned-to") {
			assignedTo, _ := cmd.Flags().GetString("assigned-to")
			patch.AssignedTo = &assignedTo
		}
		if cmd.Flags().Changed("frequency") {
			raw, _ := cmd.Flags().GetString("frequency")
			frequency := models.Frequency(raw)
			patch.Frequency = &frequency
		}
		if cmd.Flags().Changed("custom-days") {
			customDays, _ := cmd.Flags().GetInt("custom-days")
			patch.CustomDays = &customDays
		}

		task, err := wire.TaskService().UpdateTask(ctx, taskID, patch)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		fmt.Printf("✓ Updated task %s\n", task.ID)
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID := args[0]
		if err := wire.TaskService().DeleteTask(context.Background(), taskID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		fmt.Printf("✓ Deleted task %s\n", taskID)
		return nil
	},
}

// transitionTask routes a plain status change through the service.
func transitionTask(taskID string, target models.TaskStatus, notes string) error {
	patch := primary.UpdateTaskPatch{Status: &target}
	if notes != "" {
		patch.Notes = &notes
	}

	task, err := wire.TaskService().UpdateTask(context.Background(), taskID, patch)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	fmt.Printf("✓ Task %s is now %s\n", task.ID, task.Status)
	return nil
}

// statusBadge renders a colored status marker for list output.
func statusBadge(status models.TaskStatus) string {
	switch status {
	case models.StatusScheduled:
		return color.New(color.FgCyan).Sprint("[scheduled]  ")
	case models.StatusInProgress:
		return color.New(color.FgYellow).Sprint("[in-progress]")
	case models.StatusCompleted:
		return color.New(color.FgGreen).Sprint("[completed]  ")
	case models.StatusCancelled:
		return color.New(color.FgRed).Sprint("[cancelled]  ")
	case models.StatusPartial:
		return color.New(color.FgMagenta).Sprint("[partial]    ")
	default:
		return fmt.Sprintf("[%s]", status)
	}
}

// describeFrequency renders a recurrence rule for humans.
func describeFrequency(freq models.Frequency, customDays int) string {
	if freq == models.FrequencyCustom {
		return fmt.Sprintf("every %d days", customDays)
	}
	return string(freq)
}

func init() {
	// task create flags
	taskCreateCmd.Flags().StringP("equipment", "e", "", "Equipment ID (required)")
	taskCreateCmd.Flags().String("category", "", "Category ID")
	taskCreateCmd.Flags().StringP("description", "d", "", "Task description")
	taskCreateCmd.Flags().String("type", "", "Task type (predictive, corrective, conditional)")
	taskCreateCmd.Flags().StringP("priority", "p", "", "Priority (low, medium, high, critical)")
	taskCreateCmd.Flags().String("date", "", "Scheduled date (YYYY-MM-DD, required)")
	taskCreateCmd.Flags().StringP("frequency", "f", "", "Recurrence (none, weekly, monthly, yearly, custom)")
	taskCreateCmd.Flags().Int("custom-days", 0, "Interval in days for custom frequency")
	taskCreateCmd.Flags().Float64("estimated-hours", 0, "Estimated duration in hours")
	taskCreateCmd.Flags().String("assigned-to", "", "Assignee")

	// task list flags
	taskListCmd.Flags().StringP("equipment", "e", "", "Filter by equipment")
	taskListCmd.Flags().String("category", "", "Filter by category")
	taskListCmd.Flags().StringP("status", "s", "", "Filter by status")

	// task complete flags
	taskCompleteCmd.Flags().Float64("hours", 0, "Actual duration in hours (required)")
	taskCompleteCmd.Flags().StringP("notes", "n", "", "Completion notes")

	// task partial flags
	taskPartialCmd.Flags().StringP("notes", "n", "", "Partial-completion notes")

	// task update flags
	taskUpdateCmd.Flags().String("title", "", "New title")
	taskUpdateCmd.Flags().StringP("description", "d", "", "New description")
	taskUpdateCmd.Flags().String("date", "", "New scheduled date (YYYY-MM-DD)")
	taskUpdateCmd.Flags().StringP("priority", "p", "", "New priority")
	taskUpdateCmd.Flags().String("assigned-to", "", "New assignee")
	taskUpdateCmd.Flags().StringP("frequency", "f", "", "New recurrence")
	taskUpdateCmd.Flags().Int("custom-days", 0, "New custom interval in days")

	// Register subcommands
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskStartCmd)
	taskCmd.AddCommand(taskCompleteCmd)
	taskCmd.AddCommand(taskPartialCmd)
	taskCmd.AddCommand(taskReopenCmd)
	taskCmd.AddCommand(taskCancelCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	return taskCmd
}
