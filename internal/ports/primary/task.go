// Package primary defines the driving ports of the application: the
// interfaces the CLI and HTTP adapters call into.
package primary

import (
	"context"
	"time"

	"github.com/example/upkeep/internal/core/alert"
	"github.com/example/upkeep/internal/models"
)

// TaskService defines the primary port for maintenance task operations.
type TaskService interface {
	// CreateTask validates input and creates a new task in status scheduled.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)

	// GetTask retrieves a task by ID.
	GetTask(ctx context.Context, taskID string) (*models.Task, error)

	// ListTasks lists tasks with optional filters.
	ListTasks(ctx context.Context, filters TaskFilters) ([]*models.Task, error)

	// UpdateTask edits non-status fields, or performs a status transition
	// when the patch carries a status.
	UpdateTask(ctx context.Context, taskID string, patch UpdateTaskPatch) (*models.Task, error)

	// CompleteTask completes a task and, for recurring tasks, optionally
	// creates the follow-up occurrence.
	CompleteTask(ctx context.Context, req CompleteTaskRequest) (*CompleteTaskResult, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, taskID string) error

	// ListAlerts classifies all non-terminal tasks relative to the
	// reference date.
	ListAlerts(ctx context.Context, referenceDate time.Time) ([]alert.Alert, error)
}

// CreateTaskRequest contains parameters for creating a task.
type CreateTaskRequest struct {
	EquipmentID       string              `json:"equipmentId"`
	CategoryID        string              `json:"categoryId,omitempty"`
	AreaID            string              `json:"areaId,omitempty"`
	LineID            string              `json:"lineId,omitempty"`
	TaskTemplateID    string              `json:"taskTemplateId,omitempty"`
	Title             string              `json:"title"`
	Description       string              `json:"description,omitempty"`
	Type              models.TaskType     `json:"type,omitempty"`
	Priority          models.TaskPriority `json:"priority,omitempty"`
	ScheduledDate     string              `json:"scheduledDate"`
	Frequency         models.Frequency    `json:"frequency,omitempty"`
	CustomDays        int                 `json:"customDays,omitempty"`
	EstimatedDuration float64             `json:"estimatedDuration,omitempty"`
	Notes             string              `json:"notes,omitempty"`
	AssignedTo        string              `json:"assignedTo,omitempty"`
}

// UpdateTaskPatch describes a partial update. Nil means leave unchanged.
// When Status is set the update is a state-machine transition and only the
// fields relevant to that edge are applied; otherwise it is a plain edit
// and must not touch terminal records.
type UpdateTaskPatch struct {
	Status            *models.TaskStatus   `json:"status,omitempty"`
	CategoryID        *string              `json:"categoryId,omitempty"`
	AreaID            *string              `json:"areaId,omitempty"`
	LineID            *string              `json:"lineId,omitempty"`
	Title             *string              `json:"title,omitempty"`
	Description       *string              `json:"description,omitempty"`
	Type              *models.TaskType     `json:"type,omitempty"`
	Priority          *models.TaskPriority `json:"priority,omitempty"`
	ScheduledDate     *string              `json:"scheduledDate,omitempty"`
	Frequency         *models.Frequency    `json:"frequency,omitempty"`
	CustomDays        *int                 `json:"customDays,omitempty"`
	EstimatedDuration *float64             `json:"estimatedDuration,omitempty"`
	ActualDuration    *float64             `json:"actualDuration,omitempty"`
	Notes             *string              `json:"notes,omitempty"`
	AssignedTo        *string              `json:"assignedTo,omitempty"`
}

// CompleteTaskRequest contains parameters for completing a task.
type CompleteTaskRequest struct {
	TaskID         string  `json:"-"`
	ActualDuration float64 `json:"actualDuration"`
	Notes          string  `json:"notes,omitempty"`
}

// CompleteTaskResult is the outcome of a completion. FollowUp is the
// auto-created next occurrence for recurring tasks, when enabled.
// FollowUpError carries a non-fatal failure to create that follow-up; the
// completion itself still succeeded.
type CompleteTaskResult struct {
	Task          *models.Task `json:"task"`
	FollowUp      *models.Task `json:"followUp,omitempty"`
	FollowUpError string       `json:"followUpError,omitempty"`
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	EquipmentID string
	CategoryID  string
	Status      models.TaskStatus
}
