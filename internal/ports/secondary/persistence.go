// Package secondary defines the driven ports of the application: the
// persistence and directory interfaces the service depends on.
package secondary

import (
	"context"

	"github.com/example/upkeep/internal/models"
)

// TaskRepository defines the secondary port for task persistence.
// Implementations report missing rows as models.ErrNotFound and failed
// status guards as models.ErrConcurrentModification so the service can
// match with errors.Is.
type TaskRepository interface {
	// Insert persists a new task row.
	Insert(ctx context.Context, task *TaskRecord) error

	// GetByID retrieves a task by its ID.
	GetByID(ctx context.Context, id string) (*TaskRecord, error)

	// List retrieves tasks matching the given filters.
	List(ctx context.Context, filters TaskFilters) ([]*TaskRecord, error)

	// Update writes every mutable column of task in a single statement
	// conditioned on the row's current status being one of
	// expectedStatuses. This is the optimistic-concurrency guard: when
	// the row exists but its status changed underneath the caller, the
	// update affects zero rows and Update returns
	// models.ErrConcurrentModification.
	Update(ctx context.Context, task *TaskRecord, expectedStatuses []models.TaskStatus) error

	// Delete removes a task row.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next unused task ID.
	GetNextID(ctx context.Context) (string, error)
}

// EquipmentDirectory is the external equipment lookup collaborator. The
// service uses it only to validate existence, never for scheduling.
type EquipmentDirectory interface {
	// Lookup resolves an equipment ID. Missing equipment is
	// models.ErrNotFound.
	Lookup(ctx context.Context, equipmentID string) (*EquipmentRecord, error)
}

// TaskRecord represents a task as stored in persistence. Enum columns are
// plain strings at this level; the service converts to and from the typed
// domain form.
type TaskRecord struct {
	ID                string
	EquipmentID       string
	CategoryID        string
	AreaID            string
	LineID            string
	TaskTemplateID    string
	Title             string
	Description       string
	Type              string
	Priority          string
	Status            string
	ScheduledDate     string
	CompletionDate    string
	Frequency         string
	CustomDays        int
	EstimatedDuration float64
	ActualDuration    float64
	Notes             string
	AssignedTo        string
	CreatedAt         string
	UpdatedAt         string
}

// TaskFilters contains filter options for querying tasks.
type TaskFilters struct {
	EquipmentID string
	CategoryID  string
	Status      string

	// NonTerminal limits the result to tasks that are not completed or
	// cancelled; used by alert classification.
	NonTerminal bool
}

// EquipmentRecord represents an equipment directory entry.
type EquipmentRecord struct {
	ID           string
	Name         string
	DepartmentID string
}
