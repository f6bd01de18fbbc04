// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	coretask "github.com/example/upkeep/internal/core/task"
	"github.com/example/upkeep/internal/models"
	"github.com/example/upkeep/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskSelectCols = "id, equipment_id, category_id, area_id, line_id, task_template_id, title, description, type, priority, status, scheduled_date, completion_date, frequency, custom_days, estimated_duration, actual_duration, notes, assigned_to, created_at, updated_at"

// scanTask scans a task row into a TaskRecord.
func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TaskRecord, error) {
	var (
		categoryID        sql.NullString
		areaID            sql.NullString
		lineID            sql.NullString
		taskTemplateID    sql.NullString
		title             sql.NullString
		desc              sql.NullString
		taskType          sql.NullString
		priority          sql.NullString
		completionDate    sql.NullString
		frequency         sql.NullString
		customDays        sql.NullInt64
		estimatedDuration sql.NullFloat64
		actualDuration    sql.NullFloat64
		notes             sql.NullString
		assignedTo        sql.NullString
		createdAt         time.Time
		updatedAt         time.Time
	)

	record := &secondary.TaskRecord{}
	err := scanner.Scan(
		&record.ID, &record.EquipmentID, &categoryID, &areaID, &lineID, &taskTemplateID,
		&title, &desc, &taskType, &priority, &record.Status, &record.ScheduledDate,
		&completionDate, &frequency, &customDays, &estimatedDuration, &actualDuration,
		&notes, &assignedTo, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.CategoryID = categoryID.String
	record.AreaID = areaID.String
	record.LineID = lineID.String
	record.TaskTemplateID = taskTemplateID.String
	record.Title = title.String
	record.Description = desc.String
	record.Type = taskType.String
	record.Priority = priority.String
	record.CompletionDate = completionDate.String
	record.Frequency = frequency.String
	record.CustomDays = int(customDays.Int64)
	record.EstimatedDuration = estimatedDuration.Float64
	record.ActualDuration = actualDuration.Float64
	record.Notes = notes.String
	record.AssignedTo = assignedTo.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}

// Insert persists a new task row.
func (r *TaskRepository) Insert(ctx context.Context, task *secondary.TaskRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, equipment_id, category_id, area_id, line_id, task_template_id, title, description, type, priority, status, scheduled_date, completion_date, frequency, custom_days, estimated_duration, actual_duration, notes, assigned_to)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.EquipmentID, nullString(task.CategoryID), nullString(task.AreaID),
		nullString(task.LineID), nullString(task.TaskTemplateID), nullString(task.Title),
		nullString(task.Description), nullString(task.Type), nullString(task.Priority),
		task.Status, task.ScheduledDate, nullString(task.CompletionDate),
		nullString(task.Frequency), nullInt(task.CustomDays),
		nullFloat(task.EstimatedDuration), nullFloat(task.ActualDuration),
		nullString(task.Notes), nullString(task.AssignedTo),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+taskSelectCols+" FROM tasks WHERE id = ?",
		id,
	)

	record, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return record, nil
}

// List retrieves tasks matching the given filters, ordered by scheduled
// date. Alert classification relies on this order being deterministic.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	query := "SELECT " + taskSelectCols + " FROM tasks WHERE 1=1"
	args := []any{}

	if filters.EquipmentID != "" {
		query += " AND equipment_id = ?"
		args = append(args, filters.EquipmentID)
	}

	if filters.CategoryID != "" {
		query += " AND category_id = ?"
		args = append(args, filters.CategoryID)
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	if filters.NonTerminal {
		query += " AND status NOT IN (?, ?)"
		args = append(args, string(models.StatusCompleted), string(models.StatusCancelled))
	}

	query += " ORDER BY scheduled_date ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}

	return tasks, rows.Err()
}

// Update writes every mutable column in a single statement conditioned on
// the row's current status. This is the optimistic-concurrency guard: no
// lock is held between load and save, so the status predicate decides
// which of two racing writers wins.
func (r *TaskRepository) Update(ctx context.Context, task *secondary.TaskRecord, expectedStatuses []models.TaskStatus) error {
	if len(expectedStatuses) == 0 {
		return fmt.Errorf("update of task %s requires at least one expected status", task.ID)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(expectedStatuses)), ", ")
	query := `UPDATE tasks SET
		category_id = ?, area_id = ?, line_id = ?, title = ?, description = ?,
		type = ?, priority = ?, status = ?, scheduled_date = ?, completion_date = ?,
		frequency = ?, custom_days = ?, estimated_duration = ?, actual_duration = ?,
		notes = ?, assigned_to = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status IN (` + placeholders + `)`

	args := []any{
		nullString(task.CategoryID), nullString(task.AreaID), nullString(task.LineID),
		nullString(task.Title), nullString(task.Description), nullString(task.Type),
		nullString(task.Priority), task.Status, task.ScheduledDate,
		nullString(task.CompletionDate), nullString(task.Frequency), nullInt(task.CustomDays),
		nullFloat(task.EstimatedDuration), nullFloat(task.ActualDuration),
		nullString(task.Notes), nullString(task.AssignedTo),
		task.ID,
	}
	for _, status := range expectedStatuses {
		args = append(args, string(status))
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		// Zero rows means the row is gone or its status moved under us;
		// probe which so the caller gets the right error.
		var count int
		if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE id = ?", task.ID).Scan(&count); err != nil {
			return fmt.Errorf("failed to check task existence: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("task %s: %w", task.ID, models.ErrNotFound)
		}
		return fmt.Errorf("task %s status changed since load: %w", task.ID, models.ErrConcurrentModification)
	}

	return nil
}

// Delete removes a task row.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("task %s: %w", id, models.ErrNotFound)
	}

	return nil
}

// GetNextID returns the next unused task ID.
func (r *TaskRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 4) AS INTEGER)), 0) FROM tasks",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next task ID: %w", err)
	}

	return coretask.GenerateTaskID(maxID), nil
}
