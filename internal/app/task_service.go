// Package app implements the primary ports by orchestrating the pure core
// against the persistence collaborators. This is the only layer that
// performs I/O on behalf of task operations.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/upkeep/internal/core/alert"
	"github.com/example/upkeep/internal/core/schedule"
	coretask "github.com/example/upkeep/internal/core/task"
	"github.com/example/upkeep/internal/metrics"
	"github.com/example/upkeep/internal/models"
	"github.com/example/upkeep/internal/ports/primary"
	"github.com/example/upkeep/internal/ports/secondary"
)

// Options tune service behavior that is configuration-driven.
type Options struct {
	// AutoFollowUp enables creating the next occurrence of a recurring
	// task when it is completed.
	AutoFollowUp bool

	// HorizonDays is the upcoming-alert window width.
	HorizonDays int

	// Now supplies the current time; defaults to time.Now. Injected so
	// completion dates are deterministic in tests.
	Now func() time.Time

	// Metrics collectors; may be nil.
	Metrics *metrics.Metrics
}

// TaskServiceImpl implements the primary.TaskService interface.
type TaskServiceImpl struct {
	taskRepo     secondary.TaskRepository
	equipment    secondary.EquipmentDirectory
	log          *slog.Logger
	autoFollowUp bool
	horizonDays  int
	now          func() time.Time
	metrics      *metrics.Metrics
}

// NewTaskService creates a new TaskService with injected dependencies.
func NewTaskService(
	taskRepo secondary.TaskRepository,
	equipment secondary.EquipmentDirectory,
	log *slog.Logger,
	opts Options,
) *TaskServiceImpl {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = alert.DefaultHorizonDays
	}
	return &TaskServiceImpl{
		taskRepo:     taskRepo,
		equipment:    equipment,
		log:          log,
		autoFollowUp: opts.AutoFollowUp,
		horizonDays:  opts.HorizonDays,
		now:          opts.Now,
		metrics:      opts.Metrics,
	}
}

// CreateTask validates the request and persists a new task in status
// scheduled.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*models.Task, error) {
	if req.EquipmentID == "" {
		return nil, fmt.Errorf("%w: equipmentId is required", models.ErrValidation)
	}
	if req.ScheduledDate == "" {
		return nil, fmt.Errorf("%w: scheduledDate is required", models.ErrValidation)
	}
	if _, err := models.ParseDate(req.ScheduledDate); err != nil {
		return nil, fmt.Errorf("%w: scheduledDate %q is not a YYYY-MM-DD date", models.ErrValidation, req.ScheduledDate)
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown task type %q", models.ErrValidation, req.Type)
	}
	if !req.Priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", models.ErrValidation, req.Priority)
	}
	freq := req.Frequency
	if freq == "" {
		freq = models.FrequencyNone
	}
	if !freq.IsValid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", models.ErrValidation, freq)
	}
	if err := coretask.CheckRecurrenceFields(freq, req.CustomDays); err != nil {
		return nil, err
	}

	// Validate the equipment reference exists; the directory is not
	// consulted for anything else.
	if _, err := s.equipment.Lookup(ctx, req.EquipmentID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: equipment %s not found", models.ErrValidation, req.EquipmentID)
		}
		return nil, fmt.Errorf("failed to validate equipment: %w", err)
	}

	nextID, err := s.taskRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate task ID: %w", err)
	}

	record := &secondary.TaskRecord{
		ID:                nextID,
		EquipmentID:       req.EquipmentID,
		CategoryID:        req.CategoryID,
		AreaID:            req.AreaID,
		LineID:            req.LineID,
		TaskTemplateID:    req.TaskTemplateID,
		Title:             req.Title,
		Description:       req.Description,
		Type:              string(req.Type),
		Priority:          string(req.Priority),
		Status:            string(models.StatusScheduled),
		ScheduledDate:     req.ScheduledDate,
		Frequency:         string(freq),
		CustomDays:        req.CustomDays,
		EstimatedDuration: req.EstimatedDuration,
		Notes:             req.Notes,
		AssignedTo:        req.AssignedTo,
	}

	if err := s.taskRepo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.taskRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created task: %w", err)
	}

	if s.metrics != nil {
		s.metrics.TasksCreated.Inc()
	}
	s.log.InfoContext(ctx, "task created", "task_id", nextID, "equipment_id", req.EquipmentID)

	return recordToTask(created), nil
}

// GetTask retrieves a task by ID.
func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return recordToTask(record), nil
}

// ListTasks lists tasks with optional filters.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*models.Task, error) {
	records, err := s.taskRepo.List(ctx, secondary.TaskFilters{
		EquipmentID: filters.EquipmentID,
		CategoryID:  filters.CategoryID,
		Status:      string(filters.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*models.Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, recordToTask(record))
	}
	return tasks, nil
}

// UpdateTask applies a partial update. A patch carrying a status is a
// state-machine transition; anything else is an edit of non-status fields.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, taskID string, patch primary.UpdateTaskPatch) (*models.Task, error) {
	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	current := recordToTask(record)

	var updated models.Task
	if patch.Status != nil {
		fields := coretask.TransitionFields{}
		if patch.ActualDuration != nil {
			fields.ActualDuration = *patch.ActualDuration
		}
		if patch.Notes != nil {
			fields.Notes = *patch.Notes
		}
		updated, err = coretask.ApplyTransition(*current, *patch.Status, fields, s.now())
		if err != nil {
			return nil, err
		}
	} else {
		updated, err = coretask.ApplyEdit(*current, editPatch(patch))
		if err != nil {
			return nil, err
		}
	}

	// The write is conditioned on the status we loaded; a concurrent
	// transition in between surfaces as ErrConcurrentModification.
	if err := s.taskRepo.Update(ctx, taskToRecord(&updated), []models.TaskStatus{current.Status}); err != nil {
		return nil, err
	}

	if patch.Status != nil && s.metrics != nil {
		s.metrics.TaskTransitions.WithLabelValues(string(*patch.Status)).Inc()
	}

	fresh, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated task: %w", err)
	}
	return recordToTask(fresh), nil
}

// CompleteTask completes a task. For recurring tasks it optionally creates
// the follow-up occurrence; a follow-up failure never rolls back the
// completion and is reported on the result instead.
func (s *TaskServiceImpl) CompleteTask(ctx context.Context, req primary.CompleteTaskRequest) (*primary.CompleteTaskResult, error) {
	record, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	current := recordToTask(record)

	completed, recurs, err := coretask.Complete(*current, req.ActualDuration, req.Notes, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, taskToRecord(&completed), []models.TaskStatus{current.Status}); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.TaskTransitions.WithLabelValues(string(models.StatusCompleted)).Inc()
	}
	s.log.InfoContext(ctx, "task completed", "task_id", req.TaskID, "actual_duration_hours", req.ActualDuration)

	result := &primary.CompleteTaskResult{Task: &completed}

	if recurs && s.autoFollowUp {
		followUp, err := s.createFollowUp(ctx, &completed)
		if err != nil {
			// Losing a convenience reminder must not fail a real
			// completion.
			s.log.WarnContext(ctx, "follow-up creation failed", "task_id", req.TaskID, "error", err)
			result.FollowUpError = err.Error()
		} else {
			result.FollowUp = followUp
			if s.metrics != nil {
				s.metrics.FollowUpsCreated.Inc()
			}
		}
	}

	return result, nil
}

// createFollowUp inserts the next occurrence of a completed recurring
// task: scheduled at the computed next date, descriptive fields copied,
// completion artifacts cleared.
func (s *TaskServiceImpl) createFollowUp(ctx context.Context, completed *models.Task) (*models.Task, error) {
	from, err := models.ParseDate(completed.CompletionDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse completion date: %w", err)
	}

	next, recurs, err := schedule.NextOccurrence(from, completed.Frequency, completed.CustomDays)
	if err != nil {
		return nil, err
	}
	if !recurs {
		return nil, nil
	}

	nextID, err := s.taskRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate follow-up ID: %w", err)
	}

	record := &secondary.TaskRecord{
		ID:                nextID,
		EquipmentID:       completed.EquipmentID,
		CategoryID:        completed.CategoryID,
		AreaID:            completed.AreaID,
		LineID:            completed.LineID,
		TaskTemplateID:    completed.TaskTemplateID,
		Title:             completed.Title,
		Description:       completed.Description,
		Type:              string(completed.Type),
		Priority:          string(completed.Priority),
		Status:            string(models.StatusScheduled),
		ScheduledDate:     models.FormatDate(next),
		Frequency:         string(completed.Frequency),
		CustomDays:        completed.CustomDays,
		EstimatedDuration: completed.EstimatedDuration,
		AssignedTo:        completed.AssignedTo,
	}

	if err := s.taskRepo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create follow-up task: %w", err)
	}

	created, err := s.taskRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch follow-up task: %w", err)
	}

	s.log.InfoContext(ctx, "follow-up task created",
		"task_id", nextID, "from_task_id", completed.ID, "scheduled_date", record.ScheduledDate)

	return recordToTask(created), nil
}

// DeleteTask removes a task. Deletion bypasses the state machine.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, taskID string) error {
	return s.taskRepo.Delete(ctx, taskID)
}

// ListAlerts classifies all non-terminal tasks relative to referenceDate.
func (s *TaskServiceImpl) ListAlerts(ctx context.Context, referenceDate time.Time) ([]alert.Alert, error) {
	records, err := s.taskRepo.List(ctx, secondary.TaskFilters{NonTerminal: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for alerts: %w", err)
	}

	tasks := make([]models.Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, *recordToTask(record))
	}

	alerts := alert.Classify(tasks, referenceDate, s.horizonDays)

	if s.metrics != nil {
		counts := map[alert.Bucket]int{}
		for _, a := range alerts {
			counts[a.Bucket]++
		}
		for _, bucket := range []alert.Bucket{alert.BucketOverdue, alert.BucketToday, alert.BucketUpcoming} {
			s.metrics.AlertsByBucket.WithLabelValues(string(bucket)).Set(float64(counts[bucket]))
		}
	}

	return alerts, nil
}

// editPatch translates the port-level patch into the core edit patch.
// Status and ActualDuration are deliberately not carried: those belong to
// transitions.
func editPatch(p primary.UpdateTaskPatch) coretask.EditPatch {
	return coretask.EditPatch{
		CategoryID:        p.CategoryID,
		AreaID:            p.AreaID,
		LineID:            p.LineID,
		Title:             p.Title,
		Description:       p.Description,
		Type:              p.Type,
		Priority:          p.Priority,
		ScheduledDate:     p.ScheduledDate,
		Frequency:         p.Frequency,
		CustomDays:        p.CustomDays,
		EstimatedDuration: p.EstimatedDuration,
		Notes:             p.Notes,
		AssignedTo:        p.AssignedTo,
	}
}

// recordToTask converts a persistence record to the domain type.
func recordToTask(r *secondary.TaskRecord) *models.Task {
	task := &models.Task{
		ID:                r.ID,
		EquipmentID:       r.EquipmentID,
		CategoryID:        r.CategoryID,
		AreaID:            r.AreaID,
		LineID:            r.LineID,
		TaskTemplateID:    r.TaskTemplateID,
		Title:             r.Title,
		Description:       r.Description,
		Type:              models.TaskType(r.Type),
		Priority:          models.TaskPriority(r.Priority),
		Status:            models.TaskStatus(r.Status),
		ScheduledDate:     r.ScheduledDate,
		CompletionDate:    r.CompletionDate,
		Frequency:         models.Frequency(r.Frequency),
		CustomDays:        r.CustomDays,
		EstimatedDuration: r.EstimatedDuration,
		ActualDuration:    r.ActualDuration,
		Notes:             r.Notes,
		AssignedTo:        r.AssignedTo,
	}
	if r.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			task.CreatedAt = t
		}
	}
	if r.UpdatedAt != "" {
		if t, err := time.Parse(time.RFC3339, r.UpdatedAt); err == nil {
			task.UpdatedAt = t
		}
	}
	return task
}

// taskToRecord converts a domain task back to a persistence record.
// Timestamps are omitted; the persistence layer owns them.
func taskToRecord(t *models.Task) *secondary.TaskRecord {
	return &secondary.TaskRecord{
		ID:                t.ID,
		EquipmentID:       t.EquipmentID,
		CategoryID:        t.CategoryID,
		AreaID:            t.AreaID,
		LineID:            t.LineID,
		TaskTemplateID:    t.TaskTemplateID,
		Title:             t.Title,
		Description:       t.Description,
		Type:              string(t.Type),
		Priority:          string(t.Priority),
		Status:            string(t.Status),
		ScheduledDate:     t.ScheduledDate,
		CompletionDate:    t.CompletionDate,
		Frequency:         string(t.Frequency),
		CustomDays:        t.CustomDays,
		EstimatedDuration: t.EstimatedDuration,
		ActualDuration:    t.ActualDuration,
		Notes:             t.Notes,
		AssignedTo:        t.AssignedTo,
	}
}
