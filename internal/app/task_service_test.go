package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/example/upkeep/internal/core/alert"
	"github.com/example/upkeep/internal/models"
	"github.com/example/upkeep/internal/ports/primary"
	"github.com/example/upkeep/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockTaskRepository implements secondary.TaskRepository for testing.
// Update applies the same status-guard semantics as the SQLite adapter so
// optimistic-concurrency behavior can be exercised without a database.
type mockTaskRepository struct {
	tasks     map[string]*secondary.TaskRecord
	order     []string
	nextNum   int
	insertErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error

	// afterGet runs after a successful GetByID, before the record is
	// returned. Tests use it to simulate a racing writer between the
	// service's load and its guarded update.
	afterGet func()
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{tasks: make(map[string]*secondary.TaskRecord)}
}

func (m *mockTaskRepository) Insert(ctx context.Context, task *secondary.TaskRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	clone := *task
	clone.CreatedAt = "2024-06-01T08:00:00Z"
	clone.UpdatedAt = clone.CreatedAt
	m.tasks[task.ID] = &clone
	m.order = append(m.order, task.ID)
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	record, ok := m.tasks[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *record
	if m.afterGet != nil {
		m.afterGet()
	}
	return &clone, nil
}

func (m *mockTaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.TaskRecord
	for _, id := range m.order {
		record := m.tasks[id]
		if filters.EquipmentID != "" && record.EquipmentID != filters.EquipmentID {
			continue
		}
		if filters.Status != "" && record.Status != filters.Status {
			continue
		}
		if filters.NonTerminal && models.TaskStatus(record.Status).IsTerminal() {
			continue
		}
		clone := *record
		result = append(result, &clone)
	}
	return result, nil
}

func (m *mockTaskRepository) Update(ctx context.Context, task *secondary.TaskRecord, expectedStatuses []models.TaskStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.tasks[task.ID]
	if !ok {
		return models.ErrNotFound
	}
	matched := false
	for _, status := range expectedStatuses {
		if stored.Status == string(status) {
			matched = true
			break
		}
	}
	if !matched {
		return models.ErrConcurrentModification
	}
	clone := *task
	clone.CreatedAt = stored.CreatedAt
	clone.UpdatedAt = "2024-06-03T09:00:00Z"
	m.tasks[task.ID] = &clone
	return nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.tasks[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepository) GetNextID(ctx context.Context) (string, error) {
	m.nextNum++
	return fmt.Sprintf("MT-%04d", m.nextNum), nil
}

// mockEquipmentDirectory implements secondary.EquipmentDirectory.
type mockEquipmentDirectory struct {
	equipment map[string]*secondary.EquipmentRecord
	lookupErr error
}

func newMockEquipmentDirectory(ids ...string) *mockEquipmentDirectory {
	m := &mockEquipmentDirectory{equipment: make(map[string]*secondary.EquipmentRecord)}
	for _, id := range ids {
		m.equipment[id] = &secondary.EquipmentRecord{ID: id, Name: "Pump " + id}
	}
	return m
}

func (m *mockEquipmentDirectory) Lookup(ctx context.Context, equipmentID string) (*secondary.EquipmentRecord, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	record, ok := m.equipment[equipmentID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return record, nil
}

// ============================================================================
// Helpers
// ============================================================================

var testNow = time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC)

func newTestService(repo *mockTaskRepository, equipment *mockEquipmentDirectory) *TaskServiceImpl {
	return NewTaskService(repo, equipment, slog.New(slog.DiscardHandler), Options{
		AutoFollowUp: true,
		HorizonDays:  3,
		Now:          func() time.Time { return testNow },
	})
}

func mustCreate(t *testing.T, svc *TaskServiceImpl, req primary.CreateTaskRequest) *models.Task {
	t.Helper()
	task, err := svc.CreateTask(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	return task
}

// checkCompletionInvariant asserts completionDate != "" iff status is
// completed, for every stored record.
func checkCompletionInvariant(t *testing.T, repo *mockTaskRepository) {
	t.Helper()
	for id, record := range repo.tasks {
		completed := record.Status == string(models.StatusCompleted)
		hasDate := record.CompletionDate != ""
		if completed != hasDate {
			t.Errorf("task %s violates completion invariant: status=%s completionDate=%q", id, record.Status, record.CompletionDate)
		}
	}
}

// ============================================================================
// CreateTask
// ============================================================================

func TestCreateTask(t *testing.T) {
	repo := newMockTaskRepository()
	svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))

	task := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID:   "EQ-001",
		Title:         "grease bearings",
		ScheduledDate: "2024-06-03",
		Priority:      models.PriorityHigh,
		Frequency:     models.FrequencyWeekly,
	})

	if task.ID != "MT-0001" {
		t.Errorf("ID = %s, want MT-0001", task.ID)
	}
	if task.Status != models.StatusScheduled {
		t.Errorf("Status = %s, want scheduled", task.Status)
	}
	if task.CompletionDate != "" {
		t.Errorf("CompletionDate = %q, want empty at creation", task.CompletionDate)
	}
	checkCompletionInvariant(t, repo)
}

func TestCreateTaskValidation(t *testing.T) {
	tests := []struct {
		name string
		req  primary.CreateTaskRequest
	}{
		{
			name: "missing equipment",
			req:  primary.CreateTaskRequest{ScheduledDate: "2024-06-03"},
		},
		{
			name: "missing scheduled date",
			req:  primary.CreateTaskRequest{EquipmentID: "EQ-001"},
		},
		{
			name: "malformed scheduled date",
			req:  primary.CreateTaskRequest{EquipmentID: "EQ-001", ScheduledDate: "June 3rd"},
		},
		{
			name: "unknown equipment",
			req:  primary.CreateTaskRequest{EquipmentID: "EQ-404", ScheduledDate: "2024-06-03"},
		},
		{
			name: "custom frequency without days",
			req:  primary.CreateTaskRequest{EquipmentID: "EQ-001", ScheduledDate: "2024-06-03", Frequency: models.FrequencyCustom},
		},
		{
			name: "custom days with weekly frequency",
			req:  primary.CreateTaskRequest{EquipmentID: "EQ-001", ScheduledDate: "2024-06-03", Frequency: models.FrequencyWeekly, CustomDays: 5},
		},
		{
			name: "unknown task type",
			req:  primary.CreateTaskRequest{EquipmentID: "EQ-001", ScheduledDate: "2024-06-03", Type: "emergency"},
		},
		{
			name: "unknown priority",
			req:  primary.CreateTaskRequest{EquipmentID: "EQ-001", ScheduledDate: "2024-06-03", Priority: "urgent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockTaskRepository()
			svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))

			_, err := svc.CreateTask(context.Background(), tt.req)
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("CreateTask() error = %v, want ErrValidation", err)
			}
			if len(repo.tasks) != 0 {
				t.Error("invalid request still created a task")
			}
		})
	}
}

// ============================================================================
// UpdateTask
// ============================================================================

func TestUpdateTaskEdit(t *testing.T) {
	repo := newMockTaskRepository()
	svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))
	created := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", Title: "inspect belt", ScheduledDate: "2024-06-03",
	})

	newDate := "2024-06-20"
	assignee := "jordan"
	updated, err := svc.UpdateTask(context.Background(), created.ID, primary.UpdateTaskPatch{
		ScheduledDate: &newDate,
		AssignedTo:    &assignee,
	})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	if updated.ScheduledDate != newDate {
		t.Errorf("ScheduledDate = %s, want %s", updated.ScheduledDate, newDate)
	}
	if updated.AssignedTo != assignee {
		t.Errorf("AssignedTo = %s, want %s", updated.AssignedTo, assignee)
	}
	if updated.Status != models.StatusScheduled {
		t.Errorf("edit changed status to %s", updated.Status)
	}
}

func TestUpdateTaskTransition(t *testing.T) {
	repo := newMockTaskRepository()
	svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))
	created := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", ScheduledDate: "2024-06-03",
	})

	inProgress := models.StatusInProgress
	updated, err := svc.UpdateTask(context.Background(), created.ID, primary.UpdateTaskPatch{Status: &inProgress})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Errorf("Status = %s, want in-progress", updated.Status)
	}

	// Illegal edge: in-progress back to scheduled.
	scheduled := models.StatusScheduled
	if _, err := svc.UpdateTask(context.Background(), created.ID, primary.UpdateTaskPatch{Status: &scheduled}); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("UpdateTask() error = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	svc := newTestService(newMockTaskRepository(), newMockEquipmentDirectory())

	title := "anything"
	if _, err := svc.UpdateTask(context.Background(), "MT-0404", primary.UpdateTaskPatch{Title: &title}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateTask() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateTaskImmutableAfterCancel(t *testing.T) {
	repo := newMockTaskRepository()
	svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))
	created := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", ScheduledDate: "2024-06-03",
	})

	cancelled := models.StatusCancelled
	if _, err := svc.UpdateTask(context.Background(), created.ID, primary.UpdateTaskPatch{Status: &cancelled}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	title := "new title"
	if _, err := svc.UpdateTask(context.Background(), created.ID, primary.UpdateTaskPatch{Title: &title}); !errors.Is(err, models.ErrImmutableRecord) {
		t.Errorf("UpdateTask() error = %v, want ErrImmutableRecord", err)
	}
}

// ============================================================================
// CompleteTask
// ============================================================================

func TestCompleteTaskCreatesWeeklyFollowUp(t *testing.T) {
	repo := newMockTaskRepository()
	svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))
	created := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID:   "EQ-001",
		Title:         "lubricate chain",
		ScheduledDate: "2024-06-03",
		Frequency:     models.FrequencyWeekly,
		Priority:      models.PriorityMedium,
		AssignedTo:    "sam",
	})

	result, err := svc.CompleteTask(context.Background(), primary.CompleteTaskRequest{
		TaskID:         created.ID,
		ActualDuration: 1.5,
		Notes:          "all good",
	})
	if err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}

	if result.Task.Status != models.StatusCompleted {
		t.Errorf("Status = %s, want completed", result.Task.Status)
	}
	if result.Task.CompletionDate != "2024-06-03" {
		t.Errorf("CompletionDate = %s, want 2024-06-03", result.Task.CompletionDate)
	}
	if result.FollowUpError != "" {
		t.Fatalf("unexpected follow-up error: %s", result.FollowUpError)
	}
	if result.FollowUp == nil {
		t.Fatal("expected a follow-up task")
	}
	if result.FollowUp.ScheduledDate != "2024-06-10" {
		t.Errorf("follow-up ScheduledDate = %s, want 2024-06-10", result.FollowUp.ScheduledDate)
	}
	if result.FollowUp.Status != models.StatusScheduled {
		t.Errorf("follow-up Status = %s, want scheduled", result.FollowUp.Status)
	}
	if result.FollowUp.Title != created.Title || result.FollowUp.AssignedTo != created.AssignedTo {
		t.Error("follow-up did not copy descriptive fields")
	}
	if result.FollowUp.CompletionDate != "" || result.FollowUp.ActualDuration != 0 {
		t.Error("follow-up carried completion artifacts")
	}
	checkCompletionInvariant(t, repo)
}

func TestCompleteTaskOneOffHasNoFollowUp(t *testing.T) {
	repo := newMockTaskRepository()
	svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))
	created := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", ScheduledDate: "2024-06-03",
	})

	result, err := svc.CompleteTask(context.Background(), primary.CompleteTaskRequest{
		TaskID: created.ID, ActualDuration: 2,
	})
	if err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}
	if result.FollowUp != nil {
		t.Error("one-off completion created a follow-up")
	}
	if len(repo.tasks) != 1 {
		t.Errorf("store has %d tasks, want 1", len(repo.tasks))
	}
}

func TestCompleteTaskFollowUpDisabled(t *testing.T) {
	repo := newMockTaskRepository()
	svc := NewTaskService(repo, newMockEquipmentDirectory("EQ-001"), slog.New(slog.DiscardHandler), Options{
		AutoFollowUp: false,
		Now:          func() time.Time { return testNow },
	})
	created := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", ScheduledDate: "2024-06-03", Frequency: models.FrequencyMonthly,
	})

	result, err := svc.CompleteTask(context.Background(), primary.CompleteTaskRequest{
		TaskID: created.ID, ActualDuration: 1,
	})
	if err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}
	if result.FollowUp != nil || result.FollowUpError != "" {
		t.Error("follow-up machinery ran while disabled")
	}
}

func TestCompleteTaskValidation(t *testing.T) {
	repo := newMockTaskRepository()
	svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))
	created := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", ScheduledDate: "2024-06-03",
	})

	if _, err := svc.CompleteTask(context.Background(), primary.CompleteTaskRequest{TaskID: created.ID}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("CompleteTask() error = %v, want ErrValidation", err)
	}

	record := repo.tasks[created.ID]
	if record.Status != string(models.StatusScheduled) || record.CompletionDate != "" {
		t.Error("failed completion mutated the record")
	}
}

func TestCompleteTaskAlreadyCancelled(t *testing.T) {
	repo := newMockTaskRepository()
	svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))
	created := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", ScheduledDate: "2024-06-03",
	})

	cancelled := models.StatusCancelled
	if _, err := svc.UpdateTask(context.Background(), created.ID, primary.UpdateTaskPatch{Status: &cancelled}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	_, err := svc.CompleteTask(context.Background(), primary.CompleteTaskRequest{TaskID: created.ID, ActualDuration: 1})
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("CompleteTask() error = %v, want ErrInvalidTransition", err)
	}

	record := repo.tasks[created.ID]
	if record.Status != string(models.StatusCancelled) || record.CompletionDate != "" {
		t.Error("failed completion mutated the cancelled record")
	}
}

func TestCompleteTaskConcurrentModification(t *testing.T) {
	repo := newMockTaskRepository()
	svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))
	created := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", ScheduledDate: "2024-06-03",
	})

	// Simulate the racing writer: after this request loads the record, a
	// second completion lands before the guarded update runs.
	raced := false
	repo.afterGet = func() {
		if raced {
			return
		}
		raced = true
		record := repo.tasks[created.ID]
		record.Status = string(models.StatusCompleted)
		record.CompletionDate = "2024-06-03"
		record.ActualDuration = 2
	}

	_, err := svc.CompleteTask(context.Background(), primary.CompleteTaskRequest{TaskID: created.ID, ActualDuration: 1})
	if !errors.Is(err, models.ErrConcurrentModification) {
		t.Errorf("CompleteTask() error = %v, want ErrConcurrentModification", err)
	}

	// The winner's write is untouched.
	record := repo.tasks[created.ID]
	if record.ActualDuration != 2 {
		t.Errorf("loser overwrote the winner: ActualDuration = %v", record.ActualDuration)
	}
	checkCompletionInvariant(t, repo)
}

func TestCompleteTaskFollowUpFailureIsNonFatal(t *testing.T) {
	repo := newMockTaskRepository()
	svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))
	created := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", ScheduledDate: "2024-06-03", Frequency: models.FrequencyWeekly,
	})

	repo.insertErr = errors.New("disk full")

	result, err := svc.CompleteTask(context.Background(), primary.CompleteTaskRequest{TaskID: created.ID, ActualDuration: 1})
	if err != nil {
		t.Fatalf("CompleteTask() error = %v, completion must not fail on follow-up problems", err)
	}
	if result.Task.Status != models.StatusCompleted {
		t.Errorf("Status = %s, want completed", result.Task.Status)
	}
	if result.FollowUpError == "" {
		t.Error("expected a follow-up error to be reported")
	}
	if result.FollowUp != nil {
		t.Error("follow-up reported despite insert failure")
	}
}

// ============================================================================
// DeleteTask / ListAlerts
// ============================================================================

func TestDeleteTask(t *testing.T) {
	repo := newMockTaskRepository()
	svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))
	created := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", ScheduledDate: "2024-06-03",
	})

	if err := svc.DeleteTask(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if err := svc.DeleteTask(context.Background(), created.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("DeleteTask() error = %v, want ErrNotFound", err)
	}
}

func TestListAlertsExcludesTerminalTasks(t *testing.T) {
	repo := newMockTaskRepository()
	svc := newTestService(repo, newMockEquipmentDirectory("EQ-001"))

	overdue := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", ScheduledDate: "2024-06-01",
	})
	done := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", ScheduledDate: "2024-06-02",
	})
	upcoming := mustCreate(t, svc, primary.CreateTaskRequest{
		EquipmentID: "EQ-001", ScheduledDate: "2024-06-05",
	})

	if _, err := svc.CompleteTask(context.Background(), primary.CompleteTaskRequest{TaskID: done.ID, ActualDuration: 1}); err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}

	alerts, err := svc.ListAlerts(context.Background(), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListAlerts() error = %v", err)
	}

	if len(alerts) != 2 {
		t.Fatalf("ListAlerts() returned %d alerts, want 2", len(alerts))
	}
	if alerts[0].TaskID != overdue.ID || alerts[0].Bucket != alert.BucketOverdue {
		t.Errorf("alerts[0] = %+v, want overdue %s", alerts[0], overdue.ID)
	}
	if alerts[1].TaskID != upcoming.ID || alerts[1].Bucket != alert.BucketUpcoming {
		t.Errorf("alerts[1] = %+v, want upcoming %s", alerts[1], upcoming.ID)
	}
}
