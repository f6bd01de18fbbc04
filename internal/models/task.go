// Package models contains domain types for maintenance task entities.
// SQL persistence lives in internal/adapters/sqlite/*.go
package models

import "time"

// TaskStatus is the lifecycle state of a maintenance task.
type TaskStatus string

// Task status values. The hyphenated in-progress spelling is the wire and
// storage form; do not normalize it.
const (
	StatusScheduled  TaskStatus = "scheduled"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
	StatusPartial    TaskStatus = "partial"
)

// IsTerminal reports whether no further transitions are possible.
// partial is deliberately not terminal: a partially completed task can be
// reopened and worked further.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsOverdueCandidate reports whether the task can still appear in
// scheduling alerts.
func (s TaskStatus) IsOverdueCandidate() bool {
	return s != StatusCompleted && s != StatusCancelled
}

// IsValid reports whether s is a known status value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled, StatusPartial:
		return true
	}
	return false
}

// TaskType classifies the maintenance work. Informational only; it never
// affects the state machine.
type TaskType string

const (
	TypePredictive  TaskType = "predictive"
	TypeCorrective  TaskType = "corrective"
	TypeConditional TaskType = "conditional"
)

// IsValid reports whether t is a known task type or empty.
func (t TaskType) IsValid() bool {
	switch t {
	case "", TypePredictive, TypeCorrective, TypeConditional:
		return true
	}
	return false
}

// TaskPriority is a reporting hint; ordering by priority is a
// presentation-layer concern.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// IsValid reports whether p is a known priority or empty.
func (p TaskPriority) IsValid() bool {
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Frequency is the recurrence cadence of a repeating task.
type Frequency string

const (
	FrequencyNone    Frequency = "none"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyCustom  Frequency = "custom"
)

// IsValid reports whether f is a known frequency value or empty.
func (f Frequency) IsValid() bool {
	switch f {
	case "", FrequencyNone, FrequencyWeekly, FrequencyMonthly, FrequencyYearly, FrequencyCustom:
		return true
	}
	return false
}

// Recurs reports whether f describes a repeating task.
func (f Frequency) Recurs() bool {
	return f != "" && f != FrequencyNone
}

// DateLayout is the calendar-date form used for scheduled and completion
// dates everywhere: storage, wire, and the core. Calendar dates carry no
// timezone so a due date never shifts between caller timezones.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date into a UTC-midnight instant.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as a YYYY-MM-DD calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Task represents a maintenance task entity.
// This is the domain type passed through the pure core functions.
// For persistence, use the repository interfaces in ports/secondary.
type Task struct {
	ID                string       `json:"id"`
	EquipmentID       string       `json:"equipmentId"`
	CategoryID        string       `json:"categoryId,omitempty"`
	AreaID            string       `json:"areaId,omitempty"`
	LineID            string       `json:"lineId,omitempty"`
	TaskTemplateID    string       `json:"taskTemplateId,omitempty"`
	Title             string       `json:"title"`
	Description       string       `json:"description,omitempty"`
	Type              TaskType     `json:"type,omitempty"`
	Priority          TaskPriority `json:"priority,omitempty"`
	Status            TaskStatus   `json:"status"`
	ScheduledDate     string       `json:"scheduledDate"`           // YYYY-MM-DD, required while not deleted
	CompletionDate    string       `json:"completionDate,omitempty"` // YYYY-MM-DD, set iff Status == completed
	Frequency         Frequency    `json:"frequency,omitempty"`
	CustomDays        int          `json:"customDays,omitempty"` // > 0 iff Frequency == custom
	EstimatedDuration float64      `json:"estimatedDuration,omitempty"`
	ActualDuration    float64      `json:"actualDuration,omitempty"`
	Notes             string       `json:"notes,omitempty"`
	AssignedTo        string       `json:"assignedTo,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// IsTerminal reports whether the task reached a terminal status.
func (t *Task) IsTerminal() bool {
	return t.Status.IsTerminal()
}

// IsOverdueCandidate reports whether the task can appear in alerts.
func (t *Task) IsOverdueCandidate() bool {
	return t.Status.IsOverdueCandidate()
}
