// Package task contains the pure business logic for task lifecycle
// operations. The state machine functions evaluate and apply transitions
// without side effects: they take a task value and return an updated copy.
package task

import (
	"fmt"
	"time"

	"github.com/example/upkeep/internal/models"
)

// transitions is the complete legal-edge set of the task state machine.
// Every status change in the system must pass through this table;
// completed and cancelled have no outgoing edges.
var transitions = map[models.TaskStatus]map[models.TaskStatus]bool{
	models.StatusScheduled: {
		models.StatusInProgress: true,
		models.StatusCancelled:  true,
		models.StatusCompleted:  true,
		models.StatusPartial:    true,
	},
	models.StatusInProgress: {
		models.StatusCompleted: true,
		models.StatusCancelled: true,
		models.StatusPartial:   true,
	},
	models.StatusPartial: {
		models.StatusInProgress: true,
		models.StatusCompleted:  true,
		models.StatusCancelled:  true,
	},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to models.TaskStatus) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: %s is terminal", models.ErrInvalidTransition, from)
	}
	if !transitions[from][to] {
		return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, from, to)
	}
	return nil
}

// TransitionFields carries the optional payload of a transition request.
// Only the fields relevant to the taken edge are applied; the rest are
// ignored so an over-full request cannot corrupt invariants.
type TransitionFields struct {
	ActualDuration float64
	Notes          string
}

// ApplyTransition validates the edge and returns a copy of t with the
// target status and the edge-relevant fields applied.
//
// Edges into completed require Complete instead, so that completion
// validation cannot be bypassed; ApplyTransition rejects them with a
// validation error pointing there.
func ApplyTransition(t models.Task, target models.TaskStatus, f TransitionFields, completedOn time.Time) (models.Task, error) {
	if !target.IsValid() {
		return t, fmt.Errorf("%w: unknown status %q", models.ErrValidation, target)
	}
	if err := CanTransition(t.Status, target); err != nil {
		return t, err
	}

	switch target {
	case models.StatusCompleted:
		return complete(t, f.ActualDuration, f.Notes, completedOn)
	case models.StatusPartial:
		if f.Notes != "" {
			t.Notes = f.Notes
		}
	}
	t.Status = target
	return t, nil
}

// Complete marks t completed as of completedOn. It fails with an invalid
// transition error from terminal states and a validation error when the
// actual duration is missing or not positive. The second return value
// reports whether t recurs, signalling the caller to consider creating a
// follow-up occurrence; this package never creates tasks itself.
func Complete(t models.Task, actualDuration float64, notes string, completedOn time.Time) (models.Task, bool, error) {
	if err := CanTransition(t.Status, models.StatusCompleted); err != nil {
		return t, false, err
	}
	done, err := complete(t, actualDuration, notes, completedOn)
	if err != nil {
		return t, false, err
	}
	return done, t.Frequency.Recurs(), nil
}

func complete(t models.Task, actualDuration float64, notes string, completedOn time.Time) (models.Task, error) {
	if actualDuration <= 0 {
		return t, fmt.Errorf("%w: actual duration must be a positive number of hours", models.ErrValidation)
	}
	t.Status = models.StatusCompleted
	t.CompletionDate = models.FormatDate(completedOn)
	t.ActualDuration = actualDuration
	if notes != "" {
		t.Notes = notes
	}
	return t, nil
}

// EditPatch describes a non-status field change. Nil pointers mean
// "leave unchanged". Status is deliberately absent: status changes must go
// through ApplyTransition or Complete.
type EditPatch struct {
	CategoryID        *string
	AreaID            *string
	LineID            *string
	Title             *string
	Description       *string
	Type              *models.TaskType
	Priority          *models.TaskPriority
	ScheduledDate     *string
	Frequency         *models.Frequency
	CustomDays        *int
	EstimatedDuration *float64
	Notes             *string
	AssignedTo        *string
}

// ApplyEdit applies p to a copy of t. Terminal records are immutable.
func ApplyEdit(t models.Task, p EditPatch) (models.Task, error) {
	if t.IsTerminal() {
		return t, fmt.Errorf("%w: task %s is %s", models.ErrImmutableRecord, t.ID, t.Status)
	}

	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.AreaID != nil {
		t.AreaID = *p.AreaID
	}
	if p.LineID != nil {
		t.LineID = *p.LineID
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Type != nil {
		if !p.Type.IsValid() {
			return t, fmt.Errorf("%w: unknown task type %q", models.ErrValidation, *p.Type)
		}
		t.Type = *p.Type
	}
	if p.Priority != nil {
		if !p.Priority.IsValid() {
			return t, fmt.Errorf("%w: unknown priority %q", models.ErrValidation, *p.Priority)
		}
		t.Priority = *p.Priority
	}
	if p.ScheduledDate != nil {
		if _, err := models.ParseDate(*p.ScheduledDate); err != nil {
			return t, fmt.Errorf("%w: scheduled date %q is not a YYYY-MM-DD date", models.ErrValidation, *p.ScheduledDate)
		}
		t.ScheduledDate = *p.ScheduledDate
	}
	if p.Frequency != nil {
		if !p.Frequency.IsValid() {
			return t, fmt.Errorf("%w: unknown frequency %q", models.ErrValidation, *p.Frequency)
		}
		t.Frequency = *p.Frequency
	}
	if p.CustomDays != nil {
		t.CustomDays = *p.CustomDays
	}
	if p.EstimatedDuration != nil {
		t.EstimatedDuration = *p.EstimatedDuration
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}

	if err := CheckRecurrenceFields(t.Frequency, t.CustomDays); err != nil {
		return t, err
	}
	return t, nil
}

// CheckRecurrenceFields enforces the frequency/customDays invariant:
// custom requires a positive day count, every other frequency forbids one.
func CheckRecurrenceFields(freq models.Frequency, customDays int) error {
	if freq == models.FrequencyCustom {
		if customDays <= 0 {
			return fmt.Errorf("%w: custom frequency requires a positive customDays", models.ErrValidation)
		}
		return nil
	}
	if customDays != 0 {
		return fmt.Errorf("%w: customDays is only meaningful with custom frequency", models.ErrValidation)
	}
	return nil
}
