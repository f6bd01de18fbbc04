package models

import "errors"

// Error taxonomy shared by every layer. Callers match with errors.Is; the
// service and adapters wrap these with context via fmt.Errorf and %w.
var (
	// ErrValidation marks caller input that violates a required-field or
	// value-range invariant. Never retried automatically.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition marks a status change that is not a legal edge
	// of the task state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrImmutableRecord marks an edit against a completed or cancelled
	// record.
	ErrImmutableRecord = errors.New("record is immutable")

	// ErrNotFound marks an id that does not resolve in persistence.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentModification marks a failed optimistic-concurrency
	// check: the record's status no longer matches the expected
	// pre-transition status. Callers should reload and retry.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrInvalidRule marks a malformed recurrence rule, such as a custom
	// frequency without a positive day count.
	ErrInvalidRule = errors.New("invalid recurrence rule")
)
