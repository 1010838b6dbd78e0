package appointments

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references an unknown
// appointment id.
var ErrNotFound = errors.New("appointments: appointment not found")

// ConflictError reports that a slot already holds a confirmed
// appointment at commit time.
type ConflictError struct {
	Date string
	Time string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("appointments: slot %s %s is already booked", e.Date, e.Time)
}

// ValidationError reports a missing or malformed required booking field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("appointments: field %q is missing or invalid", e.Field)
}

// PersistenceError wraps a durable-storage read/write failure. It is
// fatal to the triggering operation and must be surfaced to the caller,
// never swallowed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("appointments: persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
