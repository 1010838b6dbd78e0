package scheduling

import (
	"errors"
	"fmt"
)

// ErrConfirmationRequired gates cancellation: the mutating call is only
// reachable after an explicit confirmation signal from the caller.
var ErrConfirmationRequired = errors.New("scheduling: cancellation requires explicit confirmation")

// ErrDateNotBookable is returned when the target date is today or
// earlier, a Sunday, or a holiday.
var ErrDateNotBookable = errors.New("scheduling: date is not a bookable business day")

// ErrTimeNotInSchedule is returned when the target time is not a slot
// of that day's schedule.
var ErrTimeNotInSchedule = errors.New("scheduling: time is not in the daily schedule")

// ErrUnknownService is returned when the booking references a service
// id outside the catalog.
var ErrUnknownService = errors.New("scheduling: unknown service id")

// PartialRescheduleError reports a reschedule that released the old
// slot but could not secure the new one. The caller must tell the
// patient their original appointment is gone.
type PartialRescheduleError struct {
	OldID string
	Err   error
}

func (e *PartialRescheduleError) Error() string {
	return fmt.Sprintf("scheduling: appointment %s was cancelled but the new slot could not be booked: %v", e.OldID, e.Err)
}

func (e *PartialRescheduleError) Unwrap() error {
	return e.Err
}
