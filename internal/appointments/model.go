package appointments

import (
	"fmt"
	"strings"
	"time"

	"github.com/gonbot/fisio-scheduler/internal/calendar"
)

// Status is the lifecycle state of an appointment. Cancelled is
// terminal: records are never un-cancelled and never deleted.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Appointment is one booked slot. The JSON field names are the
// persisted wire shape.
type Appointment struct {
	ID           string `json:"id"`
	PatientName  string `json:"patientName"`
	PatientID    string `json:"patientId"`
	PatientPhone string `json:"patientPhone"`
	ServiceID    int    `json:"serviceId"`
	Date         string `json:"date"` // YYYY-MM-DD
	Time         string `json:"time"` // HH:MM, 24-hour
	Status       Status `json:"status"`
	Reminded     bool   `json:"reminded,omitempty"`
}

// StartsAt resolves the appointment's date and slot into a moment.
func (a Appointment) StartsAt() (time.Time, error) {
	t, err := time.ParseInLocation(calendar.DateFormat+" 15:04", a.Date+" "+a.Time, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("appointments: parse start of %s: %w", a.ID, err)
	}
	return t, nil
}

// CreateInput carries the fields needed to book a slot.
type CreateInput struct {
	PatientName  string `json:"patientName"`
	PatientID    string `json:"patientId"`
	PatientPhone string `json:"patientPhone"`
	ServiceID    int    `json:"serviceId"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

// Validate checks the required booking fields.
func (in CreateInput) Validate() error {
	switch {
	case strings.TrimSpace(in.PatientName) == "":
		return &ValidationError{Field: "patientName"}
	case strings.TrimSpace(in.PatientID) == "":
		return &ValidationError{Field: "patientId"}
	case strings.TrimSpace(in.Date) == "":
		return &ValidationError{Field: "date"}
	case strings.TrimSpace(in.Time) == "":
		return &ValidationError{Field: "time"}
	}
	if _, err := time.ParseInLocation(calendar.DateFormat, in.Date, time.UTC); err != nil {
		return &ValidationError{Field: "date"}
	}
	if _, err := time.ParseInLocation("15:04", in.Time, time.UTC); err != nil {
		return &ValidationError{Field: "time"}
	}
	return nil
}
