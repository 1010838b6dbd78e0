package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonbot/fisio-scheduler/internal/appointments"
	"github.com/gonbot/fisio-scheduler/internal/availability"
	"github.com/gonbot/fisio-scheduler/internal/calendar"
	"github.com/gonbot/fisio-scheduler/internal/catalog"
)

// failingPersistence fails every Save after the first allowed calls.
type failingPersistence struct {
	*appointments.MemoryPersistence
	allowSaves int
	saves      int
}

func (p *failingPersistence) Save(ctx context.Context, appts []appointments.Appointment) error {
	p.saves++
	if p.saves > p.allowSaves {
		return errors.New("persistence down")
	}
	return p.MemoryPersistence.Save(ctx, appts)
}

func newTestService(t *testing.T, p appointments.Persistence) (*Service, *appointments.Store) {
	t.Helper()
	if p == nil {
		p = appointments.NewMemoryPersistence()
	}
	store, err := appointments.Open(context.Background(), p, nil)
	require.NoError(t, err)

	// Monday 2026-03-02, 10:00 UTC. Tuesday the 3rd onward is bookable.
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	gen := availability.NewGenerator(calendar.New(), availability.DefaultSchedule(), func() time.Time { return now })

	return NewService(store, gen, catalog.Default(), nil, nil), store
}

func validInput() appointments.CreateInput {
	return appointments.CreateInput{
		PatientName:  "Laura Gómez",
		PatientID:    "1020304050",
		PatientPhone: "3001234567",
		ServiceID:    1,
		Date:         "2026-03-03",
		Time:         "09:00",
	}
}

func TestBookHappyPath(t *testing.T) {
	svc, _ := newTestService(t, nil)

	appt, err := svc.Book(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, appointments.StatusConfirmed, appt.Status)
}

func TestBookValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*appointments.CreateInput)
		wantErr error
	}{
		{"unknown service", func(in *appointments.CreateInput) { in.ServiceID = 999 }, ErrUnknownService},
		{"sunday", func(in *appointments.CreateInput) { in.Date = "2026-03-08" }, ErrDateNotBookable},
		{"today", func(in *appointments.CreateInput) { in.Date = "2026-03-02" }, ErrDateNotBookable},
		{"past", func(in *appointments.CreateInput) { in.Date = "2026-02-20" }, ErrDateNotBookable},
		{"san jose shifted holiday", func(in *appointments.CreateInput) { in.Date = "2026-03-23" }, ErrDateNotBookable},
		{"lunch hour", func(in *appointments.CreateInput) { in.Time = "12:00" }, ErrTimeNotInSchedule},
		{"off-grid minute", func(in *appointments.CreateInput) { in.Time = "09:30" }, ErrTimeNotInSchedule},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Book(ctx, in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestBookMissingFieldIsValidationError(t *testing.T) {
	svc, _ := newTestService(t, nil)

	in := validInput()
	in.PatientName = "  "
	_, err := svc.Book(context.Background(), in)

	var vErr *appointments.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "patientName", vErr.Field)
}

func TestBookConflict(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Book(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.PatientName = "Otro Paciente"
	in.PatientID = "9988776655"
	_, err = svc.Book(ctx, in)

	var cErr *appointments.ConflictError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "2026-03-03", cErr.Date)
	assert.Equal(t, "09:00", cErr.Time)
}

func TestRescheduleMovesAppointment(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	old, err := svc.Book(ctx, validInput())
	require.NoError(t, err)

	moved, err := svc.Reschedule(ctx, old.ID, "2026-03-04", "15:00")
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, moved.ID)
	assert.Equal(t, "2026-03-04", moved.Date)
	assert.Equal(t, "15:00", moved.Time)
	assert.Equal(t, old.PatientID, moved.PatientID)
	assert.Equal(t, old.ServiceID, moved.ServiceID)

	got, err := store.Get(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusCancelled, got.Status)
}

func TestRescheduleConflictLeavesOriginal(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.Book(ctx, validInput())
	require.NoError(t, err)

	other := validInput()
	other.PatientID = "9988776655"
	other.Time = "10:00"
	_, err = svc.Book(ctx, other)
	require.NoError(t, err)

	_, err = svc.Reschedule(ctx, first.ID, "2026-03-03", "10:00")
	var cErr *appointments.ConflictError
	require.ErrorAs(t, err, &cErr)

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusConfirmed, got.Status)
	assert.Equal(t, "09:00", got.Time)
}

func TestRescheduleOntoOwnSlot(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	old, err := svc.Book(ctx, validInput())
	require.NoError(t, err)

	// The appointment being moved does not conflict with itself.
	moved, err := svc.Reschedule(ctx, old.ID, old.Date, old.Time)
	require.NoError(t, err)
	assert.Equal(t, old.Date, moved.Date)
	assert.Equal(t, old.Time, moved.Time)
}

func TestRescheduleUnknownID(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Reschedule(context.Background(), "missing", "2026-03-04", "15:00")
	assert.ErrorIs(t, err, appointments.ErrNotFound)
}

func TestReschedulePartialFailure(t *testing.T) {
	// Save 1 backs the booking, save 2 backs the cancel, save 3 backs
	// the replacement create and fails.
	p := &failingPersistence{MemoryPersistence: appointments.NewMemoryPersistence(), allowSaves: 2}
	svc, store := newTestService(t, p)
	ctx := context.Background()

	old, err := svc.Book(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Reschedule(ctx, old.ID, "2026-03-04", "15:00")
	var pErr *PartialRescheduleError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, old.ID, pErr.OldID)

	got, err := store.Get(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusCancelled, got.Status)
	assert.Empty(t, store.FindActiveByPatientID(ctx, old.PatientID))
}

func TestCancelRequiresConfirmation(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	appt, err := svc.Book(ctx, validInput())
	require.NoError(t, err)

	err = svc.Cancel(ctx, appt.ID, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	got, err := store.Get(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusConfirmed, got.Status)
}

func TestCancelUnknownIDIsResolved(t *testing.T) {
	svc, _ := newTestService(t, nil)

	assert.NoError(t, svc.Cancel(context.Background(), "missing", true))
}

func TestAvailabilityMarksBookedSlots(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Book(ctx, validInput())
	require.NoError(t, err)

	windows := svc.Availability(ctx, 3)
	require.Len(t, windows, 3)
	require.Equal(t, "2026-03-03", windows[0].Date)

	var taken, free int
	for _, slot := range windows[0].Slots {
		if slot.Taken {
			taken++
			assert.Equal(t, "09:00", slot.Time)
		} else {
			free++
		}
	}
	assert.Equal(t, 1, taken)
	assert.Equal(t, 7, free)
}
