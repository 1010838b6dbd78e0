package appointments

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

var storeTracer = otel.Tracer("fisio.internal.appointments")

// Store is the authoritative appointment collection. It is the single
// writer: every read-check-write sequence runs under one mutex, and
// every mutation persists the full collection synchronously before
// returning. A failed save rolls the in-memory change back so memory
// and durable storage never diverge.
type Store struct {
	mu          sync.Mutex
	persistence Persistence
	logger      *logging.Logger
	appts       []Appointment
}

// Open loads the collection from persistence and returns a ready store.
func Open(ctx context.Context, p Persistence, logger *logging.Logger) (*Store, error) {
	if p == nil {
		panic("appointments: persistence required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	appts, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("appointment store opened", "count", len(appts))
	return &Store{persistence: p, logger: logger, appts: appts}, nil
}

// FindActiveByPatientID returns the confirmed appointments matching a
// patient identifier. No match is an empty slice, not an error.
func (s *Store) FindActiveByPatientID(ctx context.Context, patientID string) []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []Appointment
	for _, a := range s.appts {
		if a.PatientID == patientID && a.Status == StatusConfirmed {
			found = append(found, a)
		}
	}
	return found
}

// Get returns the appointment with the given id.
func (s *Store) Get(ctx context.Context, id string) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.appts[i], nil
	}
	return Appointment{}, ErrNotFound
}

// All returns a snapshot of the full collection, cancelled records
// included.
func (s *Store) All(ctx context.Context) []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Appointment(nil), s.appts...)
}

// IsSlotTaken reports whether a confirmed appointment occupies the
// (date, time) pair. excludeID ignores one record, so a reschedule does
// not conflict with its own prior slot.
func (s *Store) IsSlotTaken(ctx context.Context, date, timeStr, excludeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slotTakenLocked(date, timeStr, excludeID)
}

// BookedSlots returns the occupied slot set for one date.
func (s *Store) BookedSlots(ctx context.Context, date string) map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[string]bool)
	for _, a := range s.appts {
		if a.Date == date && a.Status == StatusConfirmed {
			taken[a.Time] = true
		}
	}
	return taken
}

// Create books a slot: fresh id, confirmed, reminded=false. The
// conflict check runs again here, inside the same critical section as
// the write, which closes the check-then-act race.
func (s *Store) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	ctx, span := storeTracer.Start(ctx, "appointments.create")
	defer span.End()

	if err := in.Validate(); err != nil {
		return Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slotTakenLocked(in.Date, in.Time, "") {
		return Appointment{}, &ConflictError{Date: in.Date, Time: in.Time}
	}

	appt := Appointment{
		ID:           uuid.NewString(),
		PatientName:  in.PatientName,
		PatientID:    in.PatientID,
		PatientPhone: in.PatientPhone,
		ServiceID:    in.ServiceID,
		Date:         in.Date,
		Time:         in.Time,
		Status:       StatusConfirmed,
	}
	s.appts = append(s.appts, appt)

	if err := s.persistence.Save(ctx, s.appts); err != nil {
		s.appts = s.appts[:len(s.appts)-1]
		span.RecordError(err)
		return Appointment{}, err
	}

	s.logger.Info("appointment created", "id", appt.ID, "date", appt.Date, "time", appt.Time)
	return appt, nil
}

// Cancel flips an appointment to cancelled. Cancelling an already
// cancelled record is a no-op; an unknown id is ErrNotFound.
func (s *Store) Cancel(ctx context.Context, id string) error {
	ctx, span := storeTracer.Start(ctx, "appointments.cancel")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if s.appts[i].Status == StatusCancelled {
		return nil
	}

	s.appts[i].Status = StatusCancelled
	if err := s.persistence.Save(ctx, s.appts); err != nil {
		s.appts[i].Status = StatusConfirmed
		span.RecordError(err)
		return err
	}

	s.logger.Info("appointment cancelled", "id", id)
	return nil
}

// MarkReminded flips the reminded flag. Already-reminded records are a
// no-op.
func (s *Store) MarkReminded(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if s.appts[i].Reminded {
		return nil
	}

	s.appts[i].Reminded = true
	if err := s.persistence.Save(ctx, s.appts); err != nil {
		s.appts[i].Reminded = false
		return err
	}
	return nil
}

// ClaimDueReminders flips reminded=true on every confirmed, unreminded
// appointment whose start lies within (0, window] of now, persists the
// collection, and returns the claimed records. The flag write commits
// before any delivery happens, so a crash mid-delivery cannot cause a
// second reminder on the next tick.
func (s *Store) ClaimDueReminders(ctx context.Context, now time.Time, window time.Duration) ([]Appointment, error) {
	ctx, span := storeTracer.Start(ctx, "appointments.claim_due_reminders")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var claimedIdx []int
	for i, a := range s.appts {
		if a.Status != StatusConfirmed || a.Reminded {
			continue
		}
		startsAt, err := a.StartsAt()
		if err != nil {
			s.logger.Error("skipping appointment with unparseable start", "id", a.ID, "error", err)
			continue
		}
		until := startsAt.Sub(now)
		if until > 0 && until <= window {
			claimedIdx = append(claimedIdx, i)
		}
	}
	if len(claimedIdx) == 0 {
		return nil, nil
	}

	for _, i := range claimedIdx {
		s.appts[i].Reminded = true
	}
	if err := s.persistence.Save(ctx, s.appts); err != nil {
		for _, i := range claimedIdx {
			s.appts[i].Reminded = false
		}
		span.RecordError(err)
		return nil, err
	}

	claimed := make([]Appointment, 0, len(claimedIdx))
	for _, i := range claimedIdx {
		claimed = append(claimed, s.appts[i])
	}
	return claimed, nil
}

// indexOf must be called with the mutex held.
func (s *Store) indexOf(id string) int {
	for i := range s.appts {
		if s.appts[i].ID == id {
			return i
		}
	}
	return -1
}

// slotTakenLocked must be called with the mutex held.
func (s *Store) slotTakenLocked(date, timeStr, excludeID string) bool {
	for _, a := range s.appts {
		if a.Status != StatusConfirmed {
			continue
		}
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		if a.Date == date && a.Time == timeStr {
			return true
		}
	}
	return false
}
