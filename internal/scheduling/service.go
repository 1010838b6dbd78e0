package scheduling

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gonbot/fisio-scheduler/internal/appointments"
	"github.com/gonbot/fisio-scheduler/internal/availability"
	"github.com/gonbot/fisio-scheduler/internal/calendar"
	"github.com/gonbot/fisio-scheduler/internal/catalog"
	"github.com/gonbot/fisio-scheduler/internal/observability/metrics"
	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

var schedulingTracer = otel.Tracer("fisio.internal.scheduling")

// Service implements the booking, reschedule and cancel workflow on top
// of the availability generator and the appointment store. The state
// machine per appointment is confirmed -> cancelled, one-way; a
// reschedule is cancel-old plus create-new, never an in-place edit.
type Service struct {
	store   *appointments.Store
	gen     *availability.Generator
	catalog *catalog.Catalog
	logger  *logging.Logger
	metrics *metrics.SchedulingMetrics
}

// NewService constructs the workflow service.
func NewService(store *appointments.Store, gen *availability.Generator, cat *catalog.Catalog, logger *logging.Logger, m *metrics.SchedulingMetrics) *Service {
	if store == nil {
		panic("scheduling: store required")
	}
	if gen == nil {
		panic("scheduling: availability generator required")
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, gen: gen, catalog: cat, logger: logger, metrics: m}
}

// Book books a fresh appointment after validating the target slot.
func (s *Service) Book(ctx context.Context, in appointments.CreateInput) (appointments.Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("fisio.date", in.Date),
		attribute.String("fisio.time", in.Time),
	)

	if err := s.validateTarget(in); err != nil {
		s.metrics.ObserveBooking("rejected")
		return appointments.Appointment{}, err
	}

	appt, err := s.store.Create(ctx, in)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("conflict")
		return appointments.Appointment{}, err
	}

	s.metrics.ObserveBooking("confirmed")
	s.logger.Info("booking confirmed",
		"id", appt.ID,
		"patient_id", appt.PatientID,
		"service", s.catalog.Name(appt.ServiceID),
		"date", appt.Date,
		"time", appt.Time,
	)
	return appt, nil
}

// Reschedule moves an appointment to a new slot as a compound
// transaction: validate the target (excluding the old record from the
// conflict check), then cancel the old record, then create the new one.
// Validation always runs before the cancel so a conflict leaves the
// original appointment untouched.
func (s *Service) Reschedule(ctx context.Context, oldID, newDate, newTime string) (appointments.Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.reschedule")
	defer span.End()
	span.SetAttributes(attribute.String("fisio.old_id", oldID))

	old, err := s.store.Get(ctx, oldID)
	if err != nil {
		return appointments.Appointment{}, err
	}

	in := appointments.CreateInput{
		PatientName:  old.PatientName,
		PatientID:    old.PatientID,
		PatientPhone: old.PatientPhone,
		ServiceID:    old.ServiceID,
		Date:         newDate,
		Time:         newTime,
	}
	if err := s.validateTarget(in); err != nil {
		s.metrics.ObserveReschedule("rejected")
		return appointments.Appointment{}, err
	}
	if s.store.IsSlotTaken(ctx, newDate, newTime, oldID) {
		s.metrics.ObserveReschedule("conflict")
		return appointments.Appointment{}, &appointments.ConflictError{Date: newDate, Time: newTime}
	}

	if err := s.store.Cancel(ctx, oldID); err != nil {
		span.RecordError(err)
		s.metrics.ObserveReschedule("failed")
		return appointments.Appointment{}, err
	}

	appt, err := s.store.Create(ctx, in)
	if err != nil {
		// The old slot is already released; surface the partial state
		// instead of pretending nothing happened.
		span.RecordError(err)
		s.metrics.ObserveReschedule("partial")
		return appointments.Appointment{}, &PartialRescheduleError{OldID: oldID, Err: err}
	}

	s.metrics.ObserveReschedule("confirmed")
	s.logger.Info("appointment rescheduled",
		"old_id", oldID,
		"new_id", appt.ID,
		"date", appt.Date,
		"time", appt.Time,
	)
	return appt, nil
}

// Cancel cancels an appointment. confirmed must be true: the workflow
// refuses destructive calls that were not preceded by an explicit
// confirmation step. An unknown or already-cancelled id counts as
// already resolved.
func (s *Service) Cancel(ctx context.Context, id string, confirmed bool) error {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.cancel")
	defer span.End()

	if !confirmed {
		return ErrConfirmationRequired
	}

	err := s.store.Cancel(ctx, id)
	if errors.Is(err, appointments.ErrNotFound) {
		s.logger.Info("cancel of unknown appointment treated as resolved", "id", id)
		return nil
	}
	if err != nil {
		span.RecordError(err)
		return err
	}

	s.metrics.ObserveCancellation()
	s.logger.Info("appointment cancelled", "id", id)
	return nil
}

// SearchByPatientID lists a patient's confirmed appointments.
func (s *Service) SearchByPatientID(ctx context.Context, patientID string) []appointments.Appointment {
	return s.store.FindActiveByPatientID(ctx, patientID)
}

// Availability returns the next days of bookable windows annotated
// with occupied slots.
func (s *Service) Availability(ctx context.Context, days int) []availability.Window {
	return s.gen.Windows(days, func(date string) map[string]bool {
		return s.store.BookedSlots(ctx, date)
	})
}

func (s *Service) validateTarget(in appointments.CreateInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if !s.catalog.Exists(in.ServiceID) {
		return ErrUnknownService
	}
	date, err := time.ParseInLocation(calendar.DateFormat, in.Date, time.UTC)
	if err != nil {
		return &appointments.ValidationError{Field: "date"}
	}
	if !s.gen.IsBookableDay(date) {
		return ErrDateNotBookable
	}
	if !s.gen.Schedule().HasSlot(date, in.Time) {
		return ErrTimeNotInSchedule
	}
	return nil
}
