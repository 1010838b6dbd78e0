package reminder

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/gonbot/fisio-scheduler/internal/appointments"
	"github.com/gonbot/fisio-scheduler/internal/calendar"
	"github.com/gonbot/fisio-scheduler/internal/catalog"
	"github.com/gonbot/fisio-scheduler/internal/observability/metrics"
	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

var reminderTracer = otel.Tracer("fisio.internal.reminder")

// Notifier delivers a reminder out of band, to staff or patient.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// TranscriptAppender pushes a system line into a patient's chat
// transcript so the assistant can refer back to the reminder.
type TranscriptAppender interface {
	AppendSystemMessage(ctx context.Context, patientID, text string) error
}

// Scanner finds appointments starting within the reminder window and
// delivers one reminder per appointment. The reminded flag is claimed
// and persisted before any delivery attempt, so a record is never
// reminded twice even if delivery itself fails or the process dies
// mid-scan.
type Scanner struct {
	store      *appointments.Store
	catalog    *catalog.Catalog
	notifiers  []Notifier
	transcript TranscriptAppender
	window     time.Duration
	logger     *logging.Logger
	metrics    *metrics.ReminderMetrics
}

// ScannerOptions configures a Scanner.
type ScannerOptions struct {
	Store      *appointments.Store
	Catalog    *catalog.Catalog
	Notifiers  []Notifier
	Transcript TranscriptAppender
	Window     time.Duration
	Logger     *logging.Logger
	Metrics    *metrics.ReminderMetrics
}

// NewScanner creates a reminder scanner.
func NewScanner(opts ScannerOptions) *Scanner {
	if opts.Store == nil {
		panic("reminder: store required")
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Window <= 0 {
		opts.Window = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Scanner{
		store:      opts.Store,
		catalog:    opts.Catalog,
		notifiers:  opts.Notifiers,
		transcript: opts.Transcript,
		window:     opts.Window,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
}

// RunTick claims every due appointment and delivers its reminder. A
// delivery failure is logged and the scan continues; the claim is not
// rolled back, so the failed reminder is dropped rather than repeated.
func (s *Scanner) RunTick(ctx context.Context, now time.Time) error {
	ctx, span := reminderTracer.Start(ctx, "reminder.run_tick")
	defer span.End()
	start := time.Now()
	defer func() {
		s.metrics.ObserveTick(time.Since(start).Seconds())
	}()

	due, err := s.store.ClaimDueReminders(ctx, now, s.window)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("reminder: claim due: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	s.logger.Info("reminder tick claimed appointments", "count", len(due))

	for _, appt := range due {
		if err := s.deliver(ctx, appt); err != nil {
			s.metrics.ObserveDeliveryFailure()
			s.logger.Error("reminder delivery failed",
				"id", appt.ID, "patient_id", appt.PatientID, "error", err)
			continue
		}
		s.metrics.ObserveSent()
	}
	return nil
}

func (s *Scanner) deliver(ctx context.Context, appt appointments.Appointment) error {
	body := s.message(appt)
	title := "Recordatorio de cita"

	var firstErr error
	delivered := false
	for _, n := range s.notifiers {
		if err := n.Notify(ctx, title, body); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		delivered = true
	}

	if s.transcript != nil {
		if err := s.transcript.AppendSystemMessage(ctx, appt.PatientID, body); err != nil {
			s.logger.Error("failed to append reminder to transcript",
				"id", appt.ID, "patient_id", appt.PatientID, "error", err)
		}
	}

	if !delivered && firstErr != nil {
		return firstErr
	}
	s.logger.Info("reminder sent",
		"id", appt.ID, "patient_id", appt.PatientID, "date", appt.Date, "time", appt.Time)
	return nil
}

func (s *Scanner) message(appt appointments.Appointment) string {
	when := appt.Date
	if t, err := time.ParseInLocation(calendar.DateFormat, appt.Date, time.UTC); err == nil {
		when = calendar.FormatLongES(t)
	}
	return fmt.Sprintf(
		"Hola %s, te recordamos tu cita de %s el %s a las %s. Si necesitas reprogramar o cancelar, escríbenos por el chat.",
		appt.PatientName, s.catalog.Name(appt.ServiceID), when, appt.Time,
	)
}
