package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters for the booking workflow.
type SchedulingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	reschedulesTotal   *prometheus.CounterVec
	cancellationsTotal prometheus.Counter
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fisio",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		reschedulesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fisio",
			Subsystem: "scheduling",
			Name:      "reschedules_total",
			Help:      "Reschedule attempts by outcome",
		}, []string{"outcome"}),
		cancellationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fisio",
			Subsystem: "scheduling",
			Name:      "cancellations_total",
			Help:      "Confirmed cancellations",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.reschedulesTotal, m.cancellationsTotal)
	return m
}

func (m *SchedulingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *SchedulingMetrics) ObserveReschedule(outcome string) {
	if m == nil {
		return
	}
	m.reschedulesTotal.WithLabelValues(outcome).Inc()
}

func (m *SchedulingMetrics) ObserveCancellation() {
	if m == nil {
		return
	}
	m.cancellationsTotal.Inc()
}

// ReminderMetrics exposes counters/histograms for the reminder scanner.
type ReminderMetrics struct {
	sentTotal    prometheus.Counter
	failedTotal  prometheus.Counter
	tickDuration prometheus.Histogram
}

func NewReminderMetrics(reg prometheus.Registerer) *ReminderMetrics {
	m := &ReminderMetrics{
		sentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fisio",
			Subsystem: "reminder",
			Name:      "sent_total",
			Help:      "Reminders delivered",
		}),
		failedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fisio",
			Subsystem: "reminder",
			Name:      "delivery_failures_total",
			Help:      "Reminder deliveries that errored",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fisio",
			Subsystem: "reminder",
			Name:      "tick_duration_seconds",
			Help:      "Duration of reminder scan ticks",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sentTotal, m.failedTotal, m.tickDuration)
	return m
}

func (m *ReminderMetrics) ObserveSent() {
	if m == nil {
		return
	}
	m.sentTotal.Inc()
}

func (m *ReminderMetrics) ObserveDeliveryFailure() {
	if m == nil {
		return
	}
	m.failedTotal.Inc()
}

func (m *ReminderMetrics) ObserveTick(seconds float64) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(seconds)
}
