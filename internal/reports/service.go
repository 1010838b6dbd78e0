package reports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gonbot/fisio-scheduler/internal/appointments"
	"github.com/gonbot/fisio-scheduler/internal/calendar"
	"github.com/gonbot/fisio-scheduler/internal/catalog"
	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

// RevenueSummary totals confirmed appointments against catalog prices.
type RevenueSummary struct {
	TotalCOP     int            `json:"totalCop"`
	Appointments int            `json:"appointments"`
	ByService    []ServiceTotal `json:"byService"`
}

// ServiceTotal is the per-service slice of the revenue summary.
type ServiceTotal struct {
	ServiceID int    `json:"serviceId"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
	TotalCOP  int    `json:"totalCop"`
}

// DailyAgenda lists one day's confirmed appointments with the expected
// take.
type DailyAgenda struct {
	Date        string       `json:"date"`
	ExpectedCOP int          `json:"expectedCop"`
	Entries     []AgendaLine `json:"entries"`
}

// AgendaLine is one appointment row in the daily agenda.
type AgendaLine struct {
	Time        string `json:"time"`
	PatientName string `json:"patientName"`
	Service     string `json:"service"`
	PriceCOP    int    `json:"priceCop"`
}

// Service computes owner-facing reports from the appointment store.
type Service struct {
	store   *appointments.Store
	catalog *catalog.Catalog
	logger  *logging.Logger
}

// NewService creates a reports service.
func NewService(store *appointments.Store, cat *catalog.Catalog, logger *logging.Logger) *Service {
	if store == nil {
		panic("reports: store required")
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, catalog: cat, logger: logger}
}

// Revenue totals every confirmed appointment.
func (s *Service) Revenue(ctx context.Context) RevenueSummary {
	byService := make(map[int]*ServiceTotal)
	summary := RevenueSummary{}

	for _, a := range s.store.All(ctx) {
		if a.Status != appointments.StatusConfirmed {
			continue
		}
		svc, ok := s.catalog.Get(a.ServiceID)
		if !ok {
			continue
		}
		summary.Appointments++
		summary.TotalCOP += svc.PriceCOP

		st, exists := byService[svc.ID]
		if !exists {
			st = &ServiceTotal{ServiceID: svc.ID, Name: svc.Name}
			byService[svc.ID] = st
		}
		st.Count++
		st.TotalCOP += svc.PriceCOP
	}

	for _, st := range byService {
		summary.ByService = append(summary.ByService, *st)
	}
	sort.Slice(summary.ByService, func(i, j int) bool {
		return summary.ByService[i].TotalCOP > summary.ByService[j].TotalCOP
	})
	return summary
}

// Daily builds the agenda for one date.
func (s *Service) Daily(ctx context.Context, date string) DailyAgenda {
	agenda := DailyAgenda{Date: date}

	for _, a := range s.store.All(ctx) {
		if a.Date != date || a.Status != appointments.StatusConfirmed {
			continue
		}
		svc, _ := s.catalog.Get(a.ServiceID)
		agenda.ExpectedCOP += svc.PriceCOP
		agenda.Entries = append(agenda.Entries, AgendaLine{
			Time:        a.Time,
			PatientName: a.PatientName,
			Service:     svc.Name,
			PriceCOP:    svc.PriceCOP,
		})
	}

	sort.Slice(agenda.Entries, func(i, j int) bool {
		return agenda.Entries[i].Time < agenda.Entries[j].Time
	})
	return agenda
}

// RenderRevenue formats the revenue summary as chat-ready Spanish text.
func (s *Service) RenderRevenue(ctx context.Context) (string, error) {
	summary := s.Revenue(ctx)

	var b strings.Builder
	b.WriteString("📊 Reporte de ingresos\n")
	fmt.Fprintf(&b, "Citas confirmadas: %d\n", summary.Appointments)
	fmt.Fprintf(&b, "Total esperado: %s\n", FormatCOP(summary.TotalCOP))
	for _, st := range summary.ByService {
		fmt.Fprintf(&b, "- %s: %d x %s\n", st.Name, st.Count, FormatCOP(st.TotalCOP))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// RenderDaily formats one day's agenda as Spanish text.
func (s *Service) RenderDaily(ctx context.Context, date string) (string, error) {
	agenda := s.Daily(ctx, date)

	heading := date
	if t, err := time.ParseInLocation(calendar.DateFormat, date, time.UTC); err == nil {
		heading = calendar.FormatLongES(t)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 Agenda del %s\n", heading)
	if len(agenda.Entries) == 0 {
		b.WriteString("Sin citas confirmadas.")
		return b.String(), nil
	}
	for _, e := range agenda.Entries {
		fmt.Fprintf(&b, "%s  %s - %s (%s)\n", e.Time, e.PatientName, e.Service, FormatCOP(e.PriceCOP))
	}
	fmt.Fprintf(&b, "Total esperado: %s", FormatCOP(agenda.ExpectedCOP))
	return b.String(), nil
}

// FormatCOP renders an amount with Colombian thousand separators,
// e.g. "$250.000 COP".
func FormatCOP(amount int) string {
	digits := fmt.Sprintf("%d", amount)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return "$" + strings.Join(parts, ".") + " COP"
}
