package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonbot/fisio-scheduler/internal/appointments"
)

func seedStore(t *testing.T, appts ...appointments.Appointment) *appointments.Store {
	t.Helper()
	p := appointments.NewMemoryPersistence()
	require.NoError(t, p.Save(context.Background(), appts))
	store, err := appointments.Open(context.Background(), p, nil)
	require.NoError(t, err)
	return store
}

func appt(id string, serviceID int, date, timeStr string, status appointments.Status) appointments.Appointment {
	return appointments.Appointment{
		ID:          id,
		PatientName: "Laura Gómez",
		PatientID:   "1020304050",
		ServiceID:   serviceID,
		Date:        date,
		Time:        timeStr,
		Status:      status,
	}
}

func TestRevenueCountsOnlyConfirmed(t *testing.T) {
	store := seedStore(t,
		appt("a1", 1, "2026-03-03", "09:00", appointments.StatusConfirmed), // 65000
		appt("a2", 2, "2026-03-03", "10:00", appointments.StatusConfirmed), // 85000
		appt("a3", 5, "2026-03-04", "09:00", appointments.StatusCancelled), // excluded
		appt("a4", 1, "2026-03-05", "09:00", appointments.StatusConfirmed), // 65000
	)
	svc := NewService(store, nil, nil)

	summary := svc.Revenue(context.Background())
	assert.Equal(t, 3, summary.Appointments)
	assert.Equal(t, 215000, summary.TotalCOP)

	require.NotEmpty(t, summary.ByService)
	assert.Equal(t, 1, summary.ByService[0].ServiceID)
	assert.Equal(t, 2, summary.ByService[0].Count)
	assert.Equal(t, 130000, summary.ByService[0].TotalCOP)
}

func TestDailyAgendaSortedByTime(t *testing.T) {
	store := seedStore(t,
		appt("a1", 1, "2026-03-03", "15:00", appointments.StatusConfirmed),
		appt("a2", 2, "2026-03-03", "09:00", appointments.StatusConfirmed),
		appt("a3", 1, "2026-03-04", "09:00", appointments.StatusConfirmed), // other day
	)
	svc := NewService(store, nil, nil)

	agenda := svc.Daily(context.Background(), "2026-03-03")
	require.Len(t, agenda.Entries, 2)
	assert.Equal(t, "09:00", agenda.Entries[0].Time)
	assert.Equal(t, "15:00", agenda.Entries[1].Time)
	assert.Equal(t, 150000, agenda.ExpectedCOP)
}

func TestRenderRevenueSpanish(t *testing.T) {
	store := seedStore(t, appt("a1", 5, "2026-03-03", "09:00", appointments.StatusConfirmed))
	svc := NewService(store, nil, nil)

	text, err := svc.RenderRevenue(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "Citas confirmadas: 1")
	assert.Contains(t, text, "$250.000 COP")
}

func TestRenderDailyEmptyDay(t *testing.T) {
	store := seedStore(t)
	svc := NewService(store, nil, nil)

	text, err := svc.RenderDaily(context.Background(), "2026-03-03")
	require.NoError(t, err)
	assert.Contains(t, text, "Martes, 3 de marzo de 2026")
	assert.Contains(t, text, "Sin citas confirmadas.")
}

func TestFormatCOP(t *testing.T) {
	assert.Equal(t, "$0 COP", FormatCOP(0))
	assert.Equal(t, "$900 COP", FormatCOP(900))
	assert.Equal(t, "$65.000 COP", FormatCOP(65000))
	assert.Equal(t, "$1.250.000 COP", FormatCOP(1250000))
}
