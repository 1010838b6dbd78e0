package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonbot/fisio-scheduler/internal/appointments"
	"github.com/gonbot/fisio-scheduler/internal/availability"
	"github.com/gonbot/fisio-scheduler/internal/calendar"
	"github.com/gonbot/fisio-scheduler/internal/catalog"
	"github.com/gonbot/fisio-scheduler/internal/reports"
	"github.com/gonbot/fisio-scheduler/internal/scheduling"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := appointments.Open(context.Background(), appointments.NewMemoryPersistence(), nil)
	require.NoError(t, err)

	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	gen := availability.NewGenerator(calendar.New(), availability.DefaultSchedule(), func() time.Time { return now })
	svc := scheduling.NewService(store, gen, catalog.Default(), nil, nil)

	return New(&Config{
		SchedulingHandler: scheduling.NewHandler(svc, 14, nil),
		ReportsHandler:    reports.NewHandler(reports.NewService(store, nil, nil), nil),
		AdminAuthSecret:   "secret",
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestServicesEndpoint(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/services", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Services []catalog.Service `json:"services"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Services, 17)
}

func TestBookingFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	payload := `{"patientName":"Laura Gómez","patientId":"1020304050","patientPhone":"3001234567","serviceId":1,"date":"2026-03-03","time":"09:00"}`

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/", strings.NewReader(payload)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var appt appointments.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	assert.NotEmpty(t, appt.ID)

	// Same slot again conflicts.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/", strings.NewReader(payload)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "slot_taken")

	// Cancel without confirmation is refused.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/"+appt.ID+"/cancel", strings.NewReader(`{"confirm":false}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/"+appt.ID+"/cancel", strings.NewReader(`{"confirm":true}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/availability?days=3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Days []availability.Window `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Days, 3)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/reports/revenue", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
