package reports

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gonbot/fisio-scheduler/internal/calendar"
	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

// Handler serves the owner report endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a reports handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Revenue handles GET /admin/reports/revenue.
func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	summary := h.service.Revenue(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// Daily handles GET /admin/reports/daily?date=YYYY-MM-DD. The date
// defaults to today.
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format(calendar.DateFormat)
	} else if _, err := time.ParseInLocation(calendar.DateFormat, date, time.UTC); err != nil {
		http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	agenda := h.service.Daily(r.Context(), date)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agenda)
}
