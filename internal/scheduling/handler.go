package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gonbot/fisio-scheduler/internal/appointments"
	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

// Handler exposes the scheduling workflow over HTTP.
type Handler struct {
	service     *Service
	defaultDays int
	logger      *logging.Logger
}

// NewHandler creates a new scheduling handler. defaultDays is the
// availability horizon used when the request does not pick one.
func NewHandler(service *Service, defaultDays int, logger *logging.Logger) *Handler {
	if defaultDays <= 0 {
		defaultDays = 14
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, defaultDays: defaultDays, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CreateAppointment handles POST /appointments requests.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var in appointments.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	appt, err := h.service.Book(r.Context(), in)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

type rescheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// RescheduleAppointment handles POST /appointments/{id}/reschedule.
func (h *Handler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing appointment id")
		return
	}

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	appt, err := h.service.Reschedule(r.Context(), id, req.Date, req.Time)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

type cancelRequest struct {
	Confirm bool `json:"confirm"`
}

// CancelAppointment handles POST /appointments/{id}/cancel.
func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing appointment id")
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	if err := h.service.Cancel(r.Context(), id, req.Confirm); err != nil {
		h.writeWorkflowError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "cancelled", "id": id})
}

// ListAppointments handles GET /appointments?patientId= requests.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patientId")
	if patientID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing patientId query parameter")
		return
	}

	appts := h.service.SearchByPatientID(r.Context(), patientID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"appointments": appts,
		"count":        len(appts),
	})
}

// GetAvailability handles GET /availability requests.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	days := h.defaultDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if n, err := strconv.Atoi(daysStr); err == nil && n > 0 && n <= 60 {
			days = n
		}
	}

	windows := h.service.Availability(r.Context(), days)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"days": windows,
	})
}

func (h *Handler) writeWorkflowError(w http.ResponseWriter, err error) {
	var (
		conflictErr   *appointments.ConflictError
		validationErr *appointments.ValidationError
		partialErr    *PartialRescheduleError
	)
	switch {
	case errors.As(err, &partialErr):
		// The old appointment is gone but the replacement was not
		// written. The caller needs to know the difference from a
		// plain conflict.
		h.logger.Error("reschedule left partial state", "old_id", partialErr.OldID, "error", err)
		writeError(w, http.StatusConflict, "reschedule_partial", err.Error())
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, "slot_taken", err.Error())
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "invalid_field", err.Error())
	case errors.Is(err, ErrDateNotBookable):
		writeError(w, http.StatusBadRequest, "date_not_bookable", err.Error())
	case errors.Is(err, ErrTimeNotInSchedule):
		writeError(w, http.StatusBadRequest, "time_not_in_schedule", err.Error())
	case errors.Is(err, ErrUnknownService):
		writeError(w, http.StatusBadRequest, "unknown_service", err.Error())
	case errors.Is(err, ErrConfirmationRequired):
		writeError(w, http.StatusBadRequest, "confirmation_required", err.Error())
	case errors.Is(err, appointments.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		h.logger.Error("scheduling request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg, Code: code})
}
