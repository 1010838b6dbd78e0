package conversation

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

// Handler handles HTTP requests for the chat endpoint.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new chat handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type chatRequest struct {
	PatientID   string `json:"patientId"`
	Message     string `json:"message"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

// Chat handles POST /chat requests.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode chat request", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" && req.ImageBase64 == "" {
		http.Error(w, "message or image required", http.StatusBadRequest)
		return
	}

	result, err := h.service.HandleMessage(r.Context(), req.PatientID, req.Message, req.ImageBase64)
	if err != nil {
		h.logger.Error("chat handling failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
