package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gonbot/fisio-scheduler/internal/catalog"
	"github.com/gonbot/fisio-scheduler/internal/conversation"
	httpmiddleware "github.com/gonbot/fisio-scheduler/internal/http/middleware"
	"github.com/gonbot/fisio-scheduler/internal/reports"
	"github.com/gonbot/fisio-scheduler/internal/scheduling"
	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	SchedulingHandler   *scheduling.Handler
	ConversationHandler *conversation.Handler
	ReportsHandler      *reports.Handler
	Catalog             *catalog.Catalog
	MetricsHandler      http.Handler
	AdminAuthSecret     string
	CORSAllowedOrigins  []string
	ChatRatePerSecond   float64
	ChatBurst           int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Get("/services", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"services": cat.All()})
	})

	if cfg.SchedulingHandler != nil {
		r.Get("/availability", cfg.SchedulingHandler.GetAvailability)
		r.Route("/appointments", func(appts chi.Router) {
			appts.Get("/", cfg.SchedulingHandler.ListAppointments)
			appts.Post("/", cfg.SchedulingHandler.CreateAppointment)
			appts.Post("/{id}/reschedule", cfg.SchedulingHandler.RescheduleAppointment)
			appts.Post("/{id}/cancel", cfg.SchedulingHandler.CancelAppointment)
		})
	}

	if cfg.ConversationHandler != nil {
		rate, burst := cfg.ChatRatePerSecond, cfg.ChatBurst
		if rate <= 0 {
			rate = 2
		}
		if burst <= 0 {
			burst = 5
		}
		// Each chat turn costs a model call, so the endpoint is rate
		// limited per IP.
		r.With(httpmiddleware.RateLimit(rate, burst)).Post("/chat", cfg.ConversationHandler.Chat)
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.ReportsHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/reports/revenue", cfg.ReportsHandler.Revenue)
			admin.Get("/reports/daily", cfg.ReportsHandler.Daily)
		})
	}

	return r
}
