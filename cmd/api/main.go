package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/gonbot/fisio-scheduler/internal/api/router"
	"github.com/gonbot/fisio-scheduler/internal/appointments"
	"github.com/gonbot/fisio-scheduler/internal/availability"
	"github.com/gonbot/fisio-scheduler/internal/calendar"
	"github.com/gonbot/fisio-scheduler/internal/catalog"
	appconfig "github.com/gonbot/fisio-scheduler/internal/config"
	"github.com/gonbot/fisio-scheduler/internal/conversation"
	"github.com/gonbot/fisio-scheduler/internal/notify"
	"github.com/gonbot/fisio-scheduler/internal/observability/metrics"
	"github.com/gonbot/fisio-scheduler/internal/reminder"
	"github.com/gonbot/fisio-scheduler/internal/reports"
	"github.com/gonbot/fisio-scheduler/internal/scheduling"
	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting fisio-scheduler API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Persistence. The store is the single writer for the whole
	// process: HTTP handlers and the reminder runner share it.
	persistence := appointments.NewRedisPersistence(appointments.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		TLS:      cfg.RedisTLS,
		Key:      cfg.AppointmentsKey,
	})
	store, err := appointments.Open(ctx, persistence, logger)
	if err != nil {
		logger.Error("failed to open appointment store", "error", err)
		os.Exit(1)
	}

	// Domain services.
	cal := calendar.New()
	gen := availability.NewGenerator(cal, availability.DefaultSchedule(), nil)
	cat := catalog.Default()

	schedulingMetrics := metrics.NewSchedulingMetrics(prometheus.DefaultRegisterer)
	reminderMetrics := metrics.NewReminderMetrics(prometheus.DefaultRegisterer)

	schedulingService := scheduling.NewService(store, gen, cat, logger, schedulingMetrics)
	reportsService := reports.NewService(store, cat, logger)

	// Chat history lives in redis next to the appointment collection.
	historyClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	historyStore := conversation.NewHistoryStore(historyClient)

	var classifier conversation.IntentClassifier
	if cfg.GeminiAPIKey != "" {
		gemini, err := conversation.NewGeminiClassifier(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID, conversation.DefaultClinicInfo(), cat)
		if err != nil {
			logger.Error("failed to create gemini classifier", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		classifier = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, using keyword classifier")
		classifier = conversation.NewStaticClassifier()
	}
	conversationService := conversation.NewService(classifier, historyStore, reportsService, logger)

	// Reminder delivery channels.
	notifiers := []reminder.Notifier{notify.NewLogNotifier(logger)}
	if email := notify.NewEmailNotifier(notify.EmailConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
		ToEmail:   cfg.NotifyEmail,
	}, logger); email != nil {
		notifiers = append(notifiers, email)
	}

	scanner := reminder.NewScanner(reminder.ScannerOptions{
		Store:      store,
		Catalog:    cat,
		Notifiers:  notifiers,
		Transcript: historyStore,
		Window:     cfg.ReminderWindow,
		Logger:     logger,
		Metrics:    reminderMetrics,
	})
	runner := reminder.NewRunner(scanner, cfg.ReminderInterval, logger)

	runnerCtx, stopRunner := context.WithCancel(ctx)
	defer stopRunner()
	go runner.Run(runnerCtx)

	r := router.New(&router.Config{
		Logger:              logger,
		SchedulingHandler:   scheduling.NewHandler(schedulingService, cfg.AvailabilityDays, logger),
		ConversationHandler: conversation.NewHandler(conversationService, logger),
		ReportsHandler:      reports.NewHandler(reportsService, logger),
		Catalog:             cat,
		MetricsHandler:      promhttp.Handler(),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopRunner()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
