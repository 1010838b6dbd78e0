package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AppointmentsKey != "fisio:appointments" {
		t.Errorf("AppointmentsKey = %q", cfg.AppointmentsKey)
	}
	if cfg.ReminderInterval != 60*time.Second {
		t.Errorf("ReminderInterval = %v, want 60s", cfg.ReminderInterval)
	}
	if cfg.ReminderWindow != 24*time.Hour {
		t.Errorf("ReminderWindow = %v, want 24h", cfg.ReminderWindow)
	}
	if cfg.AvailabilityDays != 14 {
		t.Errorf("AvailabilityDays = %d, want 14", cfg.AvailabilityDays)
	}
	if cfg.GeminiModelID != "gemini-2.5-flash" {
		t.Errorf("GeminiModelID = %q", cfg.GeminiModelID)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REMINDER_INTERVAL", "5m")
	t.Setenv("AVAILABILITY_DAYS", "30")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	if cfg.ReminderInterval != 5*time.Minute {
		t.Errorf("ReminderInterval = %v, want 5m", cfg.ReminderInterval)
	}
	if cfg.AvailabilityDays != 30 {
		t.Errorf("AvailabilityDays = %d, want 30", cfg.AvailabilityDays)
	}
	if !cfg.RedisTLS {
		t.Error("RedisTLS should be true")
	}
}
