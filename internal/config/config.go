package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Appointment persistence (redis key-value store)
	RedisAddr       string
	RedisPassword   string
	RedisTLS        bool
	AppointmentsKey string

	// Availability
	AvailabilityDays int

	// Reminder scanner
	ReminderInterval time.Duration
	ReminderWindow   time.Duration

	// Gemini intent classifier
	GeminiAPIKey  string
	GeminiModelID string

	// SendGrid reminder delivery
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	NotifyEmail       string

	// Admin report endpoints
	AdminJWTSecret string

	// HTTP surface
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisTLS:        getEnvAsBool("REDIS_TLS", false),
		AppointmentsKey: getEnv("APPOINTMENTS_KEY", "fisio:appointments"),

		AvailabilityDays: getEnvAsInt("AVAILABILITY_DAYS", 14),

		ReminderInterval: getEnvAsDuration("REMINDER_INTERVAL", 60*time.Second),
		ReminderWindow:   getEnvAsDuration("REMINDER_WINDOW", 24*time.Hour),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Gon - Fisioterapia"),
		NotifyEmail:       getEnv("NOTIFY_EMAIL", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable
func getEnvAsSlice(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
