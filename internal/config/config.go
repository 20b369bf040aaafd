package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// SessionTTL bounds how long an abandoned booking draft survives.
	SessionTTL time.Duration

	// ReminderLead is how far ahead of an appointment the reminder goes out.
	ReminderLead     time.Duration
	ReminderInterval time.Duration

	// WhatsApp gateway (external collaborator: receive text, send text).
	WhatsAppAPIBaseURL string
	WhatsAppAPIToken   string
	WebhookSecret      string

	// Intake form links offered from the menu shortcuts.
	PatientFormURL      string
	PsychologistFormURL string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SessionTTL: getEnvAsDuration("SESSION_TTL", 30*time.Minute),

		ReminderLead:     getEnvAsDuration("REMINDER_LEAD", 2*time.Hour),
		ReminderInterval: getEnvAsDuration("REMINDER_INTERVAL", time.Minute),

		WhatsAppAPIBaseURL: getEnv("WHATSAPP_API_BASE_URL", ""),
		WhatsAppAPIToken:   getEnv("WHATSAPP_API_TOKEN", ""),
		WebhookSecret:      getEnv("WEBHOOK_SECRET", ""),

		PatientFormURL:      getEnv("PATIENT_FORM_URL", "https://forms.gle/WkTUb4GG6GLbA5HJ7"),
		PsychologistFormURL: getEnv("PSYCHOLOGIST_FORM_URL", "https://forms.gle/ea9ZxwVjqqiqGPhZ9"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
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
