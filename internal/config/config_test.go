package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("REMINDER_LEAD", "")
	cfg := Load()
	if cfg.Port != "8000" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.ReminderLead != 2*time.Hour {
		t.Fatalf("expected default reminder lead, got %s", cfg.ReminderLead)
	}
	if cfg.ReminderInterval != time.Minute {
		t.Fatalf("expected default reminder interval, got %s", cfg.ReminderInterval)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.RedisTLS {
		t.Fatalf("expected redis tls disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("REMINDER_LEAD", "90m")
	t.Setenv("REMINDER_INTERVAL", "30s")
	t.Setenv("WHATSAPP_API_BASE_URL", "https://gateway.example.com")
	t.Setenv("WEBHOOK_SECRET", "s3cret")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected redis addr override, got %s", cfg.RedisAddr)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
	if cfg.ReminderLead != 90*time.Minute {
		t.Fatalf("expected reminder lead override, got %s", cfg.ReminderLead)
	}
	if cfg.ReminderInterval != 30*time.Second {
		t.Fatalf("expected reminder interval override, got %s", cfg.ReminderInterval)
	}
	if cfg.WhatsAppAPIBaseURL != "https://gateway.example.com" {
		t.Fatalf("expected gateway override, got %s", cfg.WhatsAppAPIBaseURL)
	}
	if cfg.WebhookSecret != "s3cret" {
		t.Fatalf("expected webhook secret override, got %s", cfg.WebhookSecret)
	}
}
