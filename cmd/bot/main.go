package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/KevinCFreitas/controle-bot/internal/api/router"
	"github.com/KevinCFreitas/controle-bot/internal/appointment"
	appconfig "github.com/KevinCFreitas/controle-bot/internal/config"
	"github.com/KevinCFreitas/controle-bot/internal/channel"
	"github.com/KevinCFreitas/controle-bot/internal/dialogue"
	"github.com/KevinCFreitas/controle-bot/internal/observability/metrics"
	"github.com/KevinCFreitas/controle-bot/internal/reminder"
	"github.com/KevinCFreitas/controle-bot/internal/session"
	"github.com/KevinCFreitas/controle-bot/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	var logger *logging.Logger
	if cfg.Env == "development" {
		logger = logging.NewText(cfg.LogLevel)
	} else {
		logger = logging.New(cfg.LogLevel)
	}
	logger.Info("starting controle-bot", "env", cfg.Env, "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	if err := appointment.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	botMetrics := metrics.NewBotMetrics(registry)

	sessions := buildSessionStore(ctx, cfg, logger)
	appointments := appointment.NewStore(pool)

	links := dialogue.FormLinks{
		Patient:      cfg.PatientFormURL,
		Psychologist: cfg.PsychologistFormURL,
	}
	engine := dialogue.NewEngine(sessions, appointments, links, logger, botMetrics)

	sender := channel.NewHTTPSender(cfg.WhatsAppAPIBaseURL, cfg.WhatsAppAPIToken, logger, botMetrics)
	qr := channel.NewQRState()
	webhook := channel.NewWebhook(cfg.WebhookSecret, engine, sender, sessions, qr, logger, botMetrics)

	dispatcher := reminder.NewDispatcher(appointments, sender, logger, botMetrics).
		WithLead(cfg.ReminderLead).
		WithInterval(cfg.ReminderInterval)
	go dispatcher.Run(ctx)

	r := router.New(&router.Config{
		Logger:         logger,
		Webhook:        webhook,
		QR:             qr,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
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

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildSessionStore prefers Redis so dialogues survive restarts, falling back
// to the in-memory store when Redis is absent or unreachable.
func buildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) session.Store {
	if cfg.RedisAddr == "" {
		logger.Info("sessions: using in-memory store")
		return session.NewMemoryStore()
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("sessions: redis not available, using in-memory store", "error", err)
		return session.NewMemoryStore()
	}

	logger.Info("sessions: using redis store", "addr", cfg.RedisAddr)
	return session.NewRedisStore(client, cfg.SessionTTL)
}
