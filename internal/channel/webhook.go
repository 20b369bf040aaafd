package channel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/KevinCFreitas/controle-bot/internal/observability/metrics"
	"github.com/KevinCFreitas/controle-bot/pkg/logging"
)

var webhookTracer = otel.Tracer("controlebot.internal.channel.webhook")

const secretHeader = "X-Webhook-Secret"

// MessageHandler consumes one inbound text and produces the reply.
// Satisfied by *dialogue.Engine.
type MessageHandler interface {
	HandleMessage(ctx context.Context, sender, body string) (string, error)
}

// SessionClearer drops every in-flight dialogue. Satisfied by session.Store.
type SessionClearer interface {
	Clear(ctx context.Context) error
}

// Event is the gateway's webhook payload.
type Event struct {
	// Event is one of "message", "qr", "connected", "disconnected".
	Event string `json:"event"`
	// From is the sender's channel address, set for message events.
	From string `json:"from"`
	// Body is the raw message text, set for message events.
	Body string `json:"body"`
	// Payload carries the raw QR pairing string for qr events.
	Payload string `json:"payload"`
}

// Webhook handles gateway webhook requests.
type Webhook struct {
	secret   string
	engine   MessageHandler
	sender   Sender
	sessions SessionClearer
	qr       *QRState
	logger   *logging.Logger
	metrics  *metrics.BotMetrics
}

// NewWebhook creates a gateway webhook handler.
func NewWebhook(secret string, engine MessageHandler, sender Sender, sessions SessionClearer, qr *QRState, logger *logging.Logger, m *metrics.BotMetrics) *Webhook {
	if engine == nil {
		panic("channel: engine cannot be nil")
	}
	if sender == nil {
		panic("channel: sender cannot be nil")
	}
	if sessions == nil {
		panic("channel: session clearer cannot be nil")
	}
	if qr == nil {
		qr = NewQRState()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Webhook{
		secret:   secret,
		engine:   engine,
		sender:   sender,
		sessions: sessions,
		qr:       qr,
		logger:   logger,
		metrics:  m,
	}
}

// ServeHTTP handles POST /webhooks/whatsapp requests.
func (h *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := webhookTracer.Start(r.Context(), "channel.webhook")
	defer span.End()

	if h.secret != "" && r.Header.Get(secretHeader) != h.secret {
		h.logger.Warn("channel: invalid webhook secret")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		span.RecordError(errors.New("invalid webhook secret"))
		return
	}

	var event Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.logger.Error("channel: failed to parse webhook", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		span.RecordError(err)
		return
	}
	span.SetAttributes(attribute.String("controlebot.event", event.Event))

	switch event.Event {
	case "message":
		h.handleMessage(ctx, w, event)
	case "qr":
		h.handleQR(w, event)
	case "connected":
		h.logger.Info("channel: connected")
		h.qr.Reset()
		w.WriteHeader(http.StatusNoContent)
	case "disconnected":
		// Blunt recovery: every in-flight booking is discarded rather than
		// trying to resume mid-dialogue after the channel comes back.
		if err := h.sessions.Clear(ctx); err != nil {
			h.logger.Error("channel: clear sessions on disconnect", "error", err)
			span.RecordError(err)
		}
		h.logger.Info("channel: disconnected, sessions cleared")
		w.WriteHeader(http.StatusNoContent)
	default:
		h.logger.Warn("channel: unknown webhook event", "event", event.Event)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Webhook) handleMessage(ctx context.Context, w http.ResponseWriter, event Event) {
	from := strings.TrimSpace(event.From)
	if from == "" || event.Body == "" {
		h.logger.Error("channel: message event missing from or body")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	reply, err := h.engine.HandleMessage(ctx, from, event.Body)
	if err != nil {
		// Per-message failures stay isolated to this sender; the webhook
		// acknowledges so the gateway does not replay the event.
		h.logger.Error("channel: dialogue failed", "from", from, "error", err)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if reply != "" {
		if err := h.sender.Send(ctx, from, reply); err != nil {
			h.logger.Error("channel: reply send failed", "from", from, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Webhook) handleQR(w http.ResponseWriter, event Event) {
	if strings.TrimSpace(event.Payload) == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := h.qr.Update(event.Payload); err != nil {
		h.logger.Error("channel: failed to render pairing qr", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.logger.Info("channel: new pairing qr published")
	w.WriteHeader(http.StatusNoContent)
}
