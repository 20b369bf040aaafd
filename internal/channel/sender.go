package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/KevinCFreitas/controle-bot/internal/observability/metrics"
	"github.com/KevinCFreitas/controle-bot/pkg/logging"
)

var sendTracer = otel.Tracer("controlebot.internal.channel.send")

// HTTPSender posts outbound messages to the WhatsApp gateway's REST API.
type HTTPSender struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.BotMetrics
}

// NewHTTPSender builds a sender with sane defaults.
func NewHTTPSender(baseURL, token string, logger *logging.Logger, m *metrics.BotMetrics) *HTTPSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &HTTPSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:  logger,
		metrics: m,
	}
}

var _ Sender = (*HTTPSender)(nil)

type sendPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Send dispatches a single message, retrying transient gateway failures.
func (s *HTTPSender) Send(ctx context.Context, to, body string) error {
	if s.baseURL == "" {
		return errors.New("channel: gateway base URL missing")
	}
	if strings.TrimSpace(to) == "" {
		return errors.New("channel: to required")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("channel: body required")
	}

	ctx, span := sendTracer.Start(ctx, "channel.send")
	defer span.End()
	span.SetAttributes(attribute.String("controlebot.to", to))

	payload, err := json.Marshal(sendPayload{To: to, Body: body})
	if err != nil {
		return fmt.Errorf("channel: encode payload: %w", err)
	}
	endpoint := s.baseURL + "/messages"

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			lastErr = err
			break
		}
		req.Header.Set("Content-Type", "application/json")
		if s.token != "" {
			req.Header.Set("Authorization", "Bearer "+s.token)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			s.logger.Warn("channel: send attempt failed", "attempt", attempt, "error", err)
			continue
		}
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			s.metrics.ObserveOutbound("sent")
			return nil
		}
		lastErr = fmt.Errorf("channel: gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		if resp.StatusCode < 500 {
			// Client errors will not heal on retry.
			break
		}
		s.logger.Warn("channel: gateway error, retrying", "attempt", attempt, "status", resp.StatusCode)
	}

	s.metrics.ObserveOutbound("failed")
	span.RecordError(lastErr)
	return lastErr
}
