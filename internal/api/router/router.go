package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KevinCFreitas/controle-bot/internal/channel"
	"github.com/KevinCFreitas/controle-bot/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	Webhook        *channel.Webhook
	QR             *channel.QRState
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthCheck)
	r.Get("/qr", qrPage(cfg.QR))
	if cfg.Webhook != nil {
		r.Post("/webhooks/whatsapp", cfg.Webhook.ServeHTTP)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// qrPage serves the pairing page: the QR image once the gateway published
// one, a refresh hint otherwise.
func qrPage(qr *channel.QRState) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		dataURL := ""
		if qr != nil {
			dataURL = qr.DataURL()
		}
		if dataURL == "" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("QR Code ainda não gerado. Aguarde e atualize."))
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `<html>
  <body style="display:flex;height:100vh;align-items:center;justify-content:center;background:#111;color:#eee;font-family:sans-serif">
    <div style="text-align:center">
      <h2>Escaneie o QR Code no WhatsApp</h2>
      <img src="%s" style="width:300px;height:300px;border:8px solid #222;border-radius:12px" />
      <p style="opacity:.7">Se expirar, reinicie o deploy ou aguarde novo QR aparecer nos logs.</p>
    </div>
  </body>
</html>`, dataURL)
	}
}
