// Package router wires the HTTP surface of the sales agent.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/glowcart/sales-agent/internal/conversation"
	httpmiddleware "github.com/glowcart/sales-agent/internal/http/middleware"
	"github.com/glowcart/sales-agent/internal/leads"
	"github.com/glowcart/sales-agent/internal/payments"
	"github.com/glowcart/sales-agent/internal/webchat"
	"github.com/glowcart/sales-agent/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	ChatHandler     *conversation.Handler
	PaystackWebhook *payments.WebhookHandler
	WebchatHandler  *webchat.Handler
	LeadsHandler    *leads.Handler
	AdminAuthSecret string
	MetricsHandler  http.Handler
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)

	if cfg.ChatHandler != nil {
		r.Post("/chat/webhook", cfg.ChatHandler.HandleChatWebhook)
	}
	if cfg.PaystackWebhook != nil {
		r.Post("/paystack/webhook", cfg.PaystackWebhook.Handle)
	}
	if cfg.WebchatHandler != nil {
		r.Get("/webchat", cfg.WebchatHandler.HandleWebSocket)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.LeadsHandler != nil {
		r.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/admin/leads", cfg.LeadsHandler.ListLeads)
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
