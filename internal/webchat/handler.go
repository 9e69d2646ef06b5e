// Package webchat serves the browser chat channel over WebSocket.
package webchat

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/glowcart/sales-agent/internal/conversation"
	"github.com/glowcart/sales-agent/pkg/logging"
)

// Handler bridges WebSocket sessions into the conversation engine.
type Handler struct {
	engine   *conversation.Engine
	greeting string
	logger   *logging.Logger
}

// NewHandler creates a web chat handler. The greeting is sent once per
// connection before any customer message.
func NewHandler(engine *conversation.Engine, greeting string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, greeting: greeting, logger: logger}
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string `json:"type"` // "message", "session", "error", "pong"
	Text      string `json:"text,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// HandleWebSocket upgrades to WebSocket and relays messages to the engine.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	customerID := "webchat:" + sessionID

	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "session",
		SessionID: sessionID,
	})
	if h.greeting != "" {
		h.send(conn, h.greeting)
	}

	h.logger.Info("webchat connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}
		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		reply, err := h.engine.HandleMessage(r.Context(), customerID, msg.Text)
		if err != nil {
			h.logger.Error("webchat message failed", "error", err, "session_id", sessionID)
			_ = websocket.JSON.Send(conn, OutboundMessage{
				Type: "error",
				Text: "Sorry, something went wrong. Please try again.",
			})
			continue
		}
		h.send(conn, reply)
	}
}

func (h *Handler) send(conn *websocket.Conn, text string) {
	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "message",
		Text:      text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
