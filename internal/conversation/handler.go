package conversation

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/glowcart/sales-agent/pkg/logging"
)

// Handler exposes the chat webhook over HTTP.
type Handler struct {
	engine *Engine
	logger *logging.Logger
}

// NewHandler creates the chat webhook handler.
func NewHandler(engine *Engine, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// ChatRequest is the inbound webhook payload from a chat channel.
type ChatRequest struct {
	CustomerID string `json:"customer_id"`
	Text       string `json:"text"`
}

// ChatResponse carries the agent's reply back to the channel.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// HandleChatWebhook handles POST /chat/webhook requests.
func (h *Handler) HandleChatWebhook(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode chat webhook", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.CustomerID) == "" || strings.TrimSpace(req.Text) == "" {
		http.Error(w, "customer_id and text are required", http.StatusBadRequest)
		return
	}

	reply, err := h.engine.HandleMessage(r.Context(), req.CustomerID, req.Text)
	if err != nil {
		h.logger.Error("failed to process chat message", "error", err, "customer_id", req.CustomerID)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ChatResponse{Reply: reply})
}
