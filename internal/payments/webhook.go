package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/glowcart/sales-agent/internal/observability/metrics"
	"github.com/glowcart/sales-agent/internal/order"
	"github.com/glowcart/sales-agent/pkg/logging"
)

// PaidNotifier tells the merchant a payment landed. Notification failures
// never fail the webhook.
type PaidNotifier interface {
	PaymentReceived(ctx context.Context, o *order.Order, amountKobo int64) error
}

// WebhookHandler settles orders from Paystack charge events.
type WebhookHandler struct {
	secretKey string
	store     order.Store
	notifier  PaidNotifier
	metrics   *metrics.ConversationMetrics
	logger    *logging.Logger
}

// NewWebhookHandler creates the Paystack webhook handler.
func NewWebhookHandler(secretKey string, store order.Store, notifier PaidNotifier, m *metrics.ConversationMetrics, logger *logging.Logger) *WebhookHandler {
	if store == nil {
		panic("payments: order store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		secretKey: secretKey,
		store:     store,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
	}
}

type chargeEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		PaidAt    string `json:"paid_at"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

// Handle handles POST /paystack/webhook requests.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.ObserveWebhookDuration("/paystack/webhook", time.Since(start).Seconds())
	}()

	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if !verifyPaystackSignature(h.secretKey, payload, r.Header.Get("x-paystack-signature")) {
		h.logger.Warn("paystack webhook signature rejected")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var evt chargeEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		h.logger.Error("failed to decode paystack event", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// Only successful charges settle an order. Everything else is
	// acknowledged so Paystack stops retrying.
	if evt.Event != "charge.success" {
		w.WriteHeader(http.StatusOK)
		return
	}

	o, err := h.store.FindPendingPayment(r.Context(), evt.Data.Customer.Email, evt.Data.Amount)
	if errors.Is(err, order.ErrNotFound) {
		h.logger.Warn("charge matched no pending order",
			"reference", evt.Data.Reference,
			"amount_kobo", evt.Data.Amount,
		)
		w.WriteHeader(http.StatusOK)
		return
	}
	if err != nil {
		h.logger.Error("pending order lookup failed", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	paidAt := time.Now().UTC()
	if parsed, perr := time.Parse(time.RFC3339, evt.Data.PaidAt); perr == nil {
		paidAt = parsed.UTC()
	}
	o.PaidAt = &paidAt

	if err := h.store.Save(r.Context(), o); err != nil {
		h.logger.Error("failed to mark order paid", "error", err, "customer_id", o.CustomerID)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("order settled",
		"customer_id", o.CustomerID,
		"reference", evt.Data.Reference,
		"amount_kobo", evt.Data.Amount,
	)

	if h.notifier != nil {
		if err := h.notifier.PaymentReceived(r.Context(), o, evt.Data.Amount); err != nil {
			h.logger.Error("merchant notification failed", "error", err, "customer_id", o.CustomerID)
		}
	}
	w.WriteHeader(http.StatusOK)
}

func verifyPaystackSignature(key string, body []byte, header string) bool {
	if key == "" || header == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(key))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(header), []byte(expected))
}
