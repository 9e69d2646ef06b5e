package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowcart/sales-agent/internal/order"
)

const webhookSecret = "sk_test_secret"

type stubNotifier struct {
	calls      int
	lastAmount int64
	err        error
}

func (s *stubNotifier) PaymentReceived(ctx context.Context, o *order.Order, amountKobo int64) error {
	s.calls++
	s.lastAmount = amountKobo
	return s.err
}

func signedRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	mac := hmac.New(sha512.New, []byte(webhookSecret))
	mac.Write([]byte(body))
	req := httptest.NewRequest(http.MethodPost, "/paystack/webhook", bytes.NewReader([]byte(body)))
	req.Header.Set("x-paystack-signature", hex.EncodeToString(mac.Sum(nil)))
	return req
}

func pendingOrder(t *testing.T, store order.Store) *order.Order {
	t.Helper()
	o := order.New("cust-1")
	o.FullName, o.Phone = "Ada Obi", "08031234567"
	o.Email, o.DeliveryAddress = "ada@example.com", "12 Allen Avenue"
	o.SetAmount(15000)
	o.State = order.StatePaymentSent
	o.PaymentReference = "order_ref_1"
	require.NoError(t, store.Save(context.Background(), o))
	return o
}

const chargeSuccessBody = `{
	"event": "charge.success",
	"data": {
		"reference": "order_ref_1",
		"amount": 1500000,
		"currency": "NGN",
		"paid_at": "2026-08-30T12:00:00Z",
		"customer": {"email": "ada@example.com"}
	}
}`

func TestWebhookSettlesMatchingOrder(t *testing.T) {
	store := order.NewMemoryStore()
	pendingOrder(t, store)
	notifier := &stubNotifier{}
	h := NewWebhookHandler(webhookSecret, store, notifier, nil, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, signedRequest(t, chargeSuccessBody))
	require.Equal(t, http.StatusOK, rec.Code)

	o, err := store.Load(context.Background(), "cust-1")
	require.NoError(t, err)
	require.NotNil(t, o.PaidAt)
	assert.Equal(t, "2026-08-30T12:00:00Z", o.PaidAt.Format("2006-01-02T15:04:05Z"))
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, int64(1500000), notifier.lastAmount)

	// Settled orders leave the pending index, so a duplicate delivery is a
	// harmless acknowledgement.
	notifier.calls = 0
	rec = httptest.NewRecorder()
	h.Handle(rec, signedRequest(t, chargeSuccessBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, notifier.calls)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	store := order.NewMemoryStore()
	pendingOrder(t, store)
	h := NewWebhookHandler(webhookSecret, store, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/paystack/webhook", bytes.NewReader([]byte(chargeSuccessBody)))
	req.Header.Set("x-paystack-signature", "deadbeef")
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	o, err := store.Load(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Nil(t, o.PaidAt)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	h := NewWebhookHandler(webhookSecret, order.NewMemoryStore(), nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/paystack/webhook", bytes.NewReader([]byte(chargeSuccessBody)))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	store := order.NewMemoryStore()
	pendingOrder(t, store)
	notifier := &stubNotifier{}
	h := NewWebhookHandler(webhookSecret, store, notifier, nil, nil)

	body := `{"event": "transfer.success", "data": {"amount": 1500000, "customer": {"email": "ada@example.com"}}}`
	rec := httptest.NewRecorder()
	h.Handle(rec, signedRequest(t, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, notifier.calls)

	o, err := store.Load(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Nil(t, o.PaidAt)
}

func TestWebhookAcknowledgesUnmatchedCharge(t *testing.T) {
	store := order.NewMemoryStore()
	notifier := &stubNotifier{}
	h := NewWebhookHandler(webhookSecret, store, notifier, nil, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, signedRequest(t, chargeSuccessBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, notifier.calls)
}

func TestWebhookNotifierFailureStillSucceeds(t *testing.T) {
	store := order.NewMemoryStore()
	pendingOrder(t, store)
	notifier := &stubNotifier{err: assert.AnError}
	h := NewWebhookHandler(webhookSecret, store, notifier, nil, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, signedRequest(t, chargeSuccessBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	o, err := store.Load(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.NotNil(t, o.PaidAt)
}
