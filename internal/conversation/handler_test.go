package conversation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowcart/sales-agent/internal/order"
)

func newChatHandler(t *testing.T, advisor *stubAdvisor) *Handler {
	t.Helper()
	engine, _, _, _ := newTestEngine(t, advisor)
	return NewHandler(engine, nil)
}

func TestHandleChatWebhook(t *testing.T) {
	h := newChatHandler(t, &stubAdvisor{reply: "Our black soap is ₦3,500."})

	body := `{"customer_id":"cust-1","text":"how much is the black soap?"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleChatWebhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Our black soap is ₦3,500.", resp.Reply)
}

func TestHandleChatWebhookRejectsBadPayload(t *testing.T) {
	h := newChatHandler(t, &stubAdvisor{reply: "hi"})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"customer_id": `},
		{"missing customer id", `{"text":"hello"}`},
		{"missing text", `{"customer_id":"cust-1"}`},
		{"blank text", `{"customer_id":"cust-1","text":"   "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/chat/webhook", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.HandleChatWebhook(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleChatWebhookPersistenceFailure(t *testing.T) {
	engine := NewEngine(EngineOptions{
		Store:   failingStore{},
		Machine: order.NewMachine(&stubPayments{}, nil),
		Advisor: &stubAdvisor{reply: "hi"},
	})
	h := NewHandler(engine, nil)

	body := `{"customer_id":"cust-1","text":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleChatWebhook(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
