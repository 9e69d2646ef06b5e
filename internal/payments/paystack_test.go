package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTransaction(t *testing.T) {
	var gotAuth string
	var gotReq initializeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Authorization URL created",
			"data": {
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code": "abc123",
				"reference": "order_ref_1"
			}
		}`))
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_xyz", nil).WithBaseURL(server.URL)
	result, err := client.InitializeTransaction(context.Background(), "ada@example.com", 1500000, "order_ref_1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_xyz", gotAuth)
	assert.Equal(t, "ada@example.com", gotReq.Email)
	assert.Equal(t, int64(1500000), gotReq.Amount)
	assert.Equal(t, "order_ref_1", gotReq.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc123", result.AuthorizationURL)
	assert.Equal(t, "order_ref_1", result.Reference)
}

func TestInitializeTransactionDeclined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": false, "message": "Invalid key"}`))
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_xyz", nil).WithBaseURL(server.URL)
	_, err := client.InitializeTransaction(context.Background(), "ada@example.com", 100, "ref")
	assert.ErrorContains(t, err, "declined")
}

func TestInitializeTransactionHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewPaystackClient("sk_test_xyz", nil).WithBaseURL(server.URL)
	_, err := client.InitializeTransaction(context.Background(), "ada@example.com", 100, "ref")
	assert.ErrorContains(t, err, "status 502")
}

func TestInitializeTransactionRequiresKey(t *testing.T) {
	client := NewPaystackClient("", nil)
	_, err := client.InitializeTransaction(context.Background(), "ada@example.com", 100, "ref")
	assert.ErrorContains(t, err, "secret key")
}
