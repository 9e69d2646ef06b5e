package payments

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

	"github.com/glowcart/sales-agent/pkg/logging"
)

var paystackTracer = otel.Tracer("salesagent.internal.payments.paystack")

// PaystackClient talks to the Paystack REST API.
type PaystackClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewPaystackClient creates a client against the live Paystack host.
func NewPaystackClient(secretKey string, logger *logging.Logger) *PaystackClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &PaystackClient{
		secretKey:  secretKey,
		baseURL:    "https://api.paystack.co",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// WithBaseURL overrides the Paystack API host (e.g., a test server).
func (c *PaystackClient) WithBaseURL(baseURL string) *PaystackClient {
	if baseURL == "" {
		return c
	}
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type initializeRequest struct {
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

type initializeEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitializeResult is a verified successful transaction initialization.
type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// InitializeTransaction creates a hosted checkout session. The amount is in
// kobo, Paystack's minor currency unit.
func (c *PaystackClient) InitializeTransaction(ctx context.Context, email string, amountKobo int64, reference string) (*InitializeResult, error) {
	if c.secretKey == "" {
		return nil, errors.New("payments: paystack secret key not configured")
	}

	ctx, span := paystackTracer.Start(ctx, "paystack.initialize")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("salesagent.amount_kobo", amountKobo),
		attribute.String("salesagent.reference", reference),
	)

	body, err := json.Marshal(initializeRequest{
		Email:     email,
		Amount:    amountKobo,
		Reference: reference,
	})
	if err != nil {
		return nil, fmt.Errorf("payments: encode initialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("payments: build initialize request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("payments: paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("payments: read paystack response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("paystack initialize rejected",
			"status_code", resp.StatusCode,
			"reference", reference,
		)
		return nil, fmt.Errorf("payments: paystack returned status %d", resp.StatusCode)
	}

	var envelope initializeEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("payments: decode paystack response: %w", err)
	}
	if !envelope.Status {
		return nil, fmt.Errorf("payments: paystack declined initialization: %s", envelope.Message)
	}
	if envelope.Data.AuthorizationURL == "" {
		return nil, errors.New("payments: paystack response missing authorization url")
	}

	result := &InitializeResult{
		AuthorizationURL: envelope.Data.AuthorizationURL,
		AccessCode:       envelope.Data.AccessCode,
		Reference:        envelope.Data.Reference,
	}
	if result.Reference == "" {
		result.Reference = reference
	}
	return result, nil
}
