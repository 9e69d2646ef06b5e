package payments

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/glowcart/sales-agent/internal/observability/metrics"
	"github.com/glowcart/sales-agent/internal/order"
	"github.com/glowcart/sales-agent/pkg/logging"
)

// Gateway initializes a hosted checkout session.
type Gateway interface {
	InitializeTransaction(ctx context.Context, email string, amountKobo int64, reference string) (*InitializeResult, error)
}

// Service validates payment requests and mints one fresh reference per
// attempt. It implements the order machine's payment requester.
type Service struct {
	gateway Gateway
	metrics *metrics.ConversationMetrics
	logger  *logging.Logger
}

// NewService creates the payment orchestration service.
func NewService(gateway Gateway, m *metrics.ConversationMetrics, logger *logging.Logger) *Service {
	if gateway == nil {
		panic("payments: gateway required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{gateway: gateway, metrics: m, logger: logger}
}

// RequestPayment initializes a checkout session for the given amount in
// naira. The gateway receives the amount in kobo.
func (s *Service) RequestPayment(ctx context.Context, email string, amount float64) (*order.PaymentResult, error) {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return nil, fmt.Errorf("payments: invalid customer email: %w", err)
	}
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return nil, fmt.Errorf("payments: invalid amount %v", amount)
	}

	reference := "order_" + uuid.NewString()
	amountKobo := int64(amount*100 + 0.5)

	result, err := s.gateway.InitializeTransaction(ctx, email, amountKobo, reference)
	if err != nil {
		s.metrics.IncPaymentRequest("error")
		return nil, err
	}

	s.metrics.IncPaymentRequest("success")
	s.logger.Info("payment session initialized",
		"reference", result.Reference,
		"amount_kobo", amountKobo,
	)
	return &order.PaymentResult{
		AuthorizationURL: result.AuthorizationURL,
		Reference:        result.Reference,
	}, nil
}
