package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/glowcart/sales-agent/internal/order"
	"github.com/glowcart/sales-agent/pkg/logging"
)

// Service emails the merchant when an order is settled.
type Service struct {
	sender        EmailSender
	merchantEmail string
	storeName     string
	logger        *logging.Logger
}

// NewService creates the merchant notification service.
func NewService(sender EmailSender, merchantEmail, storeName string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sender:        sender,
		merchantEmail: merchantEmail,
		storeName:     storeName,
		logger:        logger,
	}
}

// PaymentReceived emails the merchant the settled order's details.
func (s *Service) PaymentReceived(ctx context.Context, o *order.Order, amountKobo int64) error {
	if s.sender == nil || s.merchantEmail == "" {
		s.logger.Debug("merchant notification skipped, not configured")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Payment received for %s.\n\n", s.storeName)
	fmt.Fprintf(&b, "Customer: %s\n", o.FullName)
	fmt.Fprintf(&b, "Phone: %s\n", o.Phone)
	fmt.Fprintf(&b, "Email: %s\n", o.Email)
	fmt.Fprintf(&b, "Delivery address: %s\n", o.DeliveryAddress)
	fmt.Fprintf(&b, "Amount: %s\n", order.FormatNaira(float64(amountKobo)/100))
	fmt.Fprintf(&b, "Reference: %s\n", o.PaymentReference)

	msg := EmailMessage{
		To:      s.merchantEmail,
		Subject: fmt.Sprintf("Payment received: %s from %s", order.FormatNaira(float64(amountKobo)/100), o.FullName),
		Body:    b.String(),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: merchant notification: %w", err)
	}
	return nil
}
