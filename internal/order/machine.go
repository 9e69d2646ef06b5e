package order

import (
	"context"
	"strings"

	"github.com/glowcart/sales-agent/internal/extract"
	"github.com/glowcart/sales-agent/pkg/logging"
)

// PaymentResult is what a successful payment request yields.
type PaymentResult struct {
	AuthorizationURL string
	Reference        string
}

// PaymentRequester issues a payment-collection request to the gateway.
// Implementations mint a fresh reference per call and must only return a nil
// error on a verified success response.
type PaymentRequester interface {
	RequestPayment(ctx context.Context, email string, amount float64) (*PaymentResult, error)
}

// Input is one turn's worth of evidence for the machine.
type Input struct {
	// Message is the latest customer utterance.
	Message string
	// Advisory is the advisory generator's reply for this turn, or empty
	// when the advisor was not consulted or failed.
	Advisory string
}

// Machine drives the order workflow. It only advances on affirmative
// evidence and never infers consent; the PAYMENT_SENT state short-circuits
// before the payment requester can ever be reached again.
type Machine struct {
	payments PaymentRequester
	logger   *logging.Logger
}

// NewMachine creates the order state machine.
func NewMachine(payments PaymentRequester, logger *logging.Logger) *Machine {
	if payments == nil {
		panic("order: payment requester required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Machine{payments: payments, logger: logger}
}

// Step consumes one customer turn, mutates the record, and returns the reply
// to send. The caller owns persistence.
func (m *Machine) Step(ctx context.Context, o *Order, in Input) string {
	switch o.State {
	case StatePaymentSent:
		return replyAlreadyIssued

	case StateAwaitingConfirmation:
		return m.stepAwaitingConfirmation(ctx, o, in)

	case StateCollectingInfo:
		m.absorb(o, in)
		return m.stepCollecting(o)

	default: // StateNew
		absorbed := m.absorb(o, in)
		if !absorbed && !extract.BuyIntent(in.Message) {
			if in.Advisory == "" {
				return replyAdvisorUnavailable
			}
			return in.Advisory
		}
		o.State = StateCollectingInfo
		return m.stepCollecting(o)
	}
}

// absorb merges extracted contact fields and any resolved amount into the
// record. The amount is taken from the customer message first, then from the
// advisory text (useful when the advisor states a computed total).
func (m *Machine) absorb(o *Order, in Input) bool {
	changed := o.MergeContact(extract.Contact(in.Message))
	if amount, ok := extract.Amount(in.Message); ok {
		changed = o.SetAmount(amount) || changed
	} else if amount, ok := extract.Amount(in.Advisory); ok {
		changed = o.SetAmount(amount) || changed
	}
	return changed
}

func (m *Machine) stepCollecting(o *Order) string {
	if missing := o.MissingContactFields(); len(missing) > 0 {
		return replyMissingFields(missing)
	}
	if o.AmountDue <= 0 {
		return replyAskAmount
	}
	o.State = StateAwaitingConfirmation
	return replyRecap(o)
}

func (m *Machine) stepAwaitingConfirmation(ctx context.Context, o *Order, in Input) string {
	if !extract.ConfirmIntent(in.Message) {
		// Contact fields may still be refined here; the amount is frozen.
		o.MergeContact(extract.Contact(in.Message))
		return replyRecap(o)
	}

	result, err := m.payments.RequestPayment(ctx, o.Email, o.AmountDue)
	if err != nil {
		m.logger.Error("payment request failed",
			"customer_id", o.CustomerID,
			"error", err,
		)
		return replyPaymentFailed
	}

	o.State = StatePaymentSent
	o.PaymentReference = result.Reference
	m.logger.Info("payment link issued",
		"customer_id", o.CustomerID,
		"reference", result.Reference,
	)
	return replyPaymentLink(result.AuthorizationURL)
}

const (
	replyAlreadyIssued = "Your payment link has already been sent. Once payment is confirmed, we'll process your order — reply here if you need any help."

	replyAskAmount = "I have all your delivery details. What's the total amount for your order?"

	replyPaymentFailed = "Sorry, something went wrong while generating your payment link. Please reply to try again, or contact support if the problem persists."

	replyAdvisorUnavailable = "Sorry, I'm having trouble responding right now. Please try again in a moment."
)

func replyMissingFields(missing []string) string {
	return "To complete your order, I'll need your " + joinList(missing) + "."
}

func replyRecap(o *Order) string {
	var b strings.Builder
	b.WriteString("Got it! I have your name as ")
	b.WriteString(o.FullName)
	b.WriteString(", phone ")
	b.WriteString(o.Phone)
	b.WriteString(", email ")
	b.WriteString(o.Email)
	b.WriteString(", and address ")
	b.WriteString(o.DeliveryAddress)
	b.WriteString(". Your total is ")
	b.WriteString(FormatNaira(o.AmountDue))
	b.WriteString(". Reply \"yes\" to confirm and receive your payment link.")
	return b.String()
}

func replyPaymentLink(url string) string {
	return "Here is your secure payment link:\n" + url + "\nOnce payment is confirmed, we'll process your order and send you a confirmation."
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
