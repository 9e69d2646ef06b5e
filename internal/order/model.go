// Package order holds the customer order record, its workflow state machine,
// and the stores that persist it between conversation turns.
package order

import (
	"time"

	"github.com/glowcart/sales-agent/internal/extract"
)

// State is the order workflow state. Transitions are monotonic: no state
// skips a required predecessor and PAYMENT_SENT is terminal.
type State string

const (
	StateNew                  State = "NEW"
	StateCollectingInfo       State = "COLLECTING_INFO"
	StateAwaitingConfirmation State = "AWAITING_CONFIRMATION"
	StatePaymentSent          State = "PAYMENT_SENT"
)

// Turn speakers.
const (
	SpeakerCustomer = "customer"
	SpeakerAgent    = "agent"
)

// Turn is one transcript entry.
type Turn struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Order is the per-customer order record. The store is the single source of
// truth for it across turns; the engine never keeps authoritative state in
// memory between calls.
type Order struct {
	CustomerID      string     `json:"customer_id"`
	State           State      `json:"state"`
	FullName        string     `json:"full_name,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	DeliveryAddress string     `json:"delivery_address,omitempty"`
	AmountDue       float64    `json:"amount_due,omitempty"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	Transcript      []Turn     `json:"transcript,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// New creates an empty order record for a customer.
func New(customerID string) *Order {
	now := time.Now().UTC()
	return &Order{
		CustomerID: customerID,
		State:      StateNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// MergeContact folds extracted contact fields into the record. A field, once
// non-empty, is only overwritten by a strictly more specific (longer) later
// extraction and is never cleared by a failed one. Reports whether anything
// changed.
func (o *Order) MergeContact(f extract.Fields) bool {
	changed := false
	changed = mergeField(&o.FullName, f.Name) || changed
	changed = mergeField(&o.Phone, f.Phone) || changed
	changed = mergeField(&o.Email, f.Email) || changed
	changed = mergeField(&o.DeliveryAddress, f.Address) || changed
	return changed
}

func mergeField(dst *string, candidate string) bool {
	if candidate == "" {
		return false
	}
	if *dst != "" && len(candidate) <= len(*dst) {
		return false
	}
	*dst = candidate
	return true
}

// SetAmount records the amount owed. The amount is frozen once the order
// reaches AWAITING_CONFIRMATION so later re-extractions cannot disturb it.
func (o *Order) SetAmount(amount float64) bool {
	if amount <= 0 {
		return false
	}
	if o.State == StateAwaitingConfirmation || o.State == StatePaymentSent {
		return false
	}
	o.AmountDue = amount
	return true
}

// AppendTurn appends a transcript turn, dropping the oldest turns beyond
// maxTurns (<=0 means unbounded).
func (o *Order) AppendTurn(speaker, text string, maxTurns int) {
	o.Transcript = append(o.Transcript, Turn{
		Speaker: speaker,
		Text:    text,
		At:      time.Now().UTC(),
	})
	if maxTurns > 0 && len(o.Transcript) > maxTurns {
		o.Transcript = o.Transcript[len(o.Transcript)-maxTurns:]
	}
}

// contactFieldLabels is the fixed reporting order for missing fields.
var contactFieldLabels = []struct {
	label string
	value func(*Order) string
}{
	{"full name", func(o *Order) string { return o.FullName }},
	{"phone number", func(o *Order) string { return o.Phone }},
	{"email address", func(o *Order) string { return o.Email }},
	{"delivery address", func(o *Order) string { return o.DeliveryAddress }},
}

// MissingContactFields lists the unfilled contact fields in fixed order:
// name, phone, email, address.
func (o *Order) MissingContactFields() []string {
	var missing []string
	for _, field := range contactFieldLabels {
		if field.value(o) == "" {
			missing = append(missing, field.label)
		}
	}
	return missing
}

// ContactComplete reports whether all four contact fields are present.
func (o *Order) ContactComplete() bool {
	return len(o.MissingContactFields()) == 0
}

// ReadyToConfirm reports whether the order can move to confirmation.
func (o *Order) ReadyToConfirm() bool {
	return o.ContactComplete() && o.AmountDue > 0
}

// AmountKobo converts the amount owed to the gateway's minor currency unit.
func (o *Order) AmountKobo() int64 {
	return int64(o.AmountDue*100 + 0.5)
}
