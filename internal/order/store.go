package order

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no record exists for the customer.
var ErrNotFound = errors.New("order: not found")

// Store persists order records. Reads and writes must be atomic per customer
// record: no partial field write may be visible to a concurrent reader.
type Store interface {
	// Load returns the stored record for a customer, or ErrNotFound.
	Load(ctx context.Context, customerID string) (*Order, error)

	// Save writes the full record.
	Save(ctx context.Context, o *Order) error

	// FindPendingPayment returns an order in PAYMENT_SENT, not yet marked
	// paid, matching the given email and amount in kobo. Returns ErrNotFound
	// when nothing matches.
	FindPendingPayment(ctx context.Context, email string, amountKobo int64) (*Order, error)
}
