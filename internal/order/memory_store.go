package order

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]json.RawMessage)}
}

// Load returns the stored record for a customer, or ErrNotFound.
func (s *MemoryStore) Load(ctx context.Context, customerID string) (*Order, error) {
	s.mu.RLock()
	data, ok := s.orders[customerID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeOrder(data)
}

// Save writes the full record. Records are stored encoded so callers never
// share mutable state with the store.
func (s *MemoryStore) Save(ctx context.Context, o *Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("order: encode record: %w", err)
	}
	s.mu.Lock()
	s.orders[o.CustomerID] = data
	s.mu.Unlock()
	return nil
}

// FindPendingPayment scans for a PAYMENT_SENT order matching email and amount.
func (s *MemoryStore) FindPendingPayment(ctx context.Context, email string, amountKobo int64) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, data := range s.orders {
		o, err := decodeOrder(data)
		if err != nil {
			continue
		}
		if o.State == StatePaymentSent && o.PaidAt == nil && o.Email == email && o.AmountKobo() == amountKobo {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

func decodeOrder(data []byte) (*Order, error) {
	var o Order
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("order: decode record: %w", err)
	}
	return &o, nil
}
