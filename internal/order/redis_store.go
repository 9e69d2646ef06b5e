package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var redisTracer = otel.Tracer("salesagent.internal.order.redis")

// RedisStore persists order records in Redis as JSON. A secondary key indexes
// orders awaiting a payment confirmation so the payment webhook can match
// charge events by email and amount.
type RedisStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("order: redis client cannot be nil")
	}
	return &RedisStore{redis: client, tracer: redisTracer}
}

// Load returns the stored record for a customer, or ErrNotFound.
func (s *RedisStore) Load(ctx context.Context, customerID string) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.load")
	defer span.End()

	data, err := s.redis.Get(ctx, orderKey(customerID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("order: load %s: %w", customerID, err)
	}

	var o Order
	if err := json.Unmarshal(data, &o); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("order: decode %s: %w", customerID, err)
	}
	return &o, nil
}

// Save writes the record and maintains the pending-payment index.
func (s *RedisStore) Save(ctx context.Context, o *Order) error {
	ctx, span := s.tracer.Start(ctx, "order.save")
	defer span.End()

	data, err := json.Marshal(o)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("order: encode %s: %w", o.CustomerID, err)
	}
	if err := s.redis.Set(ctx, orderKey(o.CustomerID), data, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("order: persist %s: %w", o.CustomerID, err)
	}

	idx := pendingPaymentKey(o.Email, o.AmountKobo())
	if o.State == StatePaymentSent && o.PaidAt == nil && o.Email != "" {
		if err := s.redis.Set(ctx, idx, o.CustomerID, 0).Err(); err != nil {
			span.RecordError(err)
			return fmt.Errorf("order: index pending payment for %s: %w", o.CustomerID, err)
		}
		return nil
	}
	if o.Email != "" {
		if err := s.redis.Del(ctx, idx).Err(); err != nil {
			span.RecordError(err)
			return fmt.Errorf("order: clear pending payment for %s: %w", o.CustomerID, err)
		}
	}
	return nil
}

// FindPendingPayment resolves the pending-payment index to a full record.
func (s *RedisStore) FindPendingPayment(ctx context.Context, email string, amountKobo int64) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.find_pending_payment")
	defer span.End()

	customerID, err := s.redis.Get(ctx, pendingPaymentKey(email, amountKobo)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("order: pending payment lookup: %w", err)
	}
	return s.Load(ctx, customerID)
}

func orderKey(customerID string) string {
	return fmt.Sprintf("order:%s", customerID)
}

func pendingPaymentKey(email string, amountKobo int64) string {
	return fmt.Sprintf("pending_payment:%s:%d", email, amountKobo)
}
