package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var pgTracer = otel.Tracer("salesagent.internal.order.postgres")

// PostgresStore persists order records in PostgreSQL via pgx.
type PostgresStore struct {
	db     PgxQuerier
	tracer trace.Tracer
}

// PgxQuerier is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it in tests.
type PgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(db PgxQuerier) *PostgresStore {
	if db == nil {
		panic("order: pgx pool required")
	}
	return &PostgresStore{db: db, tracer: pgTracer}
}

const loadQuery = `
	SELECT customer_id, state, full_name, phone, email, delivery_address,
	       amount_due, payment_reference, paid_at, transcript, created_at, updated_at
	FROM orders
	WHERE customer_id = $1`

// Load returns the stored record for a customer, or ErrNotFound.
func (s *PostgresStore) Load(ctx context.Context, customerID string) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.load")
	defer span.End()

	row := s.db.QueryRow(ctx, loadQuery, customerID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("order: load %s: %w", customerID, err)
	}
	return o, nil
}

const saveQuery = `
	INSERT INTO orders (
		customer_id, state, full_name, phone, email, delivery_address,
		amount_due, payment_reference, paid_at, transcript, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (customer_id) DO UPDATE SET
		state = EXCLUDED.state,
		full_name = EXCLUDED.full_name,
		phone = EXCLUDED.phone,
		email = EXCLUDED.email,
		delivery_address = EXCLUDED.delivery_address,
		amount_due = EXCLUDED.amount_due,
		payment_reference = EXCLUDED.payment_reference,
		paid_at = EXCLUDED.paid_at,
		transcript = EXCLUDED.transcript,
		updated_at = EXCLUDED.updated_at`

// Save upserts the full record in one statement so no partial write is ever
// visible to a concurrent reader.
func (s *PostgresStore) Save(ctx context.Context, o *Order) error {
	ctx, span := s.tracer.Start(ctx, "order.save")
	defer span.End()

	transcript, err := json.Marshal(o.Transcript)
	if err != nil {
		return fmt.Errorf("order: encode transcript for %s: %w", o.CustomerID, err)
	}
	o.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(ctx, saveQuery,
		o.CustomerID, string(o.State), o.FullName, o.Phone, o.Email, o.DeliveryAddress,
		o.AmountDue, o.PaymentReference, o.PaidAt, transcript, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("order: persist %s: %w", o.CustomerID, err)
	}
	return nil
}

const findPendingQuery = `
	SELECT customer_id, state, full_name, phone, email, delivery_address,
	       amount_due, payment_reference, paid_at, transcript, created_at, updated_at
	FROM orders
	WHERE state = $1 AND paid_at IS NULL AND email = $2 AND ROUND(amount_due * 100) = $3
	LIMIT 1`

// FindPendingPayment returns an unpaid PAYMENT_SENT order matching email and
// amount, or ErrNotFound.
func (s *PostgresStore) FindPendingPayment(ctx context.Context, email string, amountKobo int64) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.find_pending_payment")
	defer span.End()

	row := s.db.QueryRow(ctx, findPendingQuery, string(StatePaymentSent), email, amountKobo)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("order: pending payment lookup: %w", err)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o          Order
		state      string
		transcript []byte
	)
	err := row.Scan(
		&o.CustomerID, &state, &o.FullName, &o.Phone, &o.Email, &o.DeliveryAddress,
		&o.AmountDue, &o.PaymentReference, &o.PaidAt, &transcript, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.State = State(state)
	if len(transcript) > 0 {
		if err := json.Unmarshal(transcript, &o.Transcript); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
	}
	return &o, nil
}
