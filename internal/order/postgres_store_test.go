package order

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderColumns() []string {
	return []string{
		"customer_id", "state", "full_name", "phone", "email", "delivery_address",
		"amount_due", "payment_reference", "paid_at", "transcript", "created_at", "updated_at",
	}
}

func TestPostgresStoreLoad(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows(orderColumns()).AddRow(
		"cust-1", "COLLECTING_INFO", "Ada Obi", "08031234567", "ada@example.com", "12 Allen Avenue",
		15000.0, "", (*time.Time)(nil), []byte(`[{"speaker":"customer","text":"hi","at":"2026-01-02T15:04:05Z"}]`), now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs("cust-1").
		WillReturnRows(rows)

	store := NewPostgresStore(mock)
	o, err := store.Load(context.Background(), "cust-1")
	require.NoError(t, err)

	assert.Equal(t, StateCollectingInfo, o.State)
	assert.Equal(t, "Ada Obi", o.FullName)
	assert.InDelta(t, 15000, o.AmountDue, 0.001)
	require.Len(t, o.Transcript, 1)
	assert.Equal(t, "hi", o.Transcript[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(orderColumns()))

	store := NewPostgresStore(mock)
	_, err = store.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveUpserts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgresStore(mock)
	o := New("cust-1")
	o.FullName = "Ada Obi"
	require.NoError(t, store.Save(context.Background(), o))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreFindPendingPayment(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows(orderColumns()).AddRow(
		"cust-1", "PAYMENT_SENT", "Ada Obi", "08031234567", "ada@example.com", "12 Allen Avenue",
		15000.0, "order_ref_1", (*time.Time)(nil), []byte("[]"), now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs("PAYMENT_SENT", "ada@example.com", int64(1500000)).
		WillReturnRows(rows)

	store := NewPostgresStore(mock)
	o, err := store.FindPendingPayment(context.Background(), "ada@example.com", 1500000)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", o.CustomerID)
	assert.Equal(t, StatePaymentSent, o.State)
	assert.Nil(t, o.PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
