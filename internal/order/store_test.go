package order

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx, "cust-1")
	assert.ErrorIs(t, err, ErrNotFound)

	o := New("cust-1")
	o.FullName = "Ada Obi"
	o.AppendTurn(SpeakerCustomer, "hello", 0)
	require.NoError(t, store.Save(ctx, o))

	got, err := store.Load(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", got.FullName)
	assert.Equal(t, StateNew, got.State)
	require.Len(t, got.Transcript, 1)
	assert.Equal(t, "hello", got.Transcript[0].Text)
}

func TestRedisStorePendingPaymentIndex(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	o := New("cust-1")
	o.Email = "ada@example.com"
	o.SetAmount(15000)
	o.State = StatePaymentSent
	o.PaymentReference = "ref-1"
	require.NoError(t, store.Save(ctx, o))

	got, err := store.FindPendingPayment(ctx, "ada@example.com", 1500000)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", got.CustomerID)

	// No match for a different amount or email.
	_, err = store.FindPendingPayment(ctx, "ada@example.com", 500)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.FindPendingPayment(ctx, "other@example.com", 1500000)
	assert.ErrorIs(t, err, ErrNotFound)

	// Marking the order paid clears the index.
	now := time.Now().UTC()
	got.PaidAt = &now
	require.NoError(t, store.Save(ctx, got))
	_, err = store.FindPendingPayment(ctx, "ada@example.com", 1500000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Load(ctx, "cust-1")
	assert.ErrorIs(t, err, ErrNotFound)

	o := New("cust-1")
	o.Email = "ada@example.com"
	require.NoError(t, store.Save(ctx, o))

	got, err := store.Load(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)

	// Mutating the loaded copy does not leak back into the store.
	got.Email = "changed@example.com"
	again, err := store.Load(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", again.Email)
}

func TestMemoryStoreFindPendingPayment(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	o := New("cust-1")
	o.Email = "ada@example.com"
	o.SetAmount(15000)
	o.State = StatePaymentSent
	require.NoError(t, store.Save(ctx, o))

	got, err := store.FindPendingPayment(ctx, "ada@example.com", 1500000)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", got.CustomerID)

	_, err = store.FindPendingPayment(ctx, "nobody@example.com", 1500000)
	assert.ErrorIs(t, err, ErrNotFound)
}
