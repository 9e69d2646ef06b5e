package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowcart/sales-agent/internal/order"
)

type captureSender struct {
	msgs []EmailMessage
	err  error
}

func (c *captureSender) Send(ctx context.Context, msg EmailMessage) error {
	c.msgs = append(c.msgs, msg)
	return c.err
}

func settledOrder() *order.Order {
	o := order.New("cust-1")
	o.FullName, o.Phone = "Ada Obi", "08031234567"
	o.Email, o.DeliveryAddress = "ada@example.com", "12 Allen Avenue"
	o.SetAmount(15000)
	o.PaymentReference = "order_ref_1"
	return o
}

func TestPaymentReceivedEmailsMerchant(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, "owner@glowcart.ng", "Body Na MeatPie Skincare Store", nil)

	err := svc.PaymentReceived(context.Background(), settledOrder(), 1500000)
	require.NoError(t, err)

	require.Len(t, sender.msgs, 1)
	msg := sender.msgs[0]
	assert.Equal(t, "owner@glowcart.ng", msg.To)
	assert.Contains(t, msg.Subject, "₦15,000")
	assert.Contains(t, msg.Subject, "Ada Obi")
	assert.Contains(t, msg.Body, "12 Allen Avenue")
	assert.Contains(t, msg.Body, "order_ref_1")
	assert.Contains(t, msg.Body, "08031234567")
}

func TestPaymentReceivedUnconfiguredIsNoOp(t *testing.T) {
	svc := NewService(nil, "", "Store", nil)
	assert.NoError(t, svc.PaymentReceived(context.Background(), settledOrder(), 100))
}

func TestPaymentReceivedSenderError(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	svc := NewService(sender, "owner@glowcart.ng", "Store", nil)

	err := svc.PaymentReceived(context.Background(), settledOrder(), 100)
	assert.ErrorContains(t, err, "merchant notification")
}
