package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glowcart/sales-agent/internal/extract"
)

func TestMergeContactMonotonic(t *testing.T) {
	o := New("cust-1")

	assert.True(t, o.MergeContact(extract.Fields{Email: "ada@example.com"}))
	assert.Equal(t, "ada@example.com", o.Email)

	// A message with no email leaves the stored email unchanged.
	assert.False(t, o.MergeContact(extract.Fields{}))
	assert.Equal(t, "ada@example.com", o.Email)

	// A shorter later extraction never replaces a longer one.
	assert.False(t, o.MergeContact(extract.Fields{Email: "a@b.co"}))
	assert.Equal(t, "ada@example.com", o.Email)

	// A strictly more specific extraction does.
	assert.True(t, o.MergeContact(extract.Fields{Email: "ada.obi@example.com.ng"}))
	assert.Equal(t, "ada.obi@example.com.ng", o.Email)
}

func TestSetAmountFrozenAfterConfirmationStage(t *testing.T) {
	o := New("cust-1")
	assert.False(t, o.SetAmount(0))
	assert.False(t, o.SetAmount(-5))
	assert.True(t, o.SetAmount(15000))

	o.State = StateAwaitingConfirmation
	assert.False(t, o.SetAmount(99))
	assert.InDelta(t, 15000, o.AmountDue, 0.001)

	o.State = StatePaymentSent
	assert.False(t, o.SetAmount(99))
	assert.InDelta(t, 15000, o.AmountDue, 0.001)
}

func TestMissingContactFieldsFixedOrder(t *testing.T) {
	o := New("cust-1")
	assert.Equal(t, []string{"full name", "phone number", "email address", "delivery address"}, o.MissingContactFields())

	o.Phone = "08031234567"
	assert.Equal(t, []string{"full name", "email address", "delivery address"}, o.MissingContactFields())

	o.FullName, o.Email, o.DeliveryAddress = "Ada Obi", "ada@example.com", "12 Allen Avenue"
	assert.Empty(t, o.MissingContactFields())
	assert.True(t, o.ContactComplete())
	assert.False(t, o.ReadyToConfirm())

	o.SetAmount(15000)
	assert.True(t, o.ReadyToConfirm())
}

func TestAppendTurnCapsTranscript(t *testing.T) {
	o := New("cust-1")
	for i := 0; i < 10; i++ {
		o.AppendTurn(SpeakerCustomer, "hello", 4)
	}
	assert.Len(t, o.Transcript, 4)

	o.AppendTurn(SpeakerAgent, "latest", 4)
	assert.Len(t, o.Transcript, 4)
	assert.Equal(t, "latest", o.Transcript[3].Text)
}

func TestAmountKobo(t *testing.T) {
	o := New("cust-1")
	o.SetAmount(15000)
	assert.Equal(t, int64(1500000), o.AmountKobo())

	o = New("cust-2")
	o.SetAmount(12500.50)
	assert.Equal(t, int64(1250050), o.AmountKobo())
}

func TestFormatNaira(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{500, "₦500"},
		{15000, "₦15,000"},
		{1234567, "₦1,234,567"},
		{12500.50, "₦12,500.50"},
		{999.99, "₦999.99"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNaira(tt.amount))
	}
}
