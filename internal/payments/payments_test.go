package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

const testSecret = "whsec_test_secret"

var testPayload = []byte(`{
	"id": "evt_1",
	"object": "event",
	"type": "invoice.payment_failed",
	"data": {"object": {"object": "invoice", "customer_email": "a@b.com", "customer": "cus_1"}}
}`)

func TestParseEventValidSignature(t *testing.T) {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: testPayload,
		Secret:  testSecret,
	})

	event, err := NewEventVerifier(testSecret, true).ParseEvent(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, stripe.EventType("invoice.payment_failed"), event.Type)
	assert.Equal(t, "a@b.com", event.Data.Object["customer_email"])
}

func TestParseEventRejects(t *testing.T) {
	otherSigned := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: testPayload,
		Secret:  "whsec_other",
	})

	tests := []struct {
		name      string
		verify    bool
		payload   []byte
		signature string
	}{
		{name: "missing signature", verify: true, payload: testPayload, signature: ""},
		{name: "wrong secret", verify: true, payload: testPayload, signature: otherSigned.Header},
		{name: "garbage signature", verify: true, payload: testPayload, signature: "t=1,v1=deadbeef"},
		{name: "unverified garbage body", verify: false, payload: []byte("not json")},
		{name: "unverified body without type", verify: false, payload: []byte(`{"id":"evt_1"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEventVerifier(testSecret, tt.verify).ParseEvent(tt.payload, tt.signature)
			assert.ErrorIs(t, err, ErrInvalidEvent)
		})
	}
}

func TestParseEventWithoutVerification(t *testing.T) {
	event, err := NewEventVerifier(testSecret, false).ParseEvent(testPayload, "")
	require.NoError(t, err)
	assert.Equal(t, "cus_1", event.Data.Object["customer"])
}

type fakeCustomers struct {
	customer *stripe.Customer
	err      error
	gotID    string
}

func (f *fakeCustomers) Get(id string, _ *stripe.CustomerParams) (*stripe.Customer, error) {
	f.gotID = id
	return f.customer, f.err
}

func TestCustomerEmail(t *testing.T) {
	ctx := context.Background()

	customers := &fakeCustomers{customer: &stripe.Customer{ID: "cus_1", Email: "paying@example.com"}}
	email, err := NewClientWithCustomers(customers).CustomerEmail(ctx, "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "paying@example.com", email)
	assert.Equal(t, "cus_1", customers.gotID)

	_, err = NewClientWithCustomers(&fakeCustomers{err: errors.New("no such customer")}).CustomerEmail(ctx, "cus_x")
	assert.Error(t, err)

	_, err = NewClientWithCustomers(&fakeCustomers{customer: &stripe.Customer{ID: "cus_2", Deleted: true}}).CustomerEmail(ctx, "cus_2")
	assert.Error(t, err)
}
