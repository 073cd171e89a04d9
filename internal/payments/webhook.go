package payments

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

// ErrInvalidEvent is returned for bodies that fail verification or parsing
var ErrInvalidEvent = errors.New("invalid stripe event")

// SignatureHeader is the header Stripe signs webhook deliveries with
const SignatureHeader = "Stripe-Signature"

// EventVerifier authenticates and parses Stripe webhook deliveries
type EventVerifier struct {
	secret string
	verify bool
}

// NewEventVerifier creates a verifier. With verify false the signature is
// not checked and the body is only parsed.
func NewEventVerifier(secret string, verify bool) *EventVerifier {
	return &EventVerifier{secret: secret, verify: verify}
}

// ParseEvent verifies signature against payload and returns the event
func (v *EventVerifier) ParseEvent(payload []byte, signature string) (*stripe.Event, error) {
	var event stripe.Event

	if v.verify {
		var err error
		event, err = webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
			// Events are read loosely from data.object, any API version will do
			IgnoreAPIVersionMismatch: true,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
		}
	} else if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if event.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidEvent)
	}

	return &event, nil
}
