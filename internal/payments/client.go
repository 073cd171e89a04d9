package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// StripeCustomers is the part of the Stripe Customers API we use
type StripeCustomers interface {
	Get(id string, params *stripe.CustomerParams) (*stripe.Customer, error)
}

// Client looks up Stripe customers
type Client struct {
	customers StripeCustomers
}

// NewClient creates a Stripe client from the secret key
func NewClient(secretKey string) *Client {
	sc := client.New(secretKey, nil)
	return NewClientWithCustomers(sc.Customers)
}

// NewClientWithCustomers creates a client over an existing Customers API
func NewClientWithCustomers(customers StripeCustomers) *Client {
	return &Client{customers: customers}
}

// CustomerEmail returns the email stored on a Stripe customer
func (c *Client) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	customer, err := c.customers.Get(customerID, params)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve customer %s: %w", customerID, err)
	}
	if customer.Deleted {
		return "", fmt.Errorf("customer %s is deleted", customerID)
	}

	return customer.Email, nil
}
