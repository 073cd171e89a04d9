package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v81"

	"github.com/mixelka/subgate/internal/database"
	"github.com/mixelka/subgate/internal/membership"
	"github.com/mixelka/subgate/pkg/models"
)

// Event types that cost the subscriber their group access
const (
	EventInvoicePaymentFailed stripe.EventType = "invoice.payment_failed"
	EventSubscriptionDeleted  stripe.EventType = "customer.subscription.deleted"
	EventChargeFailed         stripe.EventType = "charge.failed"
	EventChargeDisputeCreated stripe.EventType = "charge.dispute.created"
)

var revokingEvents = map[stripe.EventType]bool{
	EventInvoicePaymentFailed: true,
	EventSubscriptionDeleted:  true,
	EventChargeFailed:         true,
	EventChargeDisputeCreated: true,
}

// IsRevoking reports whether events of type t revoke access
func IsRevoking(t stripe.EventType) bool {
	return revokingEvents[t]
}

// LinkStore resolves subscriber emails to Telegram users
type LinkStore interface {
	GetLinkByEmail(ctx context.Context, email string) (*models.IdentityLink, error)
}

// CustomerDirectory resolves Stripe customer ids to emails
type CustomerDirectory interface {
	CustomerEmail(ctx context.Context, customerID string) (string, error)
}

// Revoker removes a Telegram user from the subscriber group
type Revoker interface {
	Revoke(ctx context.Context, telegramUserID int64) membership.Outcome
}

// Action what the reconciler did with an event
type Action string

const (
	ActionNone    Action = "none"
	ActionRevoked Action = "revoke"
)

// Result describes how one event was handled. It is informational: every
// event that reaches the reconciler is acknowledged to Stripe.
type Result struct {
	EventID        string
	EventType      stripe.EventType
	Email          string
	TelegramUserID int64
	Action         Action
	Reason         string
	Outcome        membership.Outcome
}

// Reconciler handles verified Stripe events. Processed events are not
// recorded; a redelivered event repeats the same kick.
type Reconciler struct {
	links     LinkStore
	customers CustomerDirectory
	revoker   Revoker
	logger    *slog.Logger
}

// NewReconciler creates a new reconciler
func NewReconciler(links LinkStore, customers CustomerDirectory, revoker Revoker, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		links:     links,
		customers: customers,
		revoker:   revoker,
		logger:    logger.With("component", "reconciler"),
	}
}

// Handle reconciles a verified event
func (r *Reconciler) Handle(ctx context.Context, event *stripe.Event) Result {
	res := Result{
		EventID:   event.ID,
		EventType: event.Type,
		Action:    ActionNone,
	}
	log := r.logger.With("event_id", event.ID, "event_type", event.Type)

	var object map[string]interface{}
	if event.Data != nil {
		object = event.Data.Object
	}

	email, customerID := extractEmail(object)
	if email == "" && customerID != "" && r.customers != nil {
		var err error
		email, err = r.customers.CustomerEmail(ctx, customerID)
		if err != nil {
			log.Warn("failed to resolve customer email", "customer_id", customerID, "error", err)
			email = ""
		}
	}
	if email == "" {
		res.Reason = "no email"
		log.Debug("event carries no email, ignoring")
		return res
	}
	res.Email = email

	link, err := r.links.GetLinkByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		res.Reason = "email not linked"
		log.Debug("email not linked, ignoring", "email", email)
		return res
	}
	if err != nil {
		res.Reason = "link lookup failed"
		log.Error("failed to look up link", "email", email, "error", err)
		return res
	}
	res.TelegramUserID = link.TelegramUserID

	if !IsRevoking(event.Type) {
		res.Reason = "event type does not revoke"
		log.Debug("non-revoking event", "telegram_user_id", link.TelegramUserID)
		return res
	}

	res.Action = ActionRevoked
	res.Outcome = r.revoker.Revoke(ctx, link.TelegramUserID)
	attrs := []any{
		"email", email,
		"telegram_user_id", link.TelegramUserID,
		"outcome", res.Outcome,
	}
	if res.Outcome == membership.OutcomeFailed {
		log.Warn("revoke attempted, group access not removed", attrs...)
		return res
	}
	log.Info("revoke attempted", attrs...)
	return res
}

// extractEmail reads the subscriber email from an event object. When only a
// customer id is available it is returned for a lookup.
func extractEmail(object map[string]interface{}) (email, customerID string) {
	if object == nil {
		return "", ""
	}

	if s := stringField(object, "customer_email"); s != "" {
		return s, ""
	}

	switch customer := object["customer"].(type) {
	case string:
		customerID = customer
	case map[string]interface{}:
		if s := stringField(customer, "email"); s != "" {
			return s, ""
		}
		customerID = stringField(customer, "id")
	}

	// customer.* events carry the customer itself
	if stringField(object, "object") == "customer" {
		if s := stringField(object, "email"); s != "" {
			return s, ""
		}
	}

	return "", customerID
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}
