package membership

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNotMember is returned by a Group when the user is not in the chat
var ErrNotMember = errors.New("user is not a member of the group")

// Outcome result of a revoke attempt
type Outcome string

const (
	OutcomeRemoved    Outcome = "removed"
	OutcomeNotAMember Outcome = "not_a_member"
	OutcomeFailed     Outcome = "failed"
)

// Group is the messaging-side view of the subscriber group
type Group interface {
	// IsMember reports whether the user currently belongs to the chat
	IsMember(ctx context.Context, chatID, userID int64) (bool, error)
	// Kick removes the user without a permanent ban, so they may rejoin later
	Kick(ctx context.Context, chatID, userID int64) error
}

// Enforcer removes users from the subscriber group
type Enforcer struct {
	group   Group
	groupID int64
	logger  *slog.Logger
}

// NewEnforcer creates a new membership enforcer for groupID
func NewEnforcer(group Group, groupID int64, logger *slog.Logger) *Enforcer {
	return &Enforcer{
		group:   group,
		groupID: groupID,
		logger:  logger.With("component", "membership", "group_id", groupID),
	}
}

// Revoke kicks the user from the group. It never retries; failures are
// logged and reported through the outcome only.
func (e *Enforcer) Revoke(ctx context.Context, userID int64) Outcome {
	member, err := e.group.IsMember(ctx, e.groupID, userID)
	if errors.Is(err, ErrNotMember) || (err == nil && !member) {
		e.logger.Info("user not in group, nothing to revoke", "telegram_user_id", userID)
		return OutcomeNotAMember
	}
	if err != nil {
		e.logger.Error("failed to check group membership", "telegram_user_id", userID, "error", err)
		return OutcomeFailed
	}

	err = e.group.Kick(ctx, e.groupID, userID)
	if errors.Is(err, ErrNotMember) {
		e.logger.Info("user left group before kick", "telegram_user_id", userID)
		return OutcomeNotAMember
	}
	if err != nil {
		e.logger.Error("failed to kick user", "telegram_user_id", userID, "error", err)
		return OutcomeFailed
	}

	e.logger.Info("user removed from group", "telegram_user_id", userID)
	return OutcomeRemoved
}
