package linking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mixelka/subgate/internal/database"
	"github.com/mixelka/subgate/pkg/models"
)

// Store is the part of the identity store the flow needs
type Store interface {
	GetLinkByAccount(ctx context.Context, telegramUserID int64) (*models.IdentityLink, error)
	UpsertLink(ctx context.Context, telegramUserID int64, email string) error
}

// ReplyKind identifies which message the bot should answer with
type ReplyKind string

const (
	ReplyOnboarding    ReplyKind = "onboarding"
	ReplyGuidance      ReplyKind = "guidance"
	ReplyAccessGranted ReplyKind = "access_granted"
	ReplyAlreadyLinked ReplyKind = "already_linked"
	ReplyStatusLinked  ReplyKind = "status_linked"
	ReplyStatusNone    ReplyKind = "status_unlinked"
	ReplyEmailTaken    ReplyKind = "email_taken"
	ReplyFailure       ReplyKind = "failure"
)

// Reply is the outcome of one inbound message
type Reply struct {
	Kind  ReplyKind
	Email string // linked email, when one is known
}

// Flow handles inbound private messages
type Flow struct {
	store  Store
	logger *slog.Logger
}

// NewFlow creates a new linking flow
func NewFlow(store Store, logger *slog.Logger) *Flow {
	return &Flow{
		store:  store,
		logger: logger.With("component", "linking"),
	}
}

// Start answers /start and /help
func (f *Flow) Start(ctx context.Context, telegramUserID int64) (Reply, error) {
	link, err := f.currentLink(ctx, telegramUserID)
	if err != nil {
		return Reply{Kind: ReplyFailure}, err
	}
	if link != nil {
		return Reply{Kind: ReplyAlreadyLinked, Email: link.Email}, nil
	}
	return Reply{Kind: ReplyOnboarding}, nil
}

// Status answers /status
func (f *Flow) Status(ctx context.Context, telegramUserID int64) (Reply, error) {
	link, err := f.currentLink(ctx, telegramUserID)
	if err != nil {
		return Reply{Kind: ReplyFailure}, err
	}
	if link != nil {
		return Reply{Kind: ReplyStatusLinked, Email: link.Email}, nil
	}
	return Reply{Kind: ReplyStatusNone}, nil
}

// HandleText answers any other message, linking the email it carries when
// the user has no link yet
func (f *Flow) HandleText(ctx context.Context, telegramUserID int64, text string) (Reply, error) {
	link, err := f.currentLink(ctx, telegramUserID)
	if err != nil {
		return Reply{Kind: ReplyFailure}, err
	}
	if link != nil {
		return Reply{Kind: ReplyAlreadyLinked, Email: link.Email}, nil
	}

	text = strings.TrimSpace(text)
	if IsCommand(text) || !LooksLikeEmail(text) {
		return Reply{Kind: ReplyGuidance}, nil
	}

	err = f.store.UpsertLink(ctx, telegramUserID, text)
	if errors.Is(err, database.ErrEmailTaken) {
		f.logger.Warn("email already linked to another account", "telegram_user_id", telegramUserID, "email", text)
		return Reply{Kind: ReplyEmailTaken, Email: text}, nil
	}
	if err != nil {
		return Reply{Kind: ReplyFailure}, fmt.Errorf("failed to link account: %w", err)
	}

	f.logger.Info("account linked", "telegram_user_id", telegramUserID, "email", text)
	return Reply{Kind: ReplyAccessGranted, Email: text}, nil
}

// currentLink returns nil when the user is not linked
func (f *Flow) currentLink(ctx context.Context, telegramUserID int64) (*models.IdentityLink, error) {
	link, err := f.store.GetLinkByAccount(ctx, telegramUserID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return link, nil
}

// LooksLikeEmail is a deliberately loose check: the text contains both '@' and '.'
func LooksLikeEmail(text string) bool {
	return strings.Contains(text, "@") && strings.Contains(text, ".")
}

// IsCommand reports whether text is a bot command
func IsCommand(text string) bool {
	return strings.HasPrefix(text, "/")
}
