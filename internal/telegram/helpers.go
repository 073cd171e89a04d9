package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mixelka/subgate/internal/membership"
)

// apiTimeout bounds calls made on behalf of the Stripe webhook
const apiTimeout = 10 * time.Second

// IsMember checks if a user currently belongs to the chat
func (b *Bot) IsMember(ctx context.Context, chatID, userID int64) (bool, error) {
	apiCtx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	member, err := b.bot.GetChatMember(apiCtx, &bot.GetChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil {
		return false, classifyError(err)
	}

	b.logger.Debug("member type", "telegram_user_id", userID, "type", member.Type)
	return isPresent(member), nil
}

// Kick removes a user from the chat without banning them: the ban is lifted
// right away so the user can rejoin after subscribing again.
func (b *Bot) Kick(ctx context.Context, chatID, userID int64) error {
	apiCtx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	if _, err := b.bot.BanChatMember(apiCtx, &bot.BanChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	}); err != nil {
		return fmt.Errorf("ban: %w", classifyError(err))
	}

	if _, err := b.bot.UnbanChatMember(apiCtx, &bot.UnbanChatMemberParams{
		ChatID:       chatID,
		UserID:       userID,
		OnlyIfBanned: true,
	}); err != nil {
		// The user is out of the group either way; they just can't rejoin yet
		b.logger.Warn("failed to lift ban after kick", "telegram_user_id", userID, "error", err)
	}

	return nil
}

// sendMessage sends an HTML message to a chat
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) (*models.Message, error) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}

	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	return b.bot.SendMessage(ctx, params)
}

// isPresent reports whether a chat member is currently in the chat
func isPresent(member *models.ChatMember) bool {
	switch member.Type {
	case models.ChatMemberTypeOwner, models.ChatMemberTypeAdministrator, models.ChatMemberTypeMember:
		return true
	case models.ChatMemberTypeRestricted:
		return member.Restricted != nil && member.Restricted.IsMember
	default:
		return false
	}
}

// notMemberDescriptions are Bot API error descriptions meaning the user is not in the chat
var notMemberDescriptions = []string{
	"user not found",
	"member not found",
	"participant_id_invalid",
	"user_not_participant",
	"user is not a member",
}

// classifyError maps "not a member" Bad Request errors to membership.ErrNotMember
func classifyError(err error) error {
	if !errors.Is(err, bot.ErrorBadRequest) {
		return err
	}

	desc := strings.ToLower(err.Error())
	for _, s := range notMemberDescriptions {
		if strings.Contains(desc, s) {
			return fmt.Errorf("%w: %v", membership.ErrNotMember, err)
		}
	}
	return err
}
