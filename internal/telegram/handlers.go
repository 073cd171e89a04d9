package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mixelka/subgate/internal/linking"
)

// privateSender returns the message of a private chat update, or nil for
// anything else. The bot stays silent in groups.
func privateSender(update *models.Update) *models.Message {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}
	if msg.Chat.Type != "private" {
		return nil
	}
	return msg
}

// handleStart handles /start and /help
func (b *Bot) handleStart(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	msg := privateSender(update)
	if msg == nil {
		return
	}

	reply, err := b.flow.Start(ctx, msg.From.ID)
	b.respond(ctx, msg, reply, err)
}

// handleStatus handles /status
func (b *Bot) handleStatus(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	msg := privateSender(update)
	if msg == nil {
		return
	}

	reply, err := b.flow.Status(ctx, msg.From.ID)
	b.respond(ctx, msg, reply, err)
}

// defaultHandler handles every other text message
func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	msg := privateSender(update)
	if msg == nil || msg.Text == "" {
		return
	}

	if linking.IsCommand(msg.Text) {
		b.logger.Debug("unknown command", "text", msg.Text)
	}

	reply, err := b.flow.HandleText(ctx, msg.From.ID, msg.Text)
	b.respond(ctx, msg, reply, err)
}

// respond sends the rendered reply. A flow error never produces a confirmation.
func (b *Bot) respond(ctx context.Context, msg *models.Message, reply linking.Reply, err error) {
	if err != nil {
		b.logger.Error("failed to handle message", "telegram_user_id", msg.From.ID, "error", err)
		reply = linking.Reply{Kind: linking.ReplyFailure}
	}

	text, withLinks := b.formatter.FormatReply(reply)

	var keyboard *models.InlineKeyboardMarkup
	if withLinks {
		keyboard = b.formatter.BuildLinksKeyboard()
	}

	if _, err := b.sendMessage(ctx, msg.Chat.ID, text, keyboard); err != nil {
		b.logger.Error("failed to send reply", "telegram_user_id", msg.From.ID, "reply", reply.Kind, "error", err)
	}
}
