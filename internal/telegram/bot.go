package telegram

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mixelka/subgate/internal/config"
	"github.com/mixelka/subgate/internal/formatter"
	"github.com/mixelka/subgate/internal/linking"
)

// Bot represents the Telegram bot
type Bot struct {
	bot       *bot.Bot
	flow      *linking.Flow
	formatter *formatter.TelegramFormatter
	logger    *slog.Logger
	config    *config.Config
}

// BotDeps dependencies for creating a bot
type BotDeps struct {
	Config    *config.Config
	Flow      *linking.Flow
	Formatter *formatter.TelegramFormatter
	Logger    *slog.Logger
	Options   []bot.Option // extra options, e.g. bot.WithServerURL in tests
}

// NewBot creates a new Telegram bot. Updates are not polled: they arrive
// through the webhook and are passed to ProcessUpdate.
func NewBot(deps BotDeps) (*Bot, error) {
	b := &Bot{
		flow:      deps.Flow,
		formatter: deps.Formatter,
		logger:    deps.Logger.With("component", "telegram_bot"),
		config:    deps.Config,
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(b.defaultHandler),
		// The webhook request context ends when the handler returns, so
		// replies must be sent before acknowledging the update
		bot.WithNotAsyncHandlers(),
	}
	opts = append(opts, deps.Options...)

	tgBot, err := bot.New(deps.Config.TelegramToken, opts...)
	if err != nil {
		return nil, err
	}

	b.bot = tgBot
	b.registerHandlers()

	return b, nil
}

// registerHandlers registers command handlers
func (b *Bot) registerHandlers() {
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, b.handleStart)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, b.handleStart)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypePrefix, b.handleStatus)
}

// ProcessUpdate runs the registered handlers for an update delivered by the
// webhook and returns once the reply has been sent
func (b *Bot) ProcessUpdate(ctx context.Context, update *models.Update) {
	b.bot.ProcessUpdate(ctx, update)
}

// RegisterWebhook points Telegram at the configured webhook URL
func (b *Bot) RegisterWebhook(ctx context.Context) error {
	url := b.config.WebhookURL()

	_, err := b.bot.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:            url,
		SecretToken:    b.config.TelegramWebhookSecret,
		AllowedUpdates: []string{"message"},
	})
	if err != nil {
		return err
	}

	b.logger.Info("webhook registered", "url", url)
	return nil
}
