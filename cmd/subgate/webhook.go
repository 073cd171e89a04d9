package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mixelka/subgate/internal/formatter"
	"github.com/mixelka/subgate/internal/telegram"
)

func registerWebhookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register-webhook",
		Short: "Point Telegram at BASE_URL/WEBHOOK_PATH",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			// Commands are answered by serve; only the API client is needed here
			tgBot, err := telegram.NewBot(telegram.BotDeps{
				Config:    cfg,
				Formatter: formatter.NewTelegramFormatter(cfg.ResourceLinks),
				Logger:    logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create bot: %w", err)
			}

			if err := tgBot.RegisterWebhook(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cfg.WebhookURL())
			return nil
		},
	}
}
