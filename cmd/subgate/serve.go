package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mixelka/subgate/internal/formatter"
	"github.com/mixelka/subgate/internal/httpapi"
	"github.com/mixelka/subgate/internal/linking"
	"github.com/mixelka/subgate/internal/membership"
	"github.com/mixelka/subgate/internal/payments"
	"github.com/mixelka/subgate/internal/reconcile"
	"github.com/mixelka/subgate/internal/telegram"
)

func serveCmd() *cobra.Command {
	var skipWebhook bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		Long: `Run the HTTP server that receives Telegram updates and Stripe events.

On startup the database is migrated and the Telegram webhook is pointed
at BASE_URL/WEBHOOK_PATH unless --skip-webhook is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), skipWebhook)
		},
	}

	cmd.Flags().BoolVar(&skipWebhook, "skip-webhook", false, "do not call setWebhook on startup")

	return cmd
}

func runServe(ctx context.Context, skipWebhook bool) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Info("starting subgate", "version", Version, "environment", cfg.AppEnv)

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	flow := linking.NewFlow(db, logger)
	tgBot, err := telegram.NewBot(telegram.BotDeps{
		Config:    cfg,
		Flow:      flow,
		Formatter: formatter.NewTelegramFormatter(cfg.ResourceLinks),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	enforcer := membership.NewEnforcer(tgBot, cfg.TelegramGroupID, logger)
	reconciler := reconcile.NewReconciler(db, payments.NewClient(cfg.StripeSecretKey), enforcer, logger)

	if !skipWebhook {
		// Telegram may be unreachable at boot; Stripe events still work without it
		if err := tgBot.RegisterWebhook(ctx); err != nil {
			logger.Error("failed to register telegram webhook", "error", err)
		}
	}

	server := httpapi.NewServer(httpapi.ServerDeps{
		Config:  cfg,
		Events:  payments.NewEventVerifier(cfg.StripeWebhookSecret, cfg.StripeVerifySignature),
		Handler: reconciler,
		Updates: tgBot,
		Links:   db,
		Logger:  logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
