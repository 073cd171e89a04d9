package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-telegram/bot/models"

	"github.com/mixelka/subgate/internal/payments"
)

// maxBodyBytes is the body limit Stripe recommends for webhook endpoints
const maxBodyBytes = 65536

// telegramSecretHeader carries the secret_token given to setWebhook
const telegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// handleStripeWebhook verifies and reconciles a Stripe event. Anything that
// passes verification is acknowledged, whatever the reconciler did with it.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.logger.Warn("failed to read stripe webhook body", "error", err)
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	event, err := s.events.ParseEvent(payload, r.Header.Get(payments.SignatureHeader))
	if err != nil {
		s.logger.Warn("rejected stripe webhook", "error", err)
		http.Error(w, "invalid event", http.StatusBadRequest)
		return
	}

	res := s.handler.Handle(r.Context(), event)
	s.logger.Debug("stripe event handled",
		"event_id", res.EventID,
		"event_type", res.EventType,
		"action", res.Action,
		"reason", res.Reason,
	)

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// handleTelegramUpdate decodes an update and runs the bot handlers on it
func (s *Server) handleTelegramUpdate(w http.ResponseWriter, r *http.Request) {
	if secret := s.config.TelegramWebhookSecret; secret != "" {
		got := r.Header.Get(telegramSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			s.logger.Warn("invalid telegram webhook secret")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	update := &models.Update{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		s.logger.Warn("failed to decode telegram update", "error", err)
		http.Error(w, "invalid update", http.StatusBadRequest)
		return
	}

	s.updates.ProcessUpdate(r.Context(), update)
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
