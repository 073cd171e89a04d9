package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_GROUP_ID", "-1001234567890")
	t.Setenv("BASE_URL", "https://subgate.example.com/")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(-1001234567890), cfg.TelegramGroupID)
	assert.Equal(t, "telegram/webhook", cfg.WebhookPath)
	assert.Equal(t, "stripe/webhook", cfg.StripeWebhookPath)
	assert.True(t, cfg.StripeVerifySignature)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.AdminToken)
	assert.Empty(t, cfg.ResourceLinks)
	assert.Equal(t, "https://subgate.example.com/telegram/webhook", cfg.WebhookURL())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBHOOK_PATH", "/tg/hook/")
	t.Setenv("STRIPE_VERIFY_SIGNATURE", "false")
	t.Setenv("PORT", "9000")
	t.Setenv("RESOURCE_LINKS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.StripeVerifySignature)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.ResourceLinks)
	assert.Equal(t, "https://subgate.example.com/tg/hook", cfg.WebhookURL())
}

func TestLoadMissingRequired(t *testing.T) {
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN",
		"TELEGRAM_GROUP_ID",
		"BASE_URL",
		"STRIPE_SECRET_KEY",
		"STRIPE_WEBHOOK_SECRET",
		"DATABASE_URL",
	} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadRejectsCollidingPaths(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBHOOK_PATH", "hooks")
	t.Setenv("STRIPE_WEBHOOK_PATH", "/hooks/")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsEmptyWebhookPath(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBHOOK_PATH", "/")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadResourceLinks(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    []string
		wantErr bool
	}{
		{name: "trailing comma", value: "https://a.example.com,", want: []string{"https://a.example.com"}},
		{name: "blank entries and spaces", value: " https://a.example.com , ,http://b.example.com", want: []string{"https://a.example.com", "http://b.example.com"}},
		{name: "only blanks", value: " , ", want: nil},
		{name: "no scheme", value: "https://a.example.com,t.me/+invite", wantErr: true},
		{name: "other scheme", value: "tg://resolve?domain=x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("RESOURCE_LINKS", tt.value)

			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "RESOURCE_LINKS")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ResourceLinks)
		})
	}
}
