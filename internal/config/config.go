package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config application configuration
type Config struct {
	// Telegram
	TelegramToken         string `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`
	TelegramGroupID       int64  `env:"TELEGRAM_GROUP_ID,required,notEmpty"` // Subscriber group (negative for supergroups)
	TelegramWebhookSecret string `env:"TELEGRAM_WEBHOOK_SECRET"`             // Checked against X-Telegram-Bot-Api-Secret-Token
	WebhookPath           string `env:"WEBHOOK_PATH" envDefault:"telegram/webhook"`

	// Public base URL the webhooks are reachable at, e.g. https://subgate.example.com
	BaseURL string `env:"BASE_URL,required,notEmpty"`

	// Stripe
	StripeSecretKey       string `env:"STRIPE_SECRET_KEY,required,notEmpty"`
	StripeWebhookSecret   string `env:"STRIPE_WEBHOOK_SECRET,required,notEmpty"`
	StripeVerifySignature bool   `env:"STRIPE_VERIFY_SIGNATURE" envDefault:"true"`
	StripeWebhookPath     string `env:"STRIPE_WEBHOOK_PATH" envDefault:"stripe/webhook"`

	// Database, postgres://... or sqlite://path/to/file.db
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// HTTP
	Port       int    `env:"PORT" envDefault:"8080"`
	AdminToken string `env:"ADMIN_TOKEN"` // Empty disables the admin page
	AppEnv     string `env:"APP_ENV" envDefault:"development"`

	// Links sent to subscribers once their account is linked
	ResourceLinks []string `env:"RESOURCE_LINKS" envSeparator:","`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// WebhookURL returns the URL Telegram delivers updates to
func (c *Config) WebhookURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.Trim(c.WebhookPath, "/")
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if strings.Trim(cfg.WebhookPath, "/") == "" {
		return nil, fmt.Errorf("WEBHOOK_PATH must not be empty")
	}
	if strings.Trim(cfg.WebhookPath, "/") == strings.Trim(cfg.StripeWebhookPath, "/") {
		return nil, fmt.Errorf("WEBHOOK_PATH and STRIPE_WEBHOOK_PATH must differ")
	}

	links, err := cleanResourceLinks(cfg.ResourceLinks)
	if err != nil {
		return nil, err
	}
	cfg.ResourceLinks = links

	return cfg, nil
}

// cleanResourceLinks drops blank entries and rejects anything Telegram
// would refuse as a URL button
func cleanResourceLinks(links []string) ([]string, error) {
	var out []string
	for _, link := range links {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		u, err := url.Parse(link)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("RESOURCE_LINKS: %q is not an http(s) URL", link)
		}
		out = append(out, link)
	}
	return out, nil
}
