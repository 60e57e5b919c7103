// Package config loads and validates application configuration from the
// environment and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// Addr is the address the HTTP server listens on.
	Addr string `mapstructure:"STREAMGATE_ADDR"`
	// Env is the deployment profile; production refuses to start on missing secrets.
	Env string `mapstructure:"STREAMGATE_ENV"`
	// DatabaseURL is the Postgres DSN. Empty selects the in-memory stores.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisURL is the Redis connection URL for magic-link tokens. Empty selects
	// the in-memory token store.
	RedisURL string `mapstructure:"REDIS_URL"`
	// SigningSecret signs admin tokens (HS256) and payment webhook checks.
	SigningSecret string `mapstructure:"SIGNING_SECRET"`
	// WebhookSecret is the shared secret for inbound payment webhooks. Falls
	// back to SigningSecret when unset.
	WebhookSecret string `mapstructure:"WEBHOOK_SECRET"`
	// ResendAPIKey authenticates against the email delivery service.
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
	// EmailFrom is the From address on magic-link mail.
	EmailFrom string `mapstructure:"EMAIL_FROM"`
	// BaseURL is the public site URL embedded into magic links.
	BaseURL string `mapstructure:"BASE_URL"`
	// MagicLinkTTL is how long a magic link stays redeemable.
	MagicLinkTTL time.Duration `mapstructure:"MAGIC_LINK_TTL"`
	// SessionIdleTTL is how long a session may stay idle before the reaper
	// deactivates it.
	SessionIdleTTL time.Duration `mapstructure:"SESSION_IDLE_TTL"`
	// ReapInterval is how often the session reaper runs.
	ReapInterval time.Duration `mapstructure:"REAP_INTERVAL"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment. Env vars override .env. Missing .env is ignored (e.g. in CI).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore missing .env

	v.AutomaticEnv()

	v.SetDefault("STREAMGATE_ADDR", ":8080")
	v.SetDefault("STREAMGATE_ENV", EnvDevelopment)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SIGNING_SECRET", "")
	v.SetDefault("WEBHOOK_SECRET", "")
	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("EMAIL_FROM", "Streamgate <login@streamgate.local>")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("MAGIC_LINK_TTL", "15m")
	v.SetDefault("SESSION_IDLE_TTL", "720h") // 30d
	v.SetDefault("REAP_INTERVAL", "1h")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = cfg.SigningSecret
	}
	if cfg.Env == EnvDevelopment && cfg.SigningSecret == "" {
		// Development only. Production validation below refuses to start
		// without an explicit secret instead of substituting one.
		cfg.SigningSecret = "dev-signing-secret"
		cfg.WebhookSecret = cfg.SigningSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on configuration that would silently degrade security
// in production.
func (c *Config) Validate() error {
	if c.Env != EnvProduction {
		return nil
	}
	var missing []string
	if c.SigningSecret == "" {
		missing = append(missing, "SIGNING_SECRET")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.ResendAPIKey == "" {
		missing = append(missing, "RESEND_API_KEY")
	}
	if len(missing) > 0 {
		return errors.New("missing required production config: " + strings.Join(missing, ", "))
	}
	return nil
}
