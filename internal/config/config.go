package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port                  int     `env:"PORT" envDefault:"8080"`
	DatabaseURL           string  `env:"DATABASE_URL,required"`
	RedisURL              string  `env:"REDIS_URL,required"`
	SessionSecret         string  `env:"SESSION_SECRET,required"`
	BillingWebhookSecret  string  `env:"BILLING_WEBHOOK_SECRET"`
	OpenAIAPIKey          string  `env:"OPENAI_API_KEY,required"`
	OpenAIModel           string  `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL         string  `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	ItemsPerCredit        int     `env:"ITEMS_PER_CREDIT" envDefault:"15"`
	InitialCredits        float64 `env:"INITIAL_CREDITS" envDefault:"2.5"`
	AccessTokenTTLSeconds int     `env:"ACCESS_TOKEN_TTL_SECONDS" envDefault:"600"`
	RefreshTokenTTLHours  int     `env:"REFRESH_TOKEN_TTL_HOURS" envDefault:"48"`
	RateLimitPerMin       int     `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	PublicRateLimitPerMin int     `env:"PUBLIC_RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	LogLevel              string  `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLSeconds) * time.Second
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTLHours) * time.Hour
}

// InitialCreditsMilli converts the configured starting balance to the
// fixed-point unit used everywhere inside the core.
func (c *Config) InitialCreditsMilli() int64 {
	return int64(c.InitialCredits * CreditScale)
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if c.ItemsPerCredit <= 0 {
		return fmt.Errorf("ITEMS_PER_CREDIT must be positive")
	}
	if c.InitialCredits < 0 {
		return fmt.Errorf("INITIAL_CREDITS must not be negative")
	}

	if isProduction {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}
		if c.BillingWebhookSecret == "" {
			log.Warn().Msg("BILLING_WEBHOOK_SECRET is empty in production: billing webhook signature verification disabled")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
