package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("AccessTokenTTL converts seconds to duration", func(t *testing.T) {
		cfg := &Config{AccessTokenTTLSeconds: 600}
		assert.Equal(t, 10*time.Minute, cfg.AccessTokenTTL())
	})

	t.Run("RefreshTokenTTL converts hours to duration", func(t *testing.T) {
		cfg := &Config{RefreshTokenTTLHours: 48}
		assert.Equal(t, 48*time.Hour, cfg.RefreshTokenTTL())
	})

	t.Run("InitialCreditsMilli converts to fixed point", func(t *testing.T) {
		cfg := &Config{InitialCredits: 2.5}
		assert.Equal(t, int64(2500), cfg.InitialCreditsMilli())
	})
}

func TestValidate(t *testing.T) {
	t.Run("rejects non-positive items per credit", func(t *testing.T) {
		cfg := &Config{ItemsPerCredit: 0}
		assert.Error(t, cfg.Validate(false))
	})

	t.Run("rejects short session secret in production", func(t *testing.T) {
		cfg := &Config{ItemsPerCredit: 15, SessionSecret: "short"}
		assert.Error(t, cfg.Validate(true))
	})

	t.Run("accepts strong secret in production", func(t *testing.T) {
		cfg := &Config{
			ItemsPerCredit: 15,
			SessionSecret:  "c2VjcmV0LXRoYXQtaXMtbG9uZy1lbm91Z2gtZm9yLXByb2Q",
		}
		assert.NoError(t, cfg.Validate(true))
	})
}

func TestLoad(t *testing.T) {
	required := map[string]string{
		"DATABASE_URL":   "postgres://localhost/test",
		"REDIS_URL":      "redis://localhost:6379",
		"SESSION_SECRET": "test-session-secret",
		"OPENAI_API_KEY": "sk-test",
	}

	originalEnv := map[string]string{}
	for _, k := range []string{
		"PORT", "DATABASE_URL", "REDIS_URL", "SESSION_SECRET", "OPENAI_API_KEY",
		"ITEMS_PER_CREDIT", "INITIAL_CREDITS", "ACCESS_TOKEN_TTL_SECONDS", "LOG_LEVEL",
	} {
		originalEnv[k] = os.Getenv(k)
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	setRequired := func() {
		for k, v := range required {
			os.Setenv(k, v)
		}
	}

	t.Run("loads config with defaults", func(t *testing.T) {
		setRequired()
		os.Unsetenv("PORT")
		os.Unsetenv("ITEMS_PER_CREDIT")
		os.Unsetenv("INITIAL_CREDITS")
		os.Unsetenv("ACCESS_TOKEN_TTL_SECONDS")
		os.Unsetenv("LOG_LEVEL")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, 15, cfg.ItemsPerCredit)
		assert.Equal(t, 2.5, cfg.InitialCredits)
		assert.Equal(t, 600, cfg.AccessTokenTTLSeconds)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	})

	t.Run("loads custom values", func(t *testing.T) {
		setRequired()
		os.Setenv("PORT", "3000")
		os.Setenv("ITEMS_PER_CREDIT", "25")
		os.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, 25, cfg.ItemsPerCredit)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("fails without required DATABASE_URL", func(t *testing.T) {
		setRequired()
		os.Unsetenv("DATABASE_URL")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("fails without required OPENAI_API_KEY", func(t *testing.T) {
		setRequired()
		os.Unsetenv("OPENAI_API_KEY")

		_, err := Load()
		assert.Error(t, err)
	})
}
