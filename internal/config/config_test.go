package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.Feed.Secret = "test-secret"
	return cfg
}

func TestDefaultsValidateWithSecret(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateMissingFeedSecret(t *testing.T) {
	cfg := Defaults()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed: secret must not be empty")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "verbose"
	cfg.Redis.Addr = ""
	cfg.Server.Port = 0
	cfg.Pricing.Rates = map[string]float64{"AED": -1}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log_level")
	assert.Contains(t, err.Error(), "redis: addr must not be empty")
	assert.Contains(t, err.Error(), "server: port must be 1-65535")
	assert.Contains(t, err.Error(), `rate for "AED" must be > 0`)
}

func TestValidateDSNSkipsHostChecks(t *testing.T) {
	cfg := validConfig()
	cfg.Postgres.DSN = "postgres://u:p@db:5432/spotrate"
	cfg.Postgres.Host = ""
	cfg.Postgres.Port = 0
	cfg.Postgres.Database = ""

	require.NoError(t, cfg.Validate())
}

func TestValidatePoolBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Postgres.PoolMinConns = 20
	cfg.Postgres.PoolMaxConns = 10

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool_min_conns must not exceed pool_max_conns")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPOTRATE_SERVER_PORT", "9100")
	t.Setenv("SPOTRATE_FEED_SECRET", "from-env")
	t.Setenv("SPOTRATE_PRICING_CURRENCY", "USD")
	t.Setenv("SPOTRATE_SERVER_CORS_ORIGINS", "https://a.example,https://b.example")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Feed.Secret)
	assert.Equal(t, "USD", cfg.Pricing.Currency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}
