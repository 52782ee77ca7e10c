package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SPOTRATE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known SPOTRATE_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "SPOTRATE_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "SPOTRATE_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "SPOTRATE_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "SPOTRATE_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "SPOTRATE_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "SPOTRATE_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "SPOTRATE_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "SPOTRATE_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "SPOTRATE_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "SPOTRATE_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "SPOTRATE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "SPOTRATE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "SPOTRATE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "SPOTRATE_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "SPOTRATE_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "SPOTRATE_REDIS_TLS_ENABLED")

	// ── Feed ──
	setStr(&cfg.Feed.URL, "SPOTRATE_FEED_URL")
	setStr(&cfg.Feed.Secret, "SPOTRATE_FEED_SECRET")

	// ── Pricing ──
	setStr(&cfg.Pricing.Currency, "SPOTRATE_PRICING_CURRENCY")

	// ── Server ──
	setInt(&cfg.Server.Port, "SPOTRATE_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "SPOTRATE_SERVER_CORS_ORIGINS")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "SPOTRATE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
