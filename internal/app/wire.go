package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aurumdesk/spotrate/internal/cache/redis"
	"github.com/aurumdesk/spotrate/internal/config"
	"github.com/aurumdesk/spotrate/internal/domain"
	"github.com/aurumdesk/spotrate/internal/fx"
	"github.com/aurumdesk/spotrate/internal/pricing"
	"github.com/aurumdesk/spotrate/internal/service"
	"github.com/aurumdesk/spotrate/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency the application needs.
// It is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Stores
	CommodityStore    domain.CommodityStore
	SpreadMarginStore domain.SpreadMarginStore
	TenantStore       domain.TenantStore

	// Caches
	QuoteCache domain.QuoteCache
	SignalBus  domain.SignalBus

	// Services
	Pricing  *service.PricingService
	Registry *service.RegistryService
	Spreads  *service.SpreadService
	Sessions *service.SessionManager
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Postgres.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	deps.CommodityStore = postgres.NewCommodityStore(pool)
	deps.SpreadMarginStore = postgres.NewSpreadMarginStore(pool)
	deps.TenantStore = postgres.NewTenantStore(pool)

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.QuoteCache = redis.NewQuoteCache(redisClient)
	deps.SignalBus = redis.NewSignalBus(redisClient)

	// --- Pricing ---
	rates := make(map[domain.Currency]float64, len(cfg.Pricing.Rates))
	for code, rate := range cfg.Pricing.Rates {
		if cur, ok := domain.ParseCurrency(code); ok {
			rates[cur] = rate
		}
	}
	if len(rates) == 0 {
		rates = fx.DefaultRates()
	}
	converter := fx.New(rates)
	calc := pricing.NewCalculator(converter)

	currency, ok := domain.ParseCurrency(cfg.Pricing.Currency)
	if !ok {
		cleanup()
		return nil, nil, fmt.Errorf("wire: unsupported pricing currency %q", cfg.Pricing.Currency)
	}

	// --- Services ---
	deps.Pricing = service.NewPricingService(
		deps.QuoteCache,
		deps.SpreadMarginStore,
		deps.CommodityStore,
		deps.SignalBus,
		calc,
		currency,
		logger,
	)
	deps.Registry = service.NewRegistryService(deps.CommodityStore, deps.SignalBus, logger)
	deps.Spreads = service.NewSpreadService(deps.SpreadMarginStore, deps.SignalBus, logger)
	deps.Sessions = service.NewSessionManager(
		deps.Pricing,
		deps.Registry,
		deps.SignalBus,
		cfg.Feed.URL,
		cfg.Feed.Secret,
		logger,
	)
	closers = append(closers, deps.Sessions.Close)

	return deps, cleanup, nil
}
