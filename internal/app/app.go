// Package app provides the top-level application lifecycle management for
// the rate engine. It wires together all dependencies (stores, caches,
// services, sessions) and runs the HTTP + WebSocket server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aurumdesk/spotrate/internal/config"
	"github.com/aurumdesk/spotrate/internal/domain"
	"github.com/aurumdesk/spotrate/internal/server"
	"github.com/aurumdesk/spotrate/internal/server/handler"
	"github.com/aurumdesk/spotrate/internal/server/ws"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, starts the API
// server, and blocks until the context is cancelled. On return the caller
// should invoke Close to run all registered cleanup functions.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	// Wire already rejected unsupported codes.
	currency, _ := domain.ParseCurrency(a.cfg.Pricing.Currency)
	handlers := server.Handlers{
		Health:      handler.NewHealthHandler(a.logger),
		Rates:       handler.NewRatesHandler(deps.Pricing, deps.Spreads, currency, a.logger),
		Commodities: handler.NewCommodityHandler(deps.Registry, a.logger),
	}
	hub := ws.NewHub(deps.Sessions, deps.SignalBus, a.logger)

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
	}, handlers, hub, deps.TenantStore, a.logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return fmt.Errorf("app: %w", err)
	}
	return ctx.Err()
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
