package feed

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aurumdesk/spotrate/internal/domain"
	"github.com/aurumdesk/spotrate/internal/platform/metalsfeed"
)

// TickHandler is called for each market data tick (PricingService).
type TickHandler func(ctx context.Context, tick domain.Tick)

// MetalsWSFeed connects to the metals quote WebSocket, subscribes to the
// symbols of one tenant session and invokes the handler on each tick. The
// underlying client reconnects and restores the subscription on its own, so
// the feed only manages lifecycle and symbol changes.
type MetalsWSFeed struct {
	wsURL  string
	secret string
	onTick TickHandler
	logger *slog.Logger

	mu      sync.Mutex
	client  *metalsfeed.Client
	symbols []string

	closeOnce sync.Once
	done      chan struct{}
}

// NewMetalsWSFeed creates a feed that will subscribe to the given symbols.
func NewMetalsWSFeed(wsURL, secret string, symbols []string, onTick TickHandler, logger *slog.Logger) *MetalsWSFeed {
	return &MetalsWSFeed{
		wsURL:   wsURL,
		secret:  secret,
		onTick:  onTick,
		symbols: normalizeSymbols(symbols),
		logger:  logger.With(slog.String("component", "metals_ws_feed")),
		done:    make(chan struct{}),
	}
}

// Run connects, subscribes to the configured symbols and runs until ctx is
// cancelled or the feed is closed. The connection is held even when no
// symbols are configured yet, so the first catalogue entry can Resubscribe
// onto a live client instead of waiting for a fresh session.
func (f *MetalsWSFeed) Run(ctx context.Context) error {
	f.mu.Lock()
	client := metalsfeed.NewClient(f.wsURL, f.secret)
	client.OnTick(func(tick domain.Tick) {
		if f.onTick != nil {
			f.onTick(context.Background(), tick)
		}
	})
	f.client = client
	symbols := f.symbols
	f.mu.Unlock()

	defer client.Close()

	connCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	err := client.Connect(connCtx)
	cancel()
	if err != nil {
		return err
	}
	if len(symbols) > 0 {
		if err := client.Subscribe(ctx, symbols); err != nil {
			return err
		}
	}
	f.logger.Info("metals ws connected", slog.Int("symbols", len(symbols)))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.done:
		return nil
	}
}

// Resubscribe moves the live subscription to the given symbol set. Symbols
// no longer wanted are unsubscribed, new ones subscribed. Called when the
// tenant's commodity catalog changes.
func (f *MetalsWSFeed) Resubscribe(ctx context.Context, symbols []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	want := normalizeSymbols(symbols)
	wantSet := make(map[string]struct{}, len(want))
	for _, s := range want {
		wantSet[s] = struct{}{}
	}

	var stale []string
	for _, s := range f.symbols {
		if _, ok := wantSet[s]; !ok {
			stale = append(stale, s)
		}
	}
	f.symbols = want

	if f.client == nil {
		return nil
	}
	if len(stale) > 0 {
		if err := f.client.Unsubscribe(ctx, stale); err != nil {
			return err
		}
	}
	if err := f.client.Subscribe(ctx, want); err != nil {
		return err
	}
	f.logger.Info("metals ws resubscribed",
		slog.Int("symbols", len(want)),
		slog.Int("dropped", len(stale)),
	)
	return nil
}

// Close stops the feed.
func (f *MetalsWSFeed) Close() {
	f.closeOnce.Do(func() { close(f.done) })
}

func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}
