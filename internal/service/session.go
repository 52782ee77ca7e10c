package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aurumdesk/spotrate/internal/domain"
	"github.com/aurumdesk/spotrate/internal/feed"
	"github.com/aurumdesk/spotrate/internal/quoteboard"
)

// Session is one tenant's live market state: a quote board fed by a
// dedicated upstream WebSocket subscription. Sessions are reference-counted
// by connected UI sockets; the feed is torn down when the last one leaves.
type Session struct {
	tenantID string
	board    *quoteboard.Board
	feed     *feed.MetalsWSFeed
	cancel   context.CancelFunc
	refs     int
}

// Board returns the session's quote board.
func (s *Session) Board() *quoteboard.Board {
	return s.board
}

// SessionManager creates and tears down per-tenant feed sessions.
type SessionManager struct {
	pricing    *PricingService
	registry   *RegistryService
	bus        domain.SignalBus
	feedURL    string
	feedSecret string
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(
	pricing *PricingService,
	registry *RegistryService,
	bus domain.SignalBus,
	feedURL, feedSecret string,
	logger *slog.Logger,
) *SessionManager {
	return &SessionManager{
		pricing:    pricing,
		registry:   registry,
		bus:        bus,
		feedURL:    feedURL,
		feedSecret: feedSecret,
		logger:     logger.With(slog.String("component", "session_manager")),
		sessions:   make(map[string]*Session),
	}
}

// Acquire returns the tenant's session, starting the feed if this is the
// first reference. Each Acquire must be paired with a Release.
func (m *SessionManager) Acquire(ctx context.Context, tenantID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[tenantID]; ok {
		sess.refs++
		return sess, nil
	}

	symbols, err := m.registry.Symbols(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("session_manager: symbols for %q: %w", tenantID, err)
	}

	// The session outlives the request that opened it; it ends when the
	// last reference is released, not when this ctx is cancelled.
	sessCtx, cancel := context.WithCancel(context.Background())

	board := quoteboard.New()
	wsFeed := feed.NewMetalsWSFeed(m.feedURL, m.feedSecret, symbols,
		func(tickCtx context.Context, tick domain.Tick) {
			if err := m.pricing.HandleTick(tickCtx, tenantID, board, tick); err != nil {
				m.logger.Warn("session tick failed",
					slog.String("tenant_id", tenantID),
					slog.String("error", err.Error()),
				)
			}
		}, m.logger)

	sess := &Session{
		tenantID: tenantID,
		board:    board,
		feed:     wsFeed,
		cancel:   cancel,
		refs:     1,
	}
	m.sessions[tenantID] = sess

	go func() {
		if err := wsFeed.Run(sessCtx); err != nil && sessCtx.Err() == nil {
			m.logger.Error("session feed stopped",
				slog.String("tenant_id", tenantID),
				slog.String("error", err.Error()),
			)
		}
	}()
	go m.watchConfig(sessCtx, sess)

	m.logger.Info("session started",
		slog.String("tenant_id", tenantID),
		slog.Int("symbols", len(symbols)),
	)
	return sess, nil
}

// Release drops one reference. The feed and board are discarded when the
// count reaches zero; quote state does not survive the session.
func (m *SessionManager) Release(tenantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[tenantID]
	if !ok {
		return
	}
	sess.refs--
	if sess.refs > 0 {
		return
	}

	sess.feed.Close()
	sess.cancel()
	delete(m.sessions, tenantID)
	m.logger.Info("session stopped", slog.String("tenant_id", tenantID))
}

// Board returns the live quote board for a tenant, if a session exists.
func (m *SessionManager) Board(tenantID string) (*quoteboard.Board, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[tenantID]
	if !ok {
		return nil, false
	}
	return sess.board, true
}

// Close tears down every active session.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tenantID, sess := range m.sessions {
		sess.feed.Close()
		sess.cancel()
		delete(m.sessions, tenantID)
	}
}

// watchConfig reacts to catalogue and spread changes for the session's
// tenant: it moves the feed subscription to the current symbol set and
// republishes the rates view so clients see the new configuration without
// waiting for the next tick.
func (m *SessionManager) watchConfig(ctx context.Context, sess *Session) {
	ch, err := m.bus.Subscribe(ctx, ConfigChannel(sess.tenantID))
	if err != nil {
		m.logger.Error("session config subscribe failed",
			slog.String("tenant_id", sess.tenantID),
			slog.String("error", err.Error()),
		)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			symbols, err := m.registry.Symbols(ctx, sess.tenantID)
			if err != nil {
				m.logger.Warn("session symbol refresh failed",
					slog.String("tenant_id", sess.tenantID),
					slog.String("error", err.Error()),
				)
				continue
			}
			if err := sess.feed.Resubscribe(ctx, symbols); err != nil {
				m.logger.Warn("session resubscribe failed",
					slog.String("tenant_id", sess.tenantID),
					slog.String("error", err.Error()),
				)
			}
			if err := m.pricing.Recompute(ctx, sess.tenantID, sess.board); err != nil {
				m.logger.Warn("session recompute failed",
					slog.String("tenant_id", sess.tenantID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
