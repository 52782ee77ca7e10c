// Package quoteboard holds the in-memory quote state for one tenant
// session. The board is an explicitly owned object, injected where needed,
// so tests can drive it with synthetic tick sequences.
package quoteboard

import (
	"sync"
	"time"

	"github.com/aurumdesk/spotrate/internal/domain"
)

// Board maps feed symbols to their latest quote. The feed dispatch loop is
// the only writer; snapshot readers may run concurrently.
type Board struct {
	mu     sync.RWMutex
	quotes map[string]domain.Quote
	now    func() time.Time
}

// New creates an empty Board.
func New() *Board {
	return &Board{
		quotes: make(map[string]domain.Quote),
		now:    time.Now,
	}
}

// Apply folds a tick into the board and returns the resulting quote. The
// bid direction compares against the previous bid for the symbol: strictly
// greater is up, strictly lower is down, equal is unchanged. The first tick
// of a symbol carries no direction.
func (b *Board) Apply(t domain.Tick) domain.Quote {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := domain.Quote{
		Symbol:    t.Symbol,
		Bid:       t.Bid,
		Ask:       t.Ask,
		Low:       t.Low,
		High:      t.High,
		UpdatedAt: b.now().UTC(),
	}

	if prev, ok := b.quotes[t.Symbol]; ok {
		switch {
		case t.Bid > prev.Bid:
			q.BidDirection = domain.DirectionUp
		case t.Bid < prev.Bid:
			q.BidDirection = domain.DirectionDown
		default:
			q.BidDirection = domain.DirectionUnchanged
		}
	}

	b.quotes[t.Symbol] = q
	return q
}

// Get returns the latest quote for a symbol.
func (b *Board) Get(symbol string) (domain.Quote, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	q, ok := b.quotes[symbol]
	return q, ok
}

// Snapshot returns a copy of the full quote map.
func (b *Board) Snapshot() map[string]domain.Quote {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]domain.Quote, len(b.quotes))
	for sym, q := range b.quotes {
		out[sym] = q
	}
	return out
}

// Len returns the number of symbols with at least one tick.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.quotes)
}
