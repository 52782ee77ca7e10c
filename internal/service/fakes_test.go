package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/aurumdesk/spotrate/internal/domain"
)

// memCommodityStore is an in-memory domain.CommodityStore.
type memCommodityStore struct {
	mu    sync.Mutex
	items []domain.Commodity
}

func (s *memCommodityStore) Create(_ context.Context, c domain.Commodity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, c)
	return nil
}

func (s *memCommodityStore) Update(_ context.Context, c domain.Commodity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.items {
		if existing.ID == c.ID && existing.TenantID == c.TenantID {
			s.items[i] = c
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *memCommodityStore) GetByID(_ context.Context, tenantID string, id uuid.UUID) (domain.Commodity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.ID == id && c.TenantID == tenantID {
			return c, nil
		}
	}
	return domain.Commodity{}, domain.ErrNotFound
}

func (s *memCommodityStore) ListByTenant(_ context.Context, tenantID string) ([]domain.Commodity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Commodity
	for _, c := range s.items {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memCommodityStore) Delete(_ context.Context, tenantID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.items {
		if c.ID == id && c.TenantID == tenantID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// memSpreadStore is an in-memory domain.SpreadMarginStore.
type memSpreadStore struct {
	mu   sync.Mutex
	docs map[string]domain.SpreadMargin
}

func newMemSpreadStore() *memSpreadStore {
	return &memSpreadStore{docs: make(map[string]domain.SpreadMargin)}
}

func spreadKey(tenantID string, metal domain.Metal) string {
	return tenantID + "|" + string(metal)
}

func (s *memSpreadStore) Get(_ context.Context, tenantID string, metal domain.Metal) (domain.SpreadMargin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[spreadKey(tenantID, metal)], nil
}

func (s *memSpreadStore) Set(_ context.Context, tenantID string, metal domain.Metal, kind domain.SpreadKind, value float64) (domain.SpreadMargin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[spreadKey(tenantID, metal)]
	doc.Set(kind, value)
	s.docs[spreadKey(tenantID, metal)] = doc
	return doc, nil
}

// memQuoteCache is an in-memory domain.QuoteCache.
type memQuoteCache struct {
	mu     sync.Mutex
	quotes map[string]domain.Quote
}

func newMemQuoteCache() *memQuoteCache {
	return &memQuoteCache{quotes: make(map[string]domain.Quote)}
}

func (c *memQuoteCache) SetQuote(_ context.Context, tenantID string, q domain.Quote) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[tenantID+"|"+q.Symbol] = q
	return nil
}

func (c *memQuoteCache) GetQuote(_ context.Context, tenantID, symbol string) (domain.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.quotes[tenantID+"|"+symbol]
	if !ok {
		return domain.Quote{}, domain.ErrNotFound
	}
	return q, nil
}

func (c *memQuoteCache) GetQuotes(_ context.Context, tenantID string, symbols []string) (map[string]domain.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]domain.Quote, len(symbols))
	for _, sym := range symbols {
		if q, ok := c.quotes[tenantID+"|"+sym]; ok {
			out[sym] = q
		}
	}
	return out, nil
}

// memBus is an in-memory domain.SignalBus that records everything published.
type memBus struct {
	mu        sync.Mutex
	published map[string][][]byte
	subs      map[string][]chan []byte
}

func newMemBus() *memBus {
	return &memBus{
		published: make(map[string][][]byte),
		subs:      make(map[string][]chan []byte),
	}
}

func (b *memBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published[channel] = append(b.published[channel], payload)
	for _, ch := range b.subs[channel] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *memBus) Subscribe(_ context.Context, channel string) (<-chan []byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan []byte, 16)
	b.subs[channel] = append(b.subs[channel], ch)
	return ch, nil
}

func (b *memBus) messages(channel string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]byte, len(b.published[channel]))
	copy(out, b.published[channel])
	return out
}
