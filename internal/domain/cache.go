package domain

import "context"

// QuoteCache mirrors the latest quote per tenant and symbol so rate
// snapshots can be served without a live feed session on this instance.
type QuoteCache interface {
	SetQuote(ctx context.Context, tenantID string, q Quote) error
	GetQuote(ctx context.Context, tenantID, symbol string) (Quote, error)
	GetQuotes(ctx context.Context, tenantID string, symbols []string) (map[string]Quote, error)
}

// SignalBus provides pub/sub fan-out of rate and configuration events.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}
