package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aurumdesk/spotrate/internal/domain"
)

// QuoteCache implements domain.QuoteCache using Redis hashes.
// Each quote is stored as a hash at key "quote:{tenantID}:{SYMBOL}" with
// fields "bid", "ask", "low", "high", "dir" and "ts" (Unix nanoseconds).
type QuoteCache struct {
	rdb *redis.Client
}

// NewQuoteCache creates a QuoteCache backed by the given Client.
func NewQuoteCache(c *Client) *QuoteCache {
	return &QuoteCache{rdb: c.Underlying()}
}

func quoteKey(tenantID, symbol string) string {
	return "quote:" + tenantID + ":" + symbol
}

// SetQuote stores the latest quote for a tenant's symbol.
func (qc *QuoteCache) SetQuote(ctx context.Context, tenantID string, q domain.Quote) error {
	key := quoteKey(tenantID, q.Symbol)
	fields := map[string]interface{}{
		"bid":  strconv.FormatFloat(q.Bid, 'f', -1, 64),
		"ask":  strconv.FormatFloat(q.Ask, 'f', -1, 64),
		"low":  strconv.FormatFloat(q.Low, 'f', -1, 64),
		"high": strconv.FormatFloat(q.High, 'f', -1, 64),
		"dir":  string(q.BidDirection),
		"ts":   strconv.FormatInt(q.UpdatedAt.UnixNano(), 10),
	}
	if err := qc.rdb.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("redis: set quote %s/%s: %w", tenantID, q.Symbol, err)
	}
	return nil
}

// GetQuote retrieves the latest quote for a tenant's symbol.
// It returns domain.ErrNotFound when the key does not exist.
func (qc *QuoteCache) GetQuote(ctx context.Context, tenantID, symbol string) (domain.Quote, error) {
	vals, err := qc.rdb.HGetAll(ctx, quoteKey(tenantID, symbol)).Result()
	if err != nil {
		return domain.Quote{}, fmt.Errorf("redis: get quote %s/%s: %w", tenantID, symbol, err)
	}
	if len(vals) == 0 {
		return domain.Quote{}, domain.ErrNotFound
	}
	q, ok := parseQuote(symbol, vals)
	if !ok {
		return domain.Quote{}, domain.ErrNotFound
	}
	return q, nil
}

// GetQuotes retrieves the latest quotes for multiple symbols using a pipeline.
// Symbols whose keys do not exist are silently omitted from the result map.
func (qc *QuoteCache) GetQuotes(ctx context.Context, tenantID string, symbols []string) (map[string]domain.Quote, error) {
	if len(symbols) == 0 {
		return map[string]domain.Quote{}, nil
	}

	pipe := qc.rdb.Pipeline()
	cmds := make(map[string]*redis.MapStringStringCmd, len(symbols))
	for _, sym := range symbols {
		cmds[sym] = pipe.HGetAll(ctx, quoteKey(tenantID, sym))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: get quotes pipeline: %w", err)
	}

	result := make(map[string]domain.Quote, len(symbols))
	for sym, cmd := range cmds {
		vals, err := cmd.Result()
		if err != nil || len(vals) == 0 {
			continue
		}
		if q, ok := parseQuote(sym, vals); ok {
			result[sym] = q
		}
	}

	return result, nil
}

// parseQuote reassembles a domain.Quote from hash fields. The bid field is
// mandatory; everything else degrades to its zero value.
func parseQuote(symbol string, vals map[string]string) (domain.Quote, bool) {
	bidStr, ok := vals["bid"]
	if !ok {
		return domain.Quote{}, false
	}
	bid, err := strconv.ParseFloat(bidStr, 64)
	if err != nil {
		return domain.Quote{}, false
	}

	q := domain.Quote{
		Symbol:       symbol,
		Bid:          bid,
		BidDirection: domain.TickDirection(vals["dir"]),
	}
	if v, err := strconv.ParseFloat(vals["ask"], 64); err == nil {
		q.Ask = v
	}
	if v, err := strconv.ParseFloat(vals["low"], 64); err == nil {
		q.Low = v
	}
	if v, err := strconv.ParseFloat(vals["high"], 64); err == nil {
		q.High = v
	}
	if ns, err := strconv.ParseInt(vals["ts"], 10, 64); err == nil {
		q.UpdatedAt = time.Unix(0, ns).UTC()
	}
	return q, true
}

// Compile-time interface check.
var _ domain.QuoteCache = (*QuoteCache)(nil)
