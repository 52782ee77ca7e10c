package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurumdesk/spotrate/internal/domain"
)

// SpreadMarginStore implements domain.SpreadMarginStore using PostgreSQL.
type SpreadMarginStore struct {
	pool *pgxpool.Pool
}

// NewSpreadMarginStore creates a new SpreadMarginStore backed by the given connection pool.
func NewSpreadMarginStore(pool *pgxpool.Pool) *SpreadMarginStore {
	return &SpreadMarginStore{pool: pool}
}

// spreadColumn maps a spread kind to its column. Values come from this map
// only, never from request input, so the dynamic column name is safe.
var spreadColumn = map[domain.SpreadKind]string{
	domain.SpreadBid:  "bid_spread",
	domain.SpreadAsk:  "ask_spread",
	domain.MarginLow:  "low_margin",
	domain.MarginHigh: "high_margin",
}

// Get returns the spread/margin document for a tenant and metal. A missing
// row yields the zero document, not an error.
func (s *SpreadMarginStore) Get(ctx context.Context, tenantID string, metal domain.Metal) (domain.SpreadMargin, error) {
	var doc domain.SpreadMargin
	err := s.pool.QueryRow(ctx,
		`SELECT bid_spread, ask_spread, low_margin, high_margin
		 FROM spread_margins WHERE tenant_id = $1 AND metal = $2`,
		tenantID, string(metal),
	).Scan(&doc.BidSpread, &doc.AskSpread, &doc.LowMargin, &doc.HighMargin)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.SpreadMargin{}, nil
		}
		return domain.SpreadMargin{}, fmt.Errorf("postgres: get spread margin %s/%s: %w", tenantID, metal, err)
	}
	return doc, nil
}

// Set updates one value of the tenant's spread/margin document for a metal,
// creating the row with zero defaults if it does not exist, and returns the
// resulting document.
func (s *SpreadMarginStore) Set(ctx context.Context, tenantID string, metal domain.Metal, kind domain.SpreadKind, value float64) (domain.SpreadMargin, error) {
	col, ok := spreadColumn[kind]
	if !ok {
		return domain.SpreadMargin{}, fmt.Errorf("postgres: unknown spread kind %q", kind)
	}

	query := fmt.Sprintf(`
		INSERT INTO spread_margins (tenant_id, metal, %s, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (tenant_id, metal) DO UPDATE SET
			%s = EXCLUDED.%s,
			updated_at = NOW()
		RETURNING bid_spread, ask_spread, low_margin, high_margin`, col, col, col)

	var doc domain.SpreadMargin
	err := s.pool.QueryRow(ctx, query, tenantID, string(metal), value).
		Scan(&doc.BidSpread, &doc.AskSpread, &doc.LowMargin, &doc.HighMargin)
	if err != nil {
		return domain.SpreadMargin{}, fmt.Errorf("postgres: set spread margin %s/%s %s: %w", tenantID, metal, kind, err)
	}
	return doc, nil
}
