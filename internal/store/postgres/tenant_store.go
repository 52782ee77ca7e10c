package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurumdesk/spotrate/internal/domain"
)

// TenantStore implements domain.TenantStore using PostgreSQL.
type TenantStore struct {
	pool *pgxpool.Pool
}

// NewTenantStore creates a new TenantStore backed by the given connection pool.
func NewTenantStore(pool *pgxpool.Pool) *TenantStore {
	return &TenantStore{pool: pool}
}

// ResolveAPIKey maps an API key to the owning tenant ID. Unknown keys return
// domain.ErrUnauthorized.
func (s *TenantStore) ResolveAPIKey(ctx context.Context, apiKey string) (string, error) {
	var tenantID string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM tenants WHERE api_key = $1`, apiKey,
	).Scan(&tenantID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("postgres: resolve api key: %w", err)
	}
	return tenantID, nil
}
