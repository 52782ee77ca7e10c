package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurumdesk/spotrate/internal/domain"
)

// CommodityStore implements domain.CommodityStore using PostgreSQL.
type CommodityStore struct {
	pool *pgxpool.Pool
}

// NewCommodityStore creates a new CommodityStore backed by the given connection pool.
func NewCommodityStore(pool *pgxpool.Pool) *CommodityStore {
	return &CommodityStore{pool: pool}
}

const commodityCols = `id, tenant_id, metal, purity, unit_count, weight_unit,
	sell_premium, buy_premium, sell_charge, buy_charge, created_at, updated_at`

// Create inserts a new commodity.
func (s *CommodityStore) Create(ctx context.Context, c domain.Commodity) error {
	const query = `
		INSERT INTO commodities (
			id, tenant_id, metal, purity, unit_count, weight_unit,
			sell_premium, buy_premium, sell_charge, buy_charge,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12
		)`

	_, err := s.pool.Exec(ctx, query,
		c.ID, c.TenantID, string(c.Metal), c.Purity, c.UnitCount, string(c.Weight),
		c.SellPremium, c.BuyPremium, c.SellCharge, c.BuyCharge,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create commodity %s: %w", c.ID, err)
	}
	return nil
}

// Update rewrites an existing commodity, scoped to its owning tenant.
func (s *CommodityStore) Update(ctx context.Context, c domain.Commodity) error {
	const query = `
		UPDATE commodities SET
			metal        = $3,
			purity       = $4,
			unit_count   = $5,
			weight_unit  = $6,
			sell_premium = $7,
			buy_premium  = $8,
			sell_charge  = $9,
			buy_charge   = $10,
			updated_at   = $11
		WHERE id = $1 AND tenant_id = $2`

	tag, err := s.pool.Exec(ctx, query,
		c.ID, c.TenantID, string(c.Metal), c.Purity, c.UnitCount, string(c.Weight),
		c.SellPremium, c.BuyPremium, c.SellCharge, c.BuyCharge, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: update commodity %s: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanCommodity scans a single commodity row into a domain.Commodity.
func scanCommodity(row pgx.Row) (domain.Commodity, error) {
	var c domain.Commodity
	var metal, weight string
	err := row.Scan(
		&c.ID, &c.TenantID, &metal, &c.Purity, &c.UnitCount, &weight,
		&c.SellPremium, &c.BuyPremium, &c.SellCharge, &c.BuyCharge,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Commodity{}, err
	}
	c.Metal = domain.Metal(metal)
	c.Weight = domain.WeightUnit(weight)
	return c, nil
}

// GetByID retrieves a commodity by its primary key, scoped to the tenant.
func (s *CommodityStore) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (domain.Commodity, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+commodityCols+` FROM commodities WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	c, err := scanCommodity(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Commodity{}, domain.ErrNotFound
		}
		return domain.Commodity{}, fmt.Errorf("postgres: get commodity %s: %w", id, err)
	}
	return c, nil
}

// ListByTenant returns the tenant's full catalogue, oldest first so the
// display order is stable across edits.
func (s *CommodityStore) ListByTenant(ctx context.Context, tenantID string) ([]domain.Commodity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+commodityCols+` FROM commodities WHERE tenant_id = $1 ORDER BY created_at ASC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list commodities: %w", err)
	}
	defer rows.Close()

	var commodities []domain.Commodity
	for rows.Next() {
		c, err := scanCommodity(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan commodity: %w", err)
		}
		commodities = append(commodities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list commodities rows: %w", err)
	}
	return commodities, nil
}

// Delete removes a commodity, scoped to its owning tenant.
func (s *CommodityStore) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM commodities WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("postgres: delete commodity %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
