package domain

import (
	"context"

	"github.com/google/uuid"
)

// CommodityStore persists the per-tenant commodity catalogue.
type CommodityStore interface {
	Create(ctx context.Context, c Commodity) error
	Update(ctx context.Context, c Commodity) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (Commodity, error)
	ListByTenant(ctx context.Context, tenantID string) ([]Commodity, error)
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
}

// SpreadMarginStore persists per-tenant, per-metal spread and margin
// configuration. Get returns the zero document (not an error) when no row
// exists: missing configuration is a valid default.
type SpreadMarginStore interface {
	Get(ctx context.Context, tenantID string, metal Metal) (SpreadMargin, error)
	Set(ctx context.Context, tenantID string, metal Metal, kind SpreadKind, value float64) (SpreadMargin, error)
}

// TenantStore resolves API credentials to tenant identities.
type TenantStore interface {
	ResolveAPIKey(ctx context.Context, apiKey string) (string, error)
}
