package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/aurumdesk/spotrate/internal/domain"
)

// RegistryService manages the per-tenant commodity catalogue and announces
// every change on the tenant's config channel so live sessions can
// resubscribe and recompute.
type RegistryService struct {
	commodities domain.CommodityStore
	bus         domain.SignalBus
	logger      *slog.Logger
	now         func() time.Time
}

// NewRegistryService creates a RegistryService.
func NewRegistryService(commodities domain.CommodityStore, bus domain.SignalBus, logger *slog.Logger) *RegistryService {
	return &RegistryService{
		commodities: commodities,
		bus:         bus,
		logger:      logger.With(slog.String("component", "registry_service")),
		now:         time.Now,
	}
}

// Create validates a draft and inserts it as a new catalogue entry. Missing
// required fields are reported together in one ValidationError, as are
// non-positive purity and unit count; premiums and charges default to zero.
func (s *RegistryService) Create(ctx context.Context, tenantID string, draft domain.CommodityDraft) (domain.Commodity, error) {
	var missing []string
	if draft.Metal == "" {
		missing = append(missing, "metal")
	}
	if draft.Purity == nil {
		missing = append(missing, "purity")
	}
	if draft.UnitCount == nil {
		missing = append(missing, "unit")
	}
	weight, weightOK := domain.ParseWeightUnit(draft.Weight)
	if !weightOK {
		missing = append(missing, "weight")
	}
	if len(missing) > 0 {
		return domain.Commodity{}, &domain.ValidationError{Fields: missing}
	}

	var nonPositive []string
	if !positive(*draft.Purity) {
		nonPositive = append(nonPositive, "purity")
	}
	if !positive(*draft.UnitCount) {
		nonPositive = append(nonPositive, "unit")
	}
	if len(nonPositive) > 0 {
		return domain.Commodity{}, &domain.ValidationError{Fields: nonPositive, Reason: "must be positive"}
	}

	now := s.now().UTC()
	c := domain.Commodity{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Metal:     domain.ParseMetal(draft.Metal),
		Purity:    *draft.Purity,
		UnitCount: *draft.UnitCount,
		Weight:    weight,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if draft.SellPremium != nil {
		c.SellPremium = *draft.SellPremium
	}
	if draft.BuyPremium != nil {
		c.BuyPremium = *draft.BuyPremium
	}
	if draft.SellCharge != nil {
		c.SellCharge = *draft.SellCharge
	}
	if draft.BuyCharge != nil {
		c.BuyCharge = *draft.BuyCharge
	}

	if err := s.commodities.Create(ctx, c); err != nil {
		return domain.Commodity{}, fmt.Errorf("registry_service: create commodity: %w", err)
	}

	s.announce(ctx, tenantID, "commodity_created", c.ID)
	return c, nil
}

// Update applies a partial edit to an existing entry. Only non-nil patch
// fields change; a patched weight outside the unit enum or a non-positive
// purity or unit count is rejected.
func (s *RegistryService) Update(ctx context.Context, tenantID string, id uuid.UUID, patch domain.CommodityPatch) (domain.Commodity, error) {
	c, err := s.commodities.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.Commodity{}, fmt.Errorf("registry_service: get commodity %s: %w", id, err)
	}

	if patch.Metal != nil {
		if *patch.Metal == "" {
			return domain.Commodity{}, &domain.ValidationError{Fields: []string{"metal"}}
		}
		c.Metal = domain.ParseMetal(*patch.Metal)
	}
	if patch.Purity != nil {
		if !positive(*patch.Purity) {
			return domain.Commodity{}, &domain.ValidationError{Fields: []string{"purity"}, Reason: "must be positive"}
		}
		c.Purity = *patch.Purity
	}
	if patch.UnitCount != nil {
		if !positive(*patch.UnitCount) {
			return domain.Commodity{}, &domain.ValidationError{Fields: []string{"unit"}, Reason: "must be positive"}
		}
		c.UnitCount = *patch.UnitCount
	}
	if patch.Weight != nil {
		weight, ok := domain.ParseWeightUnit(*patch.Weight)
		if !ok {
			return domain.Commodity{}, &domain.ValidationError{Fields: []string{"weight"}}
		}
		c.Weight = weight
	}
	if patch.SellPremium != nil {
		c.SellPremium = *patch.SellPremium
	}
	if patch.BuyPremium != nil {
		c.BuyPremium = *patch.BuyPremium
	}
	if patch.SellCharge != nil {
		c.SellCharge = *patch.SellCharge
	}
	if patch.BuyCharge != nil {
		c.BuyCharge = *patch.BuyCharge
	}
	c.UpdatedAt = s.now().UTC()

	if err := s.commodities.Update(ctx, c); err != nil {
		return domain.Commodity{}, fmt.Errorf("registry_service: update commodity %s: %w", id, err)
	}

	s.announce(ctx, tenantID, "commodity_updated", c.ID)
	return c, nil
}

// Delete removes a catalogue entry.
func (s *RegistryService) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	if err := s.commodities.Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("registry_service: delete commodity %s: %w", id, err)
	}
	s.announce(ctx, tenantID, "commodity_deleted", id)
	return nil
}

// Get returns one catalogue entry.
func (s *RegistryService) Get(ctx context.Context, tenantID string, id uuid.UUID) (domain.Commodity, error) {
	c, err := s.commodities.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.Commodity{}, fmt.Errorf("registry_service: get commodity %s: %w", id, err)
	}
	return c, nil
}

// List returns the tenant's full catalogue.
func (s *RegistryService) List(ctx context.Context, tenantID string) ([]domain.Commodity, error) {
	commodities, err := s.commodities.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("registry_service: list commodities: %w", err)
	}
	return commodities, nil
}

// Symbols returns the distinct feed subscription symbols for the tenant's
// catalogue. All gold variants collapse into the single GOLD symbol.
func (s *RegistryService) Symbols(ctx context.Context, tenantID string) ([]string, error) {
	commodities, err := s.commodities.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("registry_service: list commodities: %w", err)
	}
	return familySymbols(commodities), nil
}

// positive rejects zero, negatives and non-finite values in one place.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func (s *RegistryService) announce(ctx context.Context, tenantID, event string, id uuid.UUID) {
	payload, _ := json.Marshal(map[string]any{
		"event": event,
		"id":    id.String(),
	})
	if err := s.bus.Publish(ctx, ConfigChannel(tenantID), payload); err != nil {
		s.logger.WarnContext(ctx, "registry_service: publish config event failed",
			slog.String("tenant_id", tenantID),
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}
