package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aurumdesk/spotrate/internal/domain"
)

// SpreadService reads and updates the per-metal spread/margin documents.
// Every document is keyed by the pricing family, so editing the spread of
// any gold variant edits the shared Gold bucket.
type SpreadService struct {
	spreads domain.SpreadMarginStore
	bus     domain.SignalBus
	logger  *slog.Logger
}

// NewSpreadService creates a SpreadService.
func NewSpreadService(spreads domain.SpreadMarginStore, bus domain.SignalBus, logger *slog.Logger) *SpreadService {
	return &SpreadService{
		spreads: spreads,
		bus:     bus,
		logger:  logger.With(slog.String("component", "spread_service")),
	}
}

// Get returns the spread/margin document for a metal's pricing family. An
// unconfigured family yields the zero document.
func (s *SpreadService) Get(ctx context.Context, tenantID string, metal domain.Metal) (domain.SpreadMargin, error) {
	doc, err := s.spreads.Get(ctx, tenantID, metal.Family())
	if err != nil {
		return domain.SpreadMargin{}, fmt.Errorf("spread_service: get %s: %w", metal, err)
	}
	return doc, nil
}

// Update overwrites one slot of the family's document and announces the
// change so live sessions recompute their rates.
func (s *SpreadService) Update(ctx context.Context, tenantID string, metal domain.Metal, kind domain.SpreadKind, value float64) (domain.SpreadMargin, error) {
	if !kind.Valid() {
		return domain.SpreadMargin{}, &domain.ValidationError{Fields: []string{"kind"}}
	}

	family := metal.Family()
	doc, err := s.spreads.Set(ctx, tenantID, family, kind, value)
	if err != nil {
		return domain.SpreadMargin{}, fmt.Errorf("spread_service: set %s %s: %w", family, kind, err)
	}

	payload, _ := json.Marshal(map[string]any{
		"event": "spread_updated",
		"metal": string(family),
		"kind":  string(kind),
	})
	if pubErr := s.bus.Publish(ctx, ConfigChannel(tenantID), payload); pubErr != nil {
		s.logger.WarnContext(ctx, "spread_service: publish config event failed",
			slog.String("tenant_id", tenantID),
			slog.String("error", pubErr.Error()),
		)
	}

	return doc, nil
}
