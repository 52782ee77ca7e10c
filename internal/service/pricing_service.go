package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aurumdesk/spotrate/internal/domain"
	"github.com/aurumdesk/spotrate/internal/pricing"
	"github.com/aurumdesk/spotrate/internal/quoteboard"
)

// RateCard is the symbol-level header row of a rates view: the
// spread-adjusted per-ounce prices plus the per-gram headline figure.
// PerGram is nil when it cannot be displayed.
type RateCard struct {
	Symbol    string               `json:"symbol"`
	Metal     domain.Metal         `json:"metal"`
	Bidding   float64              `json:"bidding"`
	Asking    float64              `json:"asking"`
	Low       float64              `json:"low"`
	High      float64              `json:"high"`
	PerGram   *float64             `json:"perGram,omitempty"`
	Direction domain.TickDirection `json:"direction,omitempty"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// PricedRow pairs a catalogue commodity with its derived price. Price is nil
// when no quote exists for the commodity's family or the derivation produced
// a non-displayable value.
type PricedRow struct {
	Commodity domain.Commodity     `json:"commodity"`
	Price     *domain.DerivedPrice `json:"price,omitempty"`
}

// RatesView is the full rates payload for one tenant: published on every
// tick and served by the snapshot endpoint in the same shape.
type RatesView struct {
	Currency    domain.Currency `json:"currency"`
	Cards       []RateCard      `json:"cards"`
	Rows        []PricedRow     `json:"rows"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// PricingService folds market ticks into quote state, derives commodity
// prices and publishes the resulting rates view on the signal bus.
type PricingService struct {
	quotes      domain.QuoteCache
	spreads     domain.SpreadMarginStore
	commodities domain.CommodityStore
	bus         domain.SignalBus
	calc        *pricing.Calculator
	currency    domain.Currency
	logger      *slog.Logger
}

// NewPricingService creates a PricingService. The currency is the default
// display currency used for views published on tick.
func NewPricingService(
	quotes domain.QuoteCache,
	spreads domain.SpreadMarginStore,
	commodities domain.CommodityStore,
	bus domain.SignalBus,
	calc *pricing.Calculator,
	currency domain.Currency,
	logger *slog.Logger,
) *PricingService {
	return &PricingService{
		quotes:      quotes,
		spreads:     spreads,
		commodities: commodities,
		bus:         bus,
		calc:        calc,
		currency:    currency,
		logger:      logger.With(slog.String("component", "pricing_service")),
	}
}

// HandleTick folds one tick into the session's quote board, mirrors the
// resulting quote into the cache, recomputes the tenant's rates view and
// publishes it. Cache and bus failures are logged, not fatal: the next tick
// repairs them.
func (s *PricingService) HandleTick(ctx context.Context, tenantID string, board *quoteboard.Board, tick domain.Tick) error {
	q := board.Apply(tick)

	if err := s.quotes.SetQuote(ctx, tenantID, q); err != nil {
		s.logger.WarnContext(ctx, "pricing_service: mirror quote failed",
			slog.String("tenant_id", tenantID),
			slog.String("symbol", q.Symbol),
			slog.String("error", err.Error()),
		)
	}

	return s.Recompute(ctx, tenantID, board)
}

// Recompute rebuilds the tenant's rates view from the board and publishes
// it. Called on every tick and whenever catalogue or spread configuration
// changes between ticks.
func (s *PricingService) Recompute(ctx context.Context, tenantID string, board *quoteboard.Board) error {
	view, err := s.compose(ctx, tenantID, s.currency, board.Snapshot())
	if err != nil {
		return fmt.Errorf("pricing_service: compose view for %q: %w", tenantID, err)
	}

	payload, _ := json.Marshal(view)
	if pubErr := s.bus.Publish(ctx, RatesChannel(tenantID), payload); pubErr != nil {
		s.logger.WarnContext(ctx, "pricing_service: publish rates failed",
			slog.String("tenant_id", tenantID),
			slog.String("error", pubErr.Error()),
		)
	}

	return nil
}

// RatesSnapshot composes the tenant's rates view from the mirrored quote
// cache, so it works without a live feed session on this instance.
func (s *PricingService) RatesSnapshot(ctx context.Context, tenantID string, cur domain.Currency) (RatesView, error) {
	commodities, err := s.commodities.ListByTenant(ctx, tenantID)
	if err != nil {
		return RatesView{}, fmt.Errorf("pricing_service: list commodities for %q: %w", tenantID, err)
	}

	symbols := familySymbols(commodities)
	quotes, err := s.quotes.GetQuotes(ctx, tenantID, symbols)
	if err != nil {
		return RatesView{}, fmt.Errorf("pricing_service: get quotes for %q: %w", tenantID, err)
	}

	return s.composeWith(ctx, tenantID, cur, commodities, quotes)
}

// compose builds the rates view from an already-resolved quote set.
func (s *PricingService) compose(ctx context.Context, tenantID string, cur domain.Currency, quotes map[string]domain.Quote) (RatesView, error) {
	commodities, err := s.commodities.ListByTenant(ctx, tenantID)
	if err != nil {
		return RatesView{}, fmt.Errorf("list commodities: %w", err)
	}
	return s.composeWith(ctx, tenantID, cur, commodities, quotes)
}

func (s *PricingService) composeWith(ctx context.Context, tenantID string, cur domain.Currency, commodities []domain.Commodity, quotes map[string]domain.Quote) (RatesView, error) {
	view := RatesView{
		Currency:    cur,
		Cards:       []RateCard{},
		Rows:        make([]PricedRow, 0, len(commodities)),
		GeneratedAt: time.Now().UTC(),
	}

	// One spread document per pricing family, fetched once.
	spreads := make(map[domain.Metal]domain.SpreadMargin)
	for _, family := range families(commodities) {
		doc, err := s.spreads.Get(ctx, tenantID, family)
		if err != nil {
			return RatesView{}, fmt.Errorf("get spread margin %s: %w", family, err)
		}
		spreads[family] = doc

		q, ok := quotes[family.Symbol()]
		if !ok {
			continue
		}
		card := RateCard{
			Symbol:    q.Symbol,
			Metal:     family,
			Bidding:   pricing.Round(pricing.BiddingPrice(q, doc)),
			Asking:    pricing.Round(pricing.AskingPrice(q, doc, family)),
			Low:       pricing.Round(pricing.LowValue(q, doc)),
			High:      pricing.Round(pricing.HighValue(q, doc)),
			Direction: q.BidDirection,
			UpdatedAt: q.UpdatedAt,
		}
		if perGram := s.calc.PerGramLocal(q, doc, cur); finite(perGram) {
			card.PerGram = &perGram
		}
		view.Cards = append(view.Cards, card)
	}

	for _, c := range commodities {
		row := PricedRow{Commodity: c}
		if q, ok := quotes[c.Metal.Symbol()]; ok {
			price := s.calc.Price(q, spreads[c.Metal.Family()], c, cur)
			if price.Valid() {
				row.Price = &price
			}
		}
		view.Rows = append(view.Rows, row)
	}

	return view, nil
}

// families returns the distinct pricing families of a catalogue, in first-seen
// order.
func families(commodities []domain.Commodity) []domain.Metal {
	seen := make(map[domain.Metal]struct{}, len(commodities))
	var out []domain.Metal
	for _, c := range commodities {
		f := c.Metal.Family()
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// familySymbols returns the distinct feed symbols of a catalogue.
func familySymbols(commodities []domain.Commodity) []string {
	fams := families(commodities)
	out := make([]string, 0, len(fams))
	for _, f := range fams {
		out = append(out, f.Symbol())
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
