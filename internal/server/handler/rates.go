package handler

import (
	"log/slog"
	"net/http"

	"github.com/aurumdesk/spotrate/internal/domain"
	"github.com/aurumdesk/spotrate/internal/service"
)

// RatesHandler serves rate snapshots and spread/margin configuration.
type RatesHandler struct {
	pricing  *service.PricingService
	spreads  *service.SpreadService
	currency domain.Currency
	logger   *slog.Logger
}

// NewRatesHandler creates a RatesHandler. The currency is the default when
// no ?currency= is supplied.
func NewRatesHandler(pricing *service.PricingService, spreads *service.SpreadService, currency domain.Currency, logger *slog.Logger) *RatesHandler {
	return &RatesHandler{
		pricing:  pricing,
		spreads:  spreads,
		currency: currency,
		logger:   logger.With(slog.String("handler", "rates")),
	}
}

// Snapshot returns the tenant's current rates view from the mirrored quote
// cache.
// GET /api/rates?currency=AED
func (h *RatesHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}
	cur, ok := queryCurrency(w, r, h.currency)
	if !ok {
		return
	}

	view, err := h.pricing.RatesSnapshot(r.Context(), tenant, cur)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "rates snapshot failed",
			slog.String("tenant_id", tenant),
			slog.String("error", err.Error()),
		)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// GetSpread returns the spread/margin document for a metal's pricing family.
// GET /api/rates/spread?metal=Gold
func (h *RatesHandler) GetSpread(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}
	metal := domain.ParseMetal(r.URL.Query().Get("metal"))
	if metal == "" {
		writeError(w, http.StatusBadRequest, "metal is required")
		return
	}

	doc, err := h.spreads.Get(r.Context(), tenant, metal)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// spreadUpdateRequest is the body of a spread update.
type spreadUpdateRequest struct {
	Metal string            `json:"metal"`
	Kind  domain.SpreadKind `json:"kind"`
	Value float64           `json:"value"`
}

// UpdateSpread overwrites one slot of a family's spread/margin document and
// returns the resulting document.
// POST /api/rates/spread
func (h *RatesHandler) UpdateSpread(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	var req spreadUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	metal := domain.ParseMetal(req.Metal)
	if metal == "" {
		writeError(w, http.StatusBadRequest, "metal is required")
		return
	}

	doc, err := h.spreads.Update(r.Context(), tenant, metal, req.Kind, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
