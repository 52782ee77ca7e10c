package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/aurumdesk/spotrate/internal/domain"
	"github.com/aurumdesk/spotrate/internal/service"
)

// CommodityHandler serves the commodity catalogue CRUD endpoints.
type CommodityHandler struct {
	registry *service.RegistryService
	logger   *slog.Logger
}

// NewCommodityHandler creates a CommodityHandler.
func NewCommodityHandler(registry *service.RegistryService, logger *slog.Logger) *CommodityHandler {
	return &CommodityHandler{
		registry: registry,
		logger:   logger.With(slog.String("handler", "commodity")),
	}
}

// List returns the tenant's full catalogue.
// GET /api/commodities
func (h *CommodityHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	commodities, err := h.registry.List(r.Context(), tenant)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if commodities == nil {
		commodities = []domain.Commodity{}
	}
	writeJSON(w, http.StatusOK, commodities)
}

// Create validates and inserts a new catalogue entry.
// POST /api/commodities
func (h *CommodityHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	var draft domain.CommodityDraft
	if !decodeJSON(w, r, &draft) {
		return
	}

	c, err := h.registry.Create(r.Context(), tenant, draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Get returns one catalogue entry.
// GET /api/commodities/{id}
func (h *CommodityHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(pathParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid commodity id")
		return
	}

	c, err := h.registry.Get(r.Context(), tenant, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Update applies a partial edit to a catalogue entry.
// PATCH /api/commodities/{id}
func (h *CommodityHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(pathParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid commodity id")
		return
	}

	var patch domain.CommodityPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	c, err := h.registry.Update(r.Context(), tenant, id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete removes a catalogue entry.
// DELETE /api/commodities/{id}
func (h *CommodityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(pathParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid commodity id")
		return
	}

	if err := h.registry.Delete(r.Context(), tenant, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
