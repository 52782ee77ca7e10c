package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumdesk/spotrate/internal/domain"
	"github.com/aurumdesk/spotrate/internal/server/middleware"
	"github.com/aurumdesk/spotrate/internal/service"
)

type stubCommodityStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]domain.Commodity
}

func newStubCommodityStore() *stubCommodityStore {
	return &stubCommodityStore{items: make(map[uuid.UUID]domain.Commodity)}
}

func (s *stubCommodityStore) Create(_ context.Context, c domain.Commodity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[c.ID] = c
	return nil
}

func (s *stubCommodityStore) Update(_ context.Context, c domain.Commodity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.items[c.ID]; !ok || existing.TenantID != c.TenantID {
		return domain.ErrNotFound
	}
	s.items[c.ID] = c
	return nil
}

func (s *stubCommodityStore) GetByID(_ context.Context, tenantID string, id uuid.UUID) (domain.Commodity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok || c.TenantID != tenantID {
		return domain.Commodity{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *stubCommodityStore) ListByTenant(_ context.Context, tenantID string) ([]domain.Commodity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Commodity
	for _, c := range s.items {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCommodityStore) Delete(_ context.Context, tenantID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.items[id]; !ok || c.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type stubBus struct{}

func (stubBus) Publish(context.Context, string, []byte) error { return nil }
func (stubBus) Subscribe(context.Context, string) (<-chan []byte, error) {
	return make(chan []byte), nil
}

func newCommodityMux(t *testing.T) *http.ServeMux {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	registry := service.NewRegistryService(newStubCommodityStore(), stubBus{}, logger)
	h := NewCommodityHandler(registry, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/commodities", h.List)
	mux.HandleFunc("POST /api/commodities", h.Create)
	mux.HandleFunc("GET /api/commodities/{id}", h.Get)
	mux.HandleFunc("PATCH /api/commodities/{id}", h.Update)
	mux.HandleFunc("DELETE /api/commodities/{id}", h.Delete)
	return mux
}

func doRequest(mux *http.ServeMux, method, target, tenant, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if tenant != "" {
		req = req.WithContext(middleware.WithTenantID(req.Context(), tenant))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCommodityCreateAndGet(t *testing.T) {
	mux := newCommodityMux(t)

	rec := doRequest(mux, http.MethodPost, "/api/commodities", "tenant-1",
		`{"metal":"Gold","purity":999,"unit":1,"weight":"gm","sellPremium":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Commodity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, domain.MetalGold, created.Metal)
	assert.Equal(t, 2.0, created.SellPremium)

	rec = doRequest(mux, http.MethodGet, "/api/commodities/"+created.ID.String(), "tenant-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCommodityCreateValidationError(t *testing.T) {
	mux := newCommodityMux(t)

	rec := doRequest(mux, http.MethodPost, "/api/commodities", "tenant-1", `{"metal":"Gold"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "purity, unit, weight are required", body["error"])
}

func TestCommodityListEmptyIsArray(t *testing.T) {
	mux := newCommodityMux(t)

	rec := doRequest(mux, http.MethodGet, "/api/commodities", "tenant-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestCommodityUpdateNotFound(t *testing.T) {
	mux := newCommodityMux(t)

	rec := doRequest(mux, http.MethodPatch, "/api/commodities/"+uuid.NewString(), "tenant-1", `{"purity":9999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommodityBadID(t *testing.T) {
	mux := newCommodityMux(t)

	rec := doRequest(mux, http.MethodGet, "/api/commodities/not-a-uuid", "tenant-1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid commodity id")
}

func TestCommodityMissingTenant(t *testing.T) {
	mux := newCommodityMux(t)

	rec := doRequest(mux, http.MethodGet, "/api/commodities", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCommodityDelete(t *testing.T) {
	mux := newCommodityMux(t)

	rec := doRequest(mux, http.MethodPost, "/api/commodities", "tenant-1",
		`{"metal":"Silver","purity":999,"unit":1,"weight":"oz"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Commodity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(mux, http.MethodDelete, "/api/commodities/"+created.ID.String(), "tenant-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(mux, http.MethodGet, "/api/commodities/"+created.ID.String(), "tenant-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
