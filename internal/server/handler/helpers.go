package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aurumdesk/spotrate/internal/domain"
	"github.com/aurumdesk/spotrate/internal/server/middleware"
)

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain-text 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a service-layer error to its HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// tenantID reads the authenticated tenant from the request context. A
// missing tenant means the auth middleware did not run for this route.
func tenantID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := middleware.TenantID(r.Context())
	if id == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return id, true
}

// decodeJSON parses the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathParam extracts a named path parameter from the request using Go 1.22+
// built-in routing (http.Request.PathValue).
func pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}

// queryCurrency resolves the display currency from the query string,
// defaulting when absent. An unknown code is a client error.
func queryCurrency(w http.ResponseWriter, r *http.Request, fallback domain.Currency) (domain.Currency, bool) {
	raw := r.URL.Query().Get("currency")
	if raw == "" {
		return fallback, true
	}
	cur, ok := domain.ParseCurrency(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported currency")
		return "", false
	}
	return cur, true
}
