package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quickstore/platform/internal/storage"
	"github.com/quickstore/platform/pkg/billing"
	"github.com/quickstore/platform/pkg/tenant"
)

// envelope is the standard JSON response body.
type envelope struct {
	Data  any          `json:"data,omitempty"`
	Error *errorDetail `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Data: data})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: &errorDetail{Code: code, Message: message}})
}

// respondMapped translates domain errors into API responses so repositories
// never leak driver details to clients.
func respondMapped(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tenant.ErrStoreNotFound):
		respondError(w, http.StatusNotFound, "store_not_found", "store not found")
	case errors.Is(err, storage.ErrSubdomainTaken):
		respondError(w, http.StatusConflict, "subdomain_taken", "subdomain already taken")
	case errors.Is(err, storage.ErrCustomDomainTaken):
		respondError(w, http.StatusConflict, "custom_domain_taken", "custom domain already taken")
	case errors.Is(err, storage.ErrInsufficientFunds):
		respondError(w, http.StatusUnprocessableEntity, "insufficient_funds", "insufficient wallet funds")
	case errors.Is(err, storage.ErrCurrencyMismatch):
		respondError(w, http.StatusUnprocessableEntity, "currency_mismatch", "currency does not match wallet")
	case errors.Is(err, billing.ErrBillingUnavailable):
		respondError(w, http.StatusServiceUnavailable, "billing_unavailable", "billing state unavailable")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
