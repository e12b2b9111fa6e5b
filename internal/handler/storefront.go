package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickstore/platform/pkg/billing"
	"github.com/quickstore/platform/pkg/tenant"
)

// StorefrontHandler serves the public storefront routes that requests land
// on after host-based path rewriting. The resolved store is read from the
// request context where the dispatch middleware placed it; the {subdomain}
// path segment is routing-only.
type StorefrontHandler struct {
	orders OrderRepo
}

// NewStorefrontHandler creates the handler. Panics on a nil repository to
// fail fast during initialization.
func NewStorefrontHandler(orders OrderRepo) *StorefrontHandler {
	if orders == nil {
		panic("handler: OrderRepository is required")
	}
	return &StorefrontHandler{orders: orders}
}

// Routes returns the storefront router, mounted under /store/{subdomain}.
func (h *StorefrontHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requireStore)
	r.Get("/", h.Home)
	r.Get("/products/{productID}", h.Product)
	r.Post("/checkout", h.Checkout)
	return r
}

// requireStore rejects storefront requests that reached the router without
// a resolved store, e.g. a direct /store/... request on a platform host.
func requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := tenant.FromContext(r.Context()); !ok {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Home handles the storefront root.
func (h *StorefrontHandler) Home(w http.ResponseWriter, r *http.Request) {
	store := tenant.MustFromContext(r.Context())

	respondJSON(w, http.StatusOK, map[string]any{
		"store": map[string]any{
			"id":        store.ID,
			"name":      store.Name,
			"subdomain": store.Domain.Subdomain,
		},
	})
}

// Product handles a storefront product page. Product data lives in the
// storefront rendering service; this route only proves tenant-scoped
// routing end to end.
func (h *StorefrontHandler) Product(w http.ResponseWriter, r *http.Request) {
	store := tenant.MustFromContext(r.Context())

	respondJSON(w, http.StatusOK, map[string]any{
		"store_id":   store.ID,
		"product_id": chi.URLParam(r, "productID"),
	})
}

type checkoutRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Checkout handles a buyer placing an order on the storefront. Orders are
// recorded without a fee; settlement jobs apply the merchant plan's
// per-order fee when they debit the wallet.
func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	store := tenant.MustFromContext(r.Context())

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "malformed request body")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "invalid_amount", "amount must be positive")
		return
	}
	if req.Currency == "" {
		req.Currency = billing.DefaultCurrency
	}

	order, err := h.orders.Create(r.Context(), store.ID,
		billing.Money{Amount: req.Amount, Currency: req.Currency},
		billing.Money{Currency: req.Currency})
	if err != nil {
		respondMapped(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}
