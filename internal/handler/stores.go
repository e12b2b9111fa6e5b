package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quickstore/platform/pkg/billing"
	"github.com/quickstore/platform/pkg/tenant"
)

// CacheInvalidator drops cached resolutions for a store's hosts after
// routing-relevant updates. Satisfied by *tenant.Resolver.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, store *tenant.Store)
}

// StoreHandler serves the merchant store API: creation, publication status,
// custom domain attachment and verification, and the order endpoint.
type StoreHandler struct {
	stores      StoreRepo
	orders      OrderRepo
	billing     billing.Service
	invalidator CacheInvalidator
}

// NewStoreHandler creates the handler. Panics on nil dependencies to fail
// fast during initialization.
func NewStoreHandler(stores StoreRepo, orders OrderRepo, billingSvc billing.Service, invalidator CacheInvalidator) *StoreHandler {
	if stores == nil {
		panic("handler: StoreRepository is required")
	}
	if orders == nil {
		panic("handler: OrderRepository is required")
	}
	if billingSvc == nil {
		panic("handler: billing.Service is required")
	}
	if invalidator == nil {
		panic("handler: CacheInvalidator is required")
	}
	return &StoreHandler{
		stores:      stores,
		orders:      orders,
		billing:     billingSvc,
		invalidator: invalidator,
	}
}

// List handles GET /api/stores.
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := billing.MerchantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "merchant session required")
		return
	}

	stores, err := h.stores.ListByMerchant(r.Context(), merchantID)
	if err != nil {
		respondMapped(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stores)
}

type createStoreRequest struct {
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

// Create handles POST /api/stores. The plan's store limit is enforced here;
// billing blocking is enforced by the guard in front of the route.
func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := billing.MerchantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "merchant session required")
		return
	}

	var req createStoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "malformed request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Subdomain = strings.ToLower(strings.TrimSpace(req.Subdomain))
	if req.Name == "" || !tenant.IsValidSubdomain(req.Subdomain) {
		respondError(w, http.StatusUnprocessableEntity, "invalid_store", "name and a valid subdomain are required")
		return
	}

	if err := h.checkStoreLimit(r.Context(), merchantID); err != nil {
		if err == errStoreLimitReached {
			respondError(w, http.StatusUnprocessableEntity, "store_limit_reached", "plan store limit reached")
			return
		}
		respondMapped(w, err)
		return
	}

	store, err := h.stores.Create(r.Context(), merchantID, req.Name, req.Subdomain)
	if err != nil {
		respondMapped(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, store)
}

type setStatusRequest struct {
	Status tenant.Status `json:"status"`
}

// SetStatus handles PUT /api/stores/{id}/status, publishing or pausing a
// store. Cached resolutions are dropped so the change takes effect within
// one lookup instead of a full TTL.
func (h *StoreHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ownedStore(w, r)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "malformed request body")
		return
	}
	switch req.Status {
	case tenant.StatusDraft, tenant.StatusLive, tenant.StatusPaused:
	default:
		respondError(w, http.StatusUnprocessableEntity, "invalid_status", "unknown store status")
		return
	}

	updated, err := h.stores.SetStatus(r.Context(), store.ID, req.Status)
	if err != nil {
		respondMapped(w, err)
		return
	}

	h.invalidator.Invalidate(r.Context(), updated)

	respondJSON(w, http.StatusOK, updated)
}

type setDomainRequest struct {
	Domain string `json:"domain"`
}

// SetCustomDomain handles PUT /api/stores/{id}/domain. Attaching always
// resets verification; an empty domain detaches. Both the old and the new
// host keys are invalidated.
func (h *StoreHandler) SetCustomDomain(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ownedStore(w, r)
	if !ok {
		return
	}

	var req setDomainRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "malformed request body")
		return
	}

	updated, err := h.stores.SetCustomDomain(r.Context(), store.ID, req.Domain)
	if err != nil {
		respondMapped(w, err)
		return
	}

	h.invalidator.Invalidate(r.Context(), store)
	h.invalidator.Invalidate(r.Context(), updated)

	respondJSON(w, http.StatusOK, updated)
}

// VerifyCustomDomain handles POST /api/stores/{id}/domain/verify. Ownership
// verification itself (DNS challenge) runs out of band; this endpoint
// records its success.
func (h *StoreHandler) VerifyCustomDomain(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ownedStore(w, r)
	if !ok {
		return
	}
	if store.Domain.CustomDomain == "" {
		respondError(w, http.StatusUnprocessableEntity, "no_custom_domain", "no custom domain attached")
		return
	}

	updated, err := h.stores.MarkCustomDomainVerified(r.Context(), store.ID)
	if err != nil {
		respondMapped(w, err)
		return
	}

	h.invalidator.Invalidate(r.Context(), updated)

	respondJSON(w, http.StatusOK, updated)
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder handles POST /api/stores/{id}/orders. The per-order fee of the
// merchant's current plan is recorded with the order and debited from the
// wallet by settlement jobs.
func (h *StoreHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ownedStore(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
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

	fee := billing.Money{Currency: req.Currency}
	if overview, err := h.billing.Overview(r.Context(), store.MerchantID); err == nil && overview.PlanID != "" {
		if plan, ok := h.billing.Plan(overview.PlanID); ok {
			fee = plan.OrderFee
		}
	}

	order, err := h.orders.Create(r.Context(), store.ID, billing.Money{Amount: req.Amount, Currency: req.Currency}, fee)
	if err != nil {
		respondMapped(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// ListOrders handles GET /api/stores/{id}/orders.
func (h *StoreHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	store, ok := h.ownedStore(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListByStore(r.Context(), store.ID, 50)
	if err != nil {
		respondMapped(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

var errStoreLimitReached = &limitError{}

type limitError struct{}

func (e *limitError) Error() string { return "store limit reached" }

func (h *StoreHandler) checkStoreLimit(ctx context.Context, merchantID uuid.UUID) error {
	overview, err := h.billing.Overview(ctx, merchantID)
	if err != nil {
		return err
	}

	plan, ok := h.billing.Plan(overview.PlanID)
	if !ok || plan.StoreLimit == billing.Unlimited {
		return nil
	}

	count, err := h.stores.CountByMerchant(ctx, merchantID)
	if err != nil {
		return err
	}
	if int64(count) >= plan.StoreLimit {
		return errStoreLimitReached
	}
	return nil
}

// ownedStore loads the store addressed by the {id} route parameter and
// enforces that the session merchant owns it.
func (h *StoreHandler) ownedStore(w http.ResponseWriter, r *http.Request) (*tenant.Store, bool) {
	merchantID, ok := billing.MerchantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "merchant session required")
		return nil, false
	}

	storeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "store_not_found", "store not found")
		return nil, false
	}

	store, err := h.stores.GetByID(r.Context(), storeID)
	if err != nil {
		respondMapped(w, err)
		return nil, false
	}
	if store.MerchantID != merchantID {
		// Hide other merchants' stores rather than acknowledging them.
		respondError(w, http.StatusNotFound, "store_not_found", "store not found")
		return nil, false
	}

	return store, true
}
