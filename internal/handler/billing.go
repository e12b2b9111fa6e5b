package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/quickstore/platform/pkg/billing"
)

// BillingHandler serves the merchant billing API: the overview merchants
// poll before gated actions, the public plan catalog, and the subscribe and
// wallet-recharge mutations.
type BillingHandler struct {
	svc  billing.Service
	repo BillingRepo
}

// NewBillingHandler creates the handler. Panics on nil dependencies to fail
// fast during initialization.
func NewBillingHandler(svc billing.Service, repo BillingRepo) *BillingHandler {
	if svc == nil {
		panic("handler: billing.Service is required")
	}
	if repo == nil {
		panic("handler: BillingRepository is required")
	}
	return &BillingHandler{svc: svc, repo: repo}
}

// Overview handles GET /api/billing/overview. The blocking reason is
// computed fresh on every call; clients must not cache it across actions.
func (h *BillingHandler) Overview(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := billing.MerchantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "merchant session required")
		return
	}

	overview, err := h.svc.Overview(r.Context(), merchantID)
	if err != nil {
		respondMapped(w, err)
		return
	}

	respondJSON(w, http.StatusOK, overview)
}

// Plans handles GET /api/billing/plans, returning public catalog entries
// sorted by monthly price.
func (h *BillingHandler) Plans(w http.ResponseWriter, r *http.Request) {
	var plans []billing.Plan
	for _, p := range h.svc.Plans() {
		if p.Public {
			plans = append(plans, p)
		}
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].MonthlyPrice.Amount < plans[j].MonthlyPrice.Amount
	})

	respondJSON(w, http.StatusOK, plans)
}

type subscribeRequest struct {
	PlanID string `json:"plan_id"`
}

// Subscribe handles POST /api/billing/subscribe. It writes the merchant's
// subscription row directly; payment collection is handled by external
// billing jobs that update the row's status afterwards.
func (h *BillingHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := billing.MerchantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "merchant session required")
		return
	}

	var req subscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "malformed request body")
		return
	}

	plan, ok := h.svc.Plan(req.PlanID)
	if !ok || !plan.Public {
		respondError(w, http.StatusUnprocessableEntity, "unknown_plan", "unknown plan")
		return
	}

	now := time.Now().UTC()
	sub := billing.Subscription{
		MerchantID: merchantID,
		PlanID:     plan.ID,
		Status:     billing.StatusActive,
		StartedAt:  now,
	}
	if plan.TrialDays > 0 {
		trialEnd := plan.TrialEndsAt(now)
		sub.Status = billing.StatusTrialing
		sub.TrialExpiresAt = &trialEnd
	}

	out, err := h.repo.UpsertSubscription(r.Context(), sub)
	if err != nil {
		respondMapped(w, err)
		return
	}

	respondJSON(w, http.StatusOK, out)
}

type rechargeRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Recharge handles POST /api/billing/wallet/recharge. The route is guarded
// with a LOW_WALLET exemption so an empty wallet can always be topped up.
func (h *BillingHandler) Recharge(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := billing.MerchantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "merchant session required")
		return
	}

	var req rechargeRequest
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

	wallet, err := h.repo.Credit(r.Context(), merchantID, billing.Money{Amount: req.Amount, Currency: req.Currency})
	if err != nil {
		respondMapped(w, err)
		return
	}

	respondJSON(w, http.StatusOK, wallet)
}
