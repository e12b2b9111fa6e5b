package billing

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/google/uuid"
)

// MerchantIDFunc extracts the acting merchant from the request.
type MerchantIDFunc func(r *http.Request) (uuid.UUID, bool)

// MerchantIDFromRequestContext is the default MerchantIDFunc, reading the
// ID the authentication layer placed in the request context.
func MerchantIDFromRequestContext(r *http.Request) (uuid.UUID, bool) {
	return MerchantIDFromContext(r.Context())
}

// BlockedHandler renders the response for a blocked action.
type BlockedHandler func(w http.ResponseWriter, r *http.Request, reason BlockingReason)

type guardConfig struct {
	merchantID MerchantIDFunc
	exempt     []BlockingReason
	onBlocked  BlockedHandler
	onError    func(w http.ResponseWriter, r *http.Request, err error)
}

// GuardOption configures the RequireUnblocked middleware.
type GuardOption func(*guardConfig)

// WithMerchantIDFunc overrides how the acting merchant is determined.
func WithMerchantIDFunc(fn MerchantIDFunc) GuardOption {
	return func(c *guardConfig) {
		if fn != nil {
			c.merchantID = fn
		}
	}
}

// WithExemptReasons lets specific reasons through. The wallet recharge
// endpoint uses this with BlockingLowWallet - a merchant must be able to
// top up an empty wallet.
func WithExemptReasons(reasons ...BlockingReason) GuardOption {
	return func(c *guardConfig) {
		c.exempt = append(c.exempt, reasons...)
	}
}

// WithBlockedHandler overrides the blocked-action response.
func WithBlockedHandler(h BlockedHandler) GuardOption {
	return func(c *guardConfig) {
		if h != nil {
			c.onBlocked = h
		}
	}
}

// WithGuardErrorHandler overrides the response for billing data-source
// failures.
func WithGuardErrorHandler(h func(w http.ResponseWriter, r *http.Request, err error)) GuardOption {
	return func(c *guardConfig) {
		if h != nil {
			c.onError = h
		}
	}
}

// RequireUnblocked creates middleware that recomputes the merchant's
// blocking reason before every request it wraps. The result is never reused
// from a prior request: each gated action pays for a fresh derivation.
//
// Blocked actions get an explicit 402 response naming the reason and the
// remedy, never a silent failure.
func RequireUnblocked(svc Service, opts ...GuardOption) func(http.Handler) http.Handler {
	if svc == nil {
		panic("billing: Service is required")
	}

	cfg := &guardConfig{
		merchantID: MerchantIDFromRequestContext,
		onBlocked:  defaultBlockedHandler,
		onError:    defaultGuardErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			merchantID, ok := cfg.merchantID(r)
			if !ok {
				cfg.onError(w, r, ErrNoMerchantInContext)
				return
			}

			reason, err := svc.BlockingReasonFor(r.Context(), merchantID)
			if err != nil {
				cfg.onError(w, r, err)
				return
			}

			if reason.Blocked() && !slices.Contains(cfg.exempt, reason) {
				cfg.onBlocked(w, r, reason)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// blockedResponse is the JSON body rendered for blocked actions.
type blockedResponse struct {
	Error          string         `json:"error"`
	BlockingReason BlockingReason `json:"blocking_reason"`
	Remedy         string         `json:"remedy"`
}

func defaultBlockedHandler(w http.ResponseWriter, r *http.Request, reason BlockingReason) {
	resp := blockedResponse{
		Error:          "action blocked by billing state",
		BlockingReason: reason,
	}
	switch reason {
	case BlockingLowWallet:
		resp.Remedy = "recharge your wallet to continue"
	case BlockingSubscriptionExpired:
		resp.Remedy = "renew your subscription to continue"
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusPaymentRequired)
	_ = json.NewEncoder(w).Encode(resp)
}

func defaultGuardErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNoMerchantInContext):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	default:
		http.Error(w, "Billing state unavailable", http.StatusServiceUnavailable)
	}
}
