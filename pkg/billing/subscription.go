package billing

import (
	"time"

	"github.com/google/uuid"
)

// Subscription represents a merchant's subscription state.
// Each merchant account has exactly one subscription row, keyed by
// MerchantID. The row is owned by external billing jobs; this package only
// reads it.
type Subscription struct {
	MerchantID     uuid.UUID          `json:"merchant_id"`
	PlanID         string             `json:"plan_id"`
	Status         SubscriptionStatus `json:"status"`
	StartedAt      time.Time          `json:"started_at"`
	ExpiresAt      *time.Time         `json:"expires_at,omitempty"`
	TrialExpiresAt *time.Time         `json:"trial_expires_at,omitempty"`
	GracePeriodEnd *time.Time         `json:"grace_period_end,omitempty"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// IsActive returns true if the subscription is active (paid).
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// IsTrialing returns true if the subscription is in trial status.
func (s *Subscription) IsTrialing() bool {
	return s.Status == StatusTrialing
}

// IsLapsed reports whether the subscription status itself has lapsed,
// before any grace period is considered.
func (s *Subscription) IsLapsed() bool {
	switch s.Status {
	case StatusExpired, StatusCanceled, StatusPastDue:
		return true
	default:
		return false
	}
}

// GraceElapsedAt reports whether any grace period has run out at the given
// time. A subscription without a grace period has nothing left to wait for.
func (s *Subscription) GraceElapsedAt(now time.Time) bool {
	if s.GracePeriodEnd == nil {
		return true
	}
	return now.After(*s.GracePeriodEnd)
}

// Wallet holds a merchant's custody funds used to pay per-order fees or the
// plan price. Balance only changes through ledger transactions outside this
// package; the engine reads the current balance.
type Wallet struct {
	MerchantID uuid.UUID `json:"merchant_id"`
	Balance    Money     `json:"balance"`
	UpdatedAt  time.Time `json:"updated_at"`
}
