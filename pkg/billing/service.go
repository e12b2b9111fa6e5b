package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SubscriptionStore reads subscription rows.
// Returns ErrSubscriptionNotFound when no row exists for the merchant.
type SubscriptionStore interface {
	GetSubscription(ctx context.Context, merchantID uuid.UUID) (*Subscription, error)
}

// WalletStore reads wallet rows.
// Returns ErrWalletNotFound when no row exists for the merchant.
type WalletStore interface {
	GetWallet(ctx context.Context, merchantID uuid.UUID) (*Wallet, error)
}

// PlansListSource defines how plans are loaded into the service.
type PlansListSource interface {
	Load(ctx context.Context) (map[string]Plan, error)
}

// Overview is the billing snapshot consumers poll before gated actions.
// It is computed fresh on every call and must not be reused across actions.
type Overview struct {
	BlockingReason     BlockingReason     `json:"blocking_reason"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	PlanID             string             `json:"plan_id,omitempty"`
	WalletBalance      Money              `json:"wallet_balance"`
	TrialExpiresAt     *time.Time         `json:"trial_expires_at,omitempty"`
	GracePeriodEnd     *time.Time         `json:"grace_period_end,omitempty"`
}

// Service computes merchant billing state from its read-only inputs.
type Service interface {
	// Overview fetches the merchant's billing records and derives the
	// current blocking reason. Missing records fail closed; data-source
	// failures return ErrBillingUnavailable.
	Overview(ctx context.Context, merchantID uuid.UUID) (*Overview, error)

	// BlockingReasonFor is a convenience wrapper returning only the
	// derived reason.
	BlockingReasonFor(ctx context.Context, merchantID uuid.UUID) (BlockingReason, error)

	// Plan returns a plan from the loaded catalog.
	Plan(id string) (Plan, bool)

	// Plans returns the loaded plan catalog.
	Plans() map[string]Plan
}

type service struct {
	plans         map[string]Plan
	subscriptions SubscriptionStore
	wallets       WalletStore
	minReserve    int64
	now           func() time.Time
}

// ServiceOption configures the service.
type ServiceOption func(*service)

// WithMinWalletReserve sets the minimum wallet reserve, in the smallest
// currency unit, required before a paid-plan merchant may transact.
// When unset, one order fee of the merchant's plan is required.
func WithMinWalletReserve(amount int64) ServiceOption {
	return func(s *service) {
		if amount > 0 {
			s.minReserve = amount
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a billing Service. The plan catalog is loaded once at
// construction. Panics if required dependencies are nil to fail fast during
// initialization.
func NewService(ctx context.Context, src PlansListSource, subscriptions SubscriptionStore, wallets WalletStore, opts ...ServiceOption) (Service, error) {
	if src == nil {
		panic("billing: PlansListSource is required")
	}
	if subscriptions == nil {
		panic("billing: SubscriptionStore is required")
	}
	if wallets == nil {
		panic("billing: WalletStore is required")
	}

	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}
	if err := validatePlans(plans); err != nil {
		return nil, err
	}

	s := &service{
		plans:         plans,
		subscriptions: subscriptions,
		wallets:       wallets,
		now:           func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *service) Overview(ctx context.Context, merchantID uuid.UUID) (*Overview, error) {
	sub, err := s.subscriptions.GetSubscription(ctx, merchantID)
	if err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
		return nil, errors.Join(ErrBillingUnavailable, err)
	}

	wallet, err := s.wallets.GetWallet(ctx, merchantID)
	if err != nil && !errors.Is(err, ErrWalletNotFound) {
		return nil, errors.Join(ErrBillingUnavailable, err)
	}

	var plan *Plan
	overview := &Overview{SubscriptionStatus: StatusInactive}

	if sub != nil {
		overview.SubscriptionStatus = sub.Status
		overview.PlanID = sub.PlanID
		overview.TrialExpiresAt = sub.TrialExpiresAt
		overview.GracePeriodEnd = sub.GracePeriodEnd
		if p, ok := s.plans[sub.PlanID]; ok {
			plan = &p
		}
	}
	if wallet != nil {
		overview.WalletBalance = wallet.Balance
	}

	overview.BlockingReason = ComputeBlockingReason(sub, wallet, plan, s.minReserve, s.now())

	return overview, nil
}

func (s *service) BlockingReasonFor(ctx context.Context, merchantID uuid.UUID) (BlockingReason, error) {
	overview, err := s.Overview(ctx, merchantID)
	if err != nil {
		return BlockingSubscriptionExpired, err
	}
	return overview.BlockingReason, nil
}

func (s *service) Plan(id string) (Plan, bool) {
	p, ok := s.plans[id]
	return p, ok
}

func (s *service) Plans() map[string]Plan {
	out := make(map[string]Plan, len(s.plans))
	for id, p := range s.plans {
		out[id] = p
	}
	return out
}

// validatePlans rejects catalogs that would make the engine misbehave at
// request time: duplicate-free IDs come from the map, but IDs must be
// non-empty, prices non-negative, and at most one default free tier.
func validatePlans(plans map[string]Plan) error {
	if len(plans) == 0 {
		return errors.Join(ErrInvalidPlanConfiguration, errors.New("plan catalog is empty"))
	}
	for id, p := range plans {
		if id == "" || p.ID == "" {
			return errors.Join(ErrInvalidPlanConfiguration, errors.New("plan with empty ID"))
		}
		if id != p.ID {
			return errors.Join(ErrInvalidPlanConfiguration, errors.New("plan catalog key does not match plan ID"))
		}
		if p.MonthlyPrice.Amount < 0 || p.OrderFee.Amount < 0 {
			return errors.Join(ErrInvalidPlanConfiguration, errors.New("plan with negative price"))
		}
	}
	return nil
}
