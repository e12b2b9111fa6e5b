package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickstore/platform/pkg/billing"
)

type memorySubs struct {
	rows map[uuid.UUID]*billing.Subscription
	err  error
}

func (m *memorySubs) GetSubscription(ctx context.Context, merchantID uuid.UUID) (*billing.Subscription, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.rows[merchantID]; ok {
		return s, nil
	}
	return nil, billing.ErrSubscriptionNotFound
}

type memoryWallets struct {
	rows map[uuid.UUID]*billing.Wallet
	err  error
}

func (m *memoryWallets) GetWallet(ctx context.Context, merchantID uuid.UUID) (*billing.Wallet, error) {
	if m.err != nil {
		return nil, m.err
	}
	if w, ok := m.rows[merchantID]; ok {
		return w, nil
	}
	return nil, billing.ErrWalletNotFound
}

func testCatalog() billing.StaticPlanSource {
	return billing.StaticPlanSource{
		"starter": {ID: "starter", Name: "Starter", Public: true},
		"growth": {
			ID:           "growth",
			Name:         "Growth",
			MonthlyPrice: billing.Money{Amount: 2900, Currency: "USD"},
			OrderFee:     billing.Money{Amount: 100, Currency: "USD"},
			Public:       true,
		},
	}
}

func newTestService(t *testing.T, subs *memorySubs, wallets *memoryWallets, opts ...billing.ServiceOption) billing.Service {
	t.Helper()

	opts = append(opts, billing.WithClock(func() time.Time { return now }))
	svc, err := billing.NewService(context.Background(), testCatalog(), subs, wallets, opts...)
	require.NoError(t, err)
	return svc
}

func TestService_Overview(t *testing.T) {
	t.Parallel()

	t.Run("provisioned active merchant", func(t *testing.T) {
		t.Parallel()

		merchantID := uuid.New()
		sub := activeSub("growth")
		sub.MerchantID = merchantID
		svc := newTestService(t,
			&memorySubs{rows: map[uuid.UUID]*billing.Subscription{merchantID: sub}},
			&memoryWallets{rows: map[uuid.UUID]*billing.Wallet{merchantID: walletWith(5000)}},
		)

		overview, err := svc.Overview(context.Background(), merchantID)
		require.NoError(t, err)
		assert.Equal(t, billing.BlockingNone, overview.BlockingReason)
		assert.Equal(t, billing.StatusActive, overview.SubscriptionStatus)
		assert.Equal(t, "growth", overview.PlanID)
		assert.Equal(t, int64(5000), overview.WalletBalance.Amount)
	})

	t.Run("unprovisioned merchant fails closed", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, &memorySubs{}, &memoryWallets{})

		overview, err := svc.Overview(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, billing.BlockingSubscriptionExpired, overview.BlockingReason)
		assert.Equal(t, billing.StatusInactive, overview.SubscriptionStatus)
	})

	t.Run("trialing free plan is unblocked", func(t *testing.T) {
		t.Parallel()

		merchantID := uuid.New()
		sub := activeSub("starter")
		sub.Status = billing.StatusTrialing
		sub.TrialExpiresAt = ptr(now.AddDate(0, 0, 7))
		svc := newTestService(t,
			&memorySubs{rows: map[uuid.UUID]*billing.Subscription{merchantID: sub}},
			&memoryWallets{rows: map[uuid.UUID]*billing.Wallet{merchantID: walletWith(50)}},
		)

		overview, err := svc.Overview(context.Background(), merchantID)
		require.NoError(t, err)
		assert.Equal(t, billing.BlockingNone, overview.BlockingReason)
	})

	t.Run("past due beyond grace blocks regardless of wallet", func(t *testing.T) {
		t.Parallel()

		merchantID := uuid.New()
		sub := activeSub("growth")
		sub.Status = billing.StatusPastDue
		sub.GracePeriodEnd = ptr(now.Add(-time.Hour))
		svc := newTestService(t,
			&memorySubs{rows: map[uuid.UUID]*billing.Subscription{merchantID: sub}},
			&memoryWallets{rows: map[uuid.UUID]*billing.Wallet{merchantID: walletWith(1000000)}},
		)

		reason, err := svc.BlockingReasonFor(context.Background(), merchantID)
		require.NoError(t, err)
		assert.Equal(t, billing.BlockingSubscriptionExpired, reason)
	})

	t.Run("configured minimum reserve", func(t *testing.T) {
		t.Parallel()

		merchantID := uuid.New()
		sub := activeSub("growth")
		svc := newTestService(t,
			&memorySubs{rows: map[uuid.UUID]*billing.Subscription{merchantID: sub}},
			&memoryWallets{rows: map[uuid.UUID]*billing.Wallet{merchantID: walletWith(400)}},
			billing.WithMinWalletReserve(500),
		)

		reason, err := svc.BlockingReasonFor(context.Background(), merchantID)
		require.NoError(t, err)
		assert.Equal(t, billing.BlockingLowWallet, reason)
	})

	t.Run("data source failure propagates", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, &memorySubs{err: errors.New("connection refused")}, &memoryWallets{})

		_, err := svc.Overview(context.Background(), uuid.New())
		assert.ErrorIs(t, err, billing.ErrBillingUnavailable)
	})
}

func TestService_PlanCatalog(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &memorySubs{}, &memoryWallets{})

	p, ok := svc.Plan("growth")
	require.True(t, ok)
	assert.True(t, p.IsPaid())

	_, ok = svc.Plan("unknown")
	assert.False(t, ok)

	assert.Len(t, svc.Plans(), 2)
}

func TestNewService_Validation(t *testing.T) {
	t.Parallel()

	t.Run("empty catalog rejected", func(t *testing.T) {
		t.Parallel()

		_, err := billing.NewService(context.Background(), billing.StaticPlanSource{}, &memorySubs{}, &memoryWallets{})
		assert.ErrorIs(t, err, billing.ErrInvalidPlanConfiguration)
	})

	t.Run("mismatched catalog key rejected", func(t *testing.T) {
		t.Parallel()

		src := billing.StaticPlanSource{"a": {ID: "b"}}
		_, err := billing.NewService(context.Background(), src, &memorySubs{}, &memoryWallets{})
		assert.ErrorIs(t, err, billing.ErrInvalidPlanConfiguration)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		t.Parallel()

		src := billing.StaticPlanSource{"a": {ID: "a", MonthlyPrice: billing.Money{Amount: -1}}}
		_, err := billing.NewService(context.Background(), src, &memorySubs{}, &memoryWallets{})
		assert.ErrorIs(t, err, billing.ErrInvalidPlanConfiguration)
	})

	t.Run("nil dependencies panic", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			_, _ = billing.NewService(context.Background(), nil, &memorySubs{}, &memoryWallets{})
		})
	})
}
