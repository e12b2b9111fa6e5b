package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickstore/platform/pkg/billing"
)

func TestYAMLPlanSource(t *testing.T) {
	t.Parallel()

	t.Run("loads catalog file", func(t *testing.T) {
		t.Parallel()

		src := billing.NewYAMLPlanSource("testdata/plans.yml")
		plans, err := src.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, plans, 2)

		growth := plans["growth"]
		assert.Equal(t, int64(2900), growth.MonthlyPrice.Amount)
		assert.Equal(t, int64(100), growth.OrderFee.Amount)
		assert.True(t, growth.Features.CustomDomain)
		assert.True(t, growth.IsPaid())

		starter := plans["starter"]
		assert.False(t, starter.IsPaid())
	})

	t.Run("missing file errors", func(t *testing.T) {
		t.Parallel()

		src := billing.NewYAMLPlanSource("testdata/does-not-exist.yml")
		_, err := src.Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("feeds the service", func(t *testing.T) {
		t.Parallel()

		src := billing.NewYAMLPlanSource("testdata/plans.yml")
		svc, err := billing.NewService(context.Background(), src, &memorySubs{}, &memoryWallets{})
		require.NoError(t, err)

		_, ok := svc.Plan("growth")
		assert.True(t, ok)
	})
}
