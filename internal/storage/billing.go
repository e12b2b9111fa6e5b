package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickstore/platform/pkg/billing"
	"github.com/quickstore/platform/pkg/pg"
)

const subscriptionColumns = `merchant_id, plan_id, status, started_at, expires_at, trial_expires_at, grace_period_end, updated_at`

// BillingRepository persists subscription and wallet rows. It satisfies
// billing.SubscriptionStore and billing.WalletStore for blocking-reason
// computation, and exposes the mutations the merchant API needs.
type BillingRepository struct {
	pool *pgxpool.Pool
}

// NewBillingRepository creates a repository. Panics on a nil pool to fail
// fast during initialization.
func NewBillingRepository(pool *pgxpool.Pool) *BillingRepository {
	if pool == nil {
		panic("storage: pgx pool is required")
	}
	return &BillingRepository{pool: pool}
}

// GetSubscription returns the merchant's subscription row, or
// billing.ErrSubscriptionNotFound when none exists.
func (r *BillingRepository) GetSubscription(ctx context.Context, merchantID uuid.UUID) (*billing.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE merchant_id = $1`

	sub, err := scanSubscription(r.pool.QueryRow(ctx, query, merchantID))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, billing.ErrSubscriptionNotFound
		}
		return nil, errors.Join(billing.ErrBillingUnavailable, err)
	}
	return sub, nil
}

// UpsertSubscription writes the merchant's single subscription row, creating
// it on first subscribe and replacing it on plan changes.
func (r *BillingRepository) UpsertSubscription(ctx context.Context, sub billing.Subscription) (*billing.Subscription, error) {
	query := `
		INSERT INTO subscriptions (merchant_id, plan_id, status, started_at, expires_at, trial_expires_at, grace_period_end, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (merchant_id) DO UPDATE SET
			plan_id = EXCLUDED.plan_id,
			status = EXCLUDED.status,
			started_at = EXCLUDED.started_at,
			expires_at = EXCLUDED.expires_at,
			trial_expires_at = EXCLUDED.trial_expires_at,
			grace_period_end = EXCLUDED.grace_period_end,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + subscriptionColumns

	row := r.pool.QueryRow(ctx, query,
		sub.MerchantID, sub.PlanID, sub.Status, sub.StartedAt,
		sub.ExpiresAt, sub.TrialExpiresAt, sub.GracePeriodEnd, time.Now().UTC(),
	)

	out, err := scanSubscription(row)
	if err != nil {
		return nil, errors.Join(billing.ErrBillingUnavailable, err)
	}
	return out, nil
}

// GetWallet returns the merchant's wallet row, or billing.ErrWalletNotFound
// when none exists.
func (r *BillingRepository) GetWallet(ctx context.Context, merchantID uuid.UUID) (*billing.Wallet, error) {
	query := `SELECT merchant_id, balance_amount, balance_currency, updated_at FROM wallets WHERE merchant_id = $1`

	wallet, err := scanWallet(r.pool.QueryRow(ctx, query, merchantID))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, billing.ErrWalletNotFound
		}
		return nil, errors.Join(billing.ErrBillingUnavailable, err)
	}
	return wallet, nil
}

// Credit adds funds to the merchant's wallet, creating the wallet row on
// first recharge. The amount must be positive and in the wallet's currency.
func (r *BillingRepository) Credit(ctx context.Context, merchantID uuid.UUID, amount billing.Money) (*billing.Wallet, error) {
	if amount.Amount <= 0 {
		return nil, errors.Join(billing.ErrBillingUnavailable, errors.New("credit amount must be positive"))
	}

	query := `
		INSERT INTO wallets (merchant_id, balance_amount, balance_currency, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (merchant_id) DO UPDATE SET
			balance_amount = wallets.balance_amount + EXCLUDED.balance_amount,
			updated_at = EXCLUDED.updated_at
		WHERE wallets.balance_currency = EXCLUDED.balance_currency
		RETURNING merchant_id, balance_amount, balance_currency, updated_at`

	wallet, err := scanWallet(r.pool.QueryRow(ctx, query, merchantID, amount.Amount, amount.Currency, time.Now().UTC()))
	if err != nil {
		// The conditional upsert matches no row when currencies differ.
		if pg.IsNotFoundError(err) {
			return nil, ErrCurrencyMismatch
		}
		return nil, errors.Join(billing.ErrBillingUnavailable, err)
	}
	return wallet, nil
}

// Debit withdraws funds from the merchant's wallet. The balance is guarded in
// the same statement so concurrent debits never drive it negative.
func (r *BillingRepository) Debit(ctx context.Context, merchantID uuid.UUID, amount billing.Money) (*billing.Wallet, error) {
	if amount.Amount <= 0 {
		return nil, errors.Join(billing.ErrBillingUnavailable, errors.New("debit amount must be positive"))
	}

	query := `
		UPDATE wallets
		SET balance_amount = balance_amount - $2, updated_at = $4
		WHERE merchant_id = $1 AND balance_currency = $3 AND balance_amount >= $2
		RETURNING merchant_id, balance_amount, balance_currency, updated_at`

	wallet, err := scanWallet(r.pool.QueryRow(ctx, query, merchantID, amount.Amount, amount.Currency, time.Now().UTC()))
	if err != nil {
		if pg.IsNotFoundError(err) {
			// Distinguish a missing wallet from a guarded balance.
			if _, werr := r.GetWallet(ctx, merchantID); werr != nil {
				return nil, werr
			}
			return nil, ErrInsufficientFunds
		}
		return nil, errors.Join(billing.ErrBillingUnavailable, err)
	}
	return wallet, nil
}

func scanSubscription(row pgx.Row) (*billing.Subscription, error) {
	var sub billing.Subscription
	if err := row.Scan(
		&sub.MerchantID,
		&sub.PlanID,
		&sub.Status,
		&sub.StartedAt,
		&sub.ExpiresAt,
		&sub.TrialExpiresAt,
		&sub.GracePeriodEnd,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func scanWallet(row pgx.Row) (*billing.Wallet, error) {
	var wallet billing.Wallet
	if err := row.Scan(
		&wallet.MerchantID,
		&wallet.Balance.Amount,
		&wallet.Balance.Currency,
		&wallet.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &wallet, nil
}
