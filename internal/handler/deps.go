package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/quickstore/platform/internal/storage"
	"github.com/quickstore/platform/pkg/billing"
	"github.com/quickstore/platform/pkg/tenant"
)

// StoreRepo is the store persistence surface the handlers need.
// Satisfied by *storage.StoreRepository.
type StoreRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*tenant.Store, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]tenant.Store, error)
	CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int, error)
	Create(ctx context.Context, merchantID uuid.UUID, name, subdomain string) (*tenant.Store, error)
	SetStatus(ctx context.Context, id uuid.UUID, status tenant.Status) (*tenant.Store, error)
	SetCustomDomain(ctx context.Context, id uuid.UUID, domain string) (*tenant.Store, error)
	MarkCustomDomainVerified(ctx context.Context, id uuid.UUID) (*tenant.Store, error)
}

// OrderRepo is the order persistence surface the handlers need.
// Satisfied by *storage.OrderRepository.
type OrderRepo interface {
	Create(ctx context.Context, storeID uuid.UUID, total, fee billing.Money) (*storage.Order, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]storage.Order, error)
}

// BillingRepo is the billing mutation surface the handlers need.
// Satisfied by *storage.BillingRepository.
type BillingRepo interface {
	UpsertSubscription(ctx context.Context, sub billing.Subscription) (*billing.Subscription, error)
	Credit(ctx context.Context, merchantID uuid.UUID, amount billing.Money) (*billing.Wallet, error)
}
