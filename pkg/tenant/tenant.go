package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status governs whether a store is served to the public.
type Status string

const (
	// StatusDraft is a store that has never been published.
	StatusDraft Status = "draft"
	// StatusLive is a published store, served on its domains.
	StatusLive Status = "live"
	// StatusPaused is a published store temporarily taken offline.
	StatusPaused Status = "paused"
)

// Domain holds the routing configuration of a store.
type Domain struct {
	// Subdomain is the platform-assigned label. Globally unique and
	// immutable once assigned.
	Subdomain string `json:"subdomain"`
	// CustomDomain is a merchant-owned domain mapped to the store.
	// Empty when the merchant has not connected one.
	CustomDomain string `json:"custom_domain,omitempty"`
	// CustomDomainVerified reports whether domain ownership verification
	// completed. An unverified custom domain never routes.
	CustomDomainVerified bool `json:"custom_domain_verified"`
}

// Store represents one merchant storefront with the fields needed for
// request-scoped tenant resolution.
type Store struct {
	ID         uuid.UUID `json:"id"`
	MerchantID uuid.UUID `json:"merchant_id"`
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	Domain     Domain    `json:"domain"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsLive reports whether the store is currently served to the public.
func (s *Store) IsLive() bool {
	return s.Status == StatusLive
}

// Provider loads store records from a data source.
// Both lookups return ErrStoreNotFound when no store matches; any other
// error means the data source itself failed.
type Provider interface {
	// FindBySubdomain retrieves a store by its exact platform subdomain.
	FindBySubdomain(ctx context.Context, subdomain string) (*Store, error)

	// FindByCustomDomain retrieves a store by its exact custom domain,
	// regardless of verification state. Verification is enforced by the
	// Resolver, not the data source.
	FindByCustomDomain(ctx context.Context, domain string) (*Store, error)
}
