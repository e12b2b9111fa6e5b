package tenant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/quickstore/platform/pkg/hostname"
)

const (
	// MaxSubdomainLength matches the DNS label limit.
	MaxSubdomainLength = 63

	subdomainCacheKeyPrefix    = "sub:"
	customDomainCacheKeyPrefix = "dom:"
)

// subdomainPattern ensures DNS-safe subdomains: alphanumeric start, allows
// hyphens, no dots.
var subdomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// IsValidSubdomain reports whether the label is acceptable as a store
// subdomain. Used both for resolution admission and for validating
// merchant-chosen subdomains at store creation.
func IsValidSubdomain(label string) bool {
	if label == "" || len(label) > MaxSubdomainLength {
		return false
	}
	return subdomainPattern.MatchString(label)
}

// Resolver turns a host classification into a concrete store identity.
//
// Positive and negative lookups are cached with a short TTL behind the
// injected Cache, so the lookup cost under high fan-out is bounded while an
// ownership change is never stale beyond the TTL.
type Resolver struct {
	provider    Provider
	cache       Cache
	cacheTTL    time.Duration
	requireLive bool
}

// ResolverOption configures the Resolver.
type ResolverOption func(*Resolver)

// WithCache sets a custom cache implementation.
func WithCache(cache Cache) ResolverOption {
	return func(r *Resolver) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// WithCacheTTL sets how long positive and negative lookups stay cached.
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if ttl > 0 {
			r.cacheTTL = ttl
		}
	}
}

// WithRequireLive controls whether only live stores resolve. Enabled by
// default: draft and paused stores are invisible on the storefront side.
func WithRequireLive(require bool) ResolverOption {
	return func(r *Resolver) {
		r.requireLive = require
	}
}

// NewResolver creates a Resolver backed by the given provider.
// Panics if provider is nil to fail fast during initialization.
func NewResolver(provider Provider, opts ...ResolverOption) *Resolver {
	if provider == nil {
		panic("tenant: Provider is required")
	}

	r := &Resolver{
		provider:    provider,
		cache:       NewInMemoryCache(),
		cacheTTL:    time.Minute,
		requireLive: true,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve maps a classified host to a store.
//
// Store subdomains resolve by exact subdomain match. Custom domains resolve
// by exact domain match and additionally require completed ownership
// verification; an unverified domain resolves to ErrStoreNotFound even when
// a row matches. Platform hosts return ErrNotTenantHost - resolution is not
// performed for them.
func (r *Resolver) Resolve(ctx context.Context, cls hostname.Classification) (*Store, error) {
	switch cls.Kind {
	case hostname.KindStoreSubdomain:
		return r.resolveSubdomain(ctx, cls.Label)
	case hostname.KindCustomDomain:
		return r.resolveCustomDomain(ctx, cls.Label)
	default:
		return nil, ErrNotTenantHost
	}
}

func (r *Resolver) resolveSubdomain(ctx context.Context, label string) (*Store, error) {
	if !IsValidSubdomain(label) {
		// Nested or malformed labels can never match a store row.
		return nil, fmt.Errorf("%w: subdomain %q", ErrInvalidIdentifier, label)
	}

	return r.lookup(ctx, subdomainCacheKeyPrefix+label, func(ctx context.Context) (*Store, error) {
		return r.provider.FindBySubdomain(ctx, label)
	}, func(store *Store) bool {
		return true
	})
}

func (r *Resolver) resolveCustomDomain(ctx context.Context, domain string) (*Store, error) {
	return r.lookup(ctx, customDomainCacheKeyPrefix+domain, func(ctx context.Context) (*Store, error) {
		return r.provider.FindByCustomDomain(ctx, domain)
	}, func(store *Store) bool {
		// An unverified custom domain must not route even if a row
		// matches, or a squatter could serve someone else's store.
		return store.Domain.CustomDomainVerified
	})
}

// lookup runs the cache-then-provider sequence shared by both host kinds.
// The accept func applies kind-specific admission checks before a row is
// considered resolved; rejected rows are cached as negative entries.
func (r *Resolver) lookup(ctx context.Context, cacheKey string, find func(context.Context) (*Store, error), accept func(*Store) bool) (*Store, error) {
	if entry, ok := r.cache.Get(ctx, cacheKey); ok {
		if entry.Store == nil {
			return nil, ErrStoreNotFound
		}
		return r.admit(entry.Store)
	}

	store, err := find(ctx)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			r.cache.Set(ctx, cacheKey, Entry{}, r.cacheTTL)
			return nil, ErrStoreNotFound
		}
		// Data-source failures are never cached - the next request
		// should retry the lookup.
		return nil, errors.Join(ErrLookupFailed, err)
	}

	if !accept(store) {
		r.cache.Set(ctx, cacheKey, Entry{}, r.cacheTTL)
		return nil, ErrStoreNotFound
	}

	r.cache.Set(ctx, cacheKey, Entry{Store: store}, r.cacheTTL)

	return r.admit(store)
}

// admit applies checks that depend on mutable store state and therefore run
// on cache hits too.
func (r *Resolver) admit(store *Store) (*Store, error) {
	if r.requireLive && !store.IsLive() {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// Invalidate drops the cache entries for a store's current domain fields.
// Call it whenever a store's subdomain assignment, custom domain, or
// verification state changes.
func (r *Resolver) Invalidate(ctx context.Context, store *Store) {
	if store == nil {
		return
	}
	if store.Domain.Subdomain != "" {
		r.cache.Delete(ctx, subdomainCacheKeyPrefix+store.Domain.Subdomain)
	}
	if store.Domain.CustomDomain != "" {
		r.cache.Delete(ctx, customDomainCacheKeyPrefix+store.Domain.CustomDomain)
	}
}

// Close releases the resolver's cache resources.
func (r *Resolver) Close() error {
	return r.cache.Close()
}
