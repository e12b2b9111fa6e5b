// Package tenant resolves classified hostnames to concrete store identities.
//
// A Resolver combines a Provider (the store data source) with a Cache that
// remembers both positive and negative lookups for a short TTL. Resolution
// follows strict precedence rules: platform hosts are never resolved, store
// subdomains resolve by exact match, and custom domains resolve only once
// ownership verification has completed.
//
// NotFound is a valid terminal state, not an error condition - callers turn
// ErrStoreNotFound into a branded 404 page. Only genuine data-source
// failures (ErrLookupFailed) propagate as server errors.
//
// # Usage
//
//	resolver := tenant.NewResolver(storeRepo,
//	    tenant.WithCacheTTL(time.Minute),
//	)
//	defer resolver.Close()
//
//	store, err := resolver.Resolve(ctx, classification)
//	switch {
//	case errors.Is(err, tenant.ErrStoreNotFound):
//	    // render store-not-found page
//	case err != nil:
//	    // upstream failure
//	default:
//	    ctx = tenant.WithStore(ctx, store)
//	}
//
// The Cache interface accepts in-memory (default), distributed, or no-op
// implementations without touching resolution logic.
package tenant
