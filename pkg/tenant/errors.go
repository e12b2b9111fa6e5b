package tenant

import "errors"

var (
	// ErrStoreNotFound is returned when no store matches the host. This is
	// a valid terminal state rendered as a 404, never a server error.
	ErrStoreNotFound = errors.New("store not found")

	// ErrInvalidIdentifier is returned when a candidate subdomain is not a
	// valid DNS label.
	ErrInvalidIdentifier = errors.New("invalid store identifier")

	// ErrNotTenantHost is returned when resolution is attempted for a host
	// that routes to the platform itself.
	ErrNotTenantHost = errors.New("host does not address a tenant")

	// ErrLookupFailed wraps data-source failures. Unlike ErrStoreNotFound
	// it has no safe local recovery and propagates to the caller.
	ErrLookupFailed = errors.New("store lookup failed")

	// ErrNoStoreInContext is returned when no store is found in context.
	ErrNoStoreInContext = errors.New("no store in context")
)
