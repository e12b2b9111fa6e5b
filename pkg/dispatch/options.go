package dispatch

import (
	"log/slog"
	"net/http"
)

// StorePathPrefix is the route prefix tenant requests are rewritten under.
const StorePathPrefix = "/store"

// DefaultPartialNavHeader marks partial-navigation fetches that must not be
// rewritten.
const DefaultPartialNavHeader = "X-Partial-Nav"

// DefaultBypassPrefixes are path prefixes that pass through untouched.
// The store prefix itself is always bypassed to keep rewriting idempotent.
var DefaultBypassPrefixes = []string{"/api/", "/_internal/", "/assets/"}

// ErrorHandler renders upstream lookup failures. It never sees not-found
// conditions; those go to the not-found handler.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	bypassPrefixes   []string
	partialNavHeader string
	notFound         http.Handler
	errorHandler     ErrorHandler
	logger           *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithBypassPrefixes replaces the default set of pass-through path prefixes.
func WithBypassPrefixes(prefixes ...string) Option {
	return func(c *config) {
		if len(prefixes) > 0 {
			c.bypassPrefixes = prefixes
		}
	}
}

// WithPartialNavHeader sets the header that marks partial-navigation
// fetches. An empty name disables the check.
func WithPartialNavHeader(name string) Option {
	return func(c *config) {
		c.partialNavHeader = name
	}
}

// WithNotFoundHandler sets the handler rendering the store-not-found page.
func WithNotFoundHandler(h http.Handler) Option {
	return func(c *config) {
		if h != nil {
			c.notFound = h
		}
	}
}

// WithErrorHandler sets the handler for upstream lookup failures.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithLogger sets a logger for resolution failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func defaultNotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Store not found", http.StatusNotFound)
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	http.Error(w, "Service temporarily unavailable", http.StatusBadGateway)
}
