package dispatch

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/quickstore/platform/pkg/hostname"
	"github.com/quickstore/platform/pkg/tenant"
)

// Middleware creates the tenant dispatch pipeline. For every request it
// checks the bypass rules, classifies the Host header, resolves the tenant,
// and either rewrites the path into the store's route space, renders the
// store-not-found page, or passes the request through to platform routes.
func Middleware(classifier *hostname.Classifier, resolver *tenant.Resolver, opts ...Option) func(http.Handler) http.Handler {
	if classifier == nil {
		panic("dispatch: Classifier is required")
	}
	if resolver == nil {
		panic("dispatch: Resolver is required")
	}

	cfg := &config{
		bypassPrefixes:   DefaultBypassPrefixes,
		partialNavHeader: DefaultPartialNavHeader,
		notFound:         http.HandlerFunc(defaultNotFound),
		errorHandler:     defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.bypassed(r) {
				next.ServeHTTP(w, r)
				return
			}

			cls := classifier.Classify(r.Host)
			if cls.IsPlatform() {
				next.ServeHTTP(w, r)
				return
			}

			store, err := resolver.Resolve(r.Context(), cls)
			if err != nil {
				switch {
				case errors.Is(err, tenant.ErrStoreNotFound),
					errors.Is(err, tenant.ErrInvalidIdentifier):
					cfg.notFound.ServeHTTP(w, r)
				default:
					if cfg.logger != nil {
						cfg.logger.ErrorContext(r.Context(), "tenant resolution failed",
							slog.String("host", cls.Host),
							slog.Any("error", err),
						)
					}
					cfg.errorHandler(w, r, err)
				}
				return
			}

			next.ServeHTTP(w, rewrite(r, store))
		})
	}
}

// bypassed reports whether the request must pass through unmodified:
// configured prefixes, static assets, partial-navigation fetches, and
// already-rewritten store paths.
func (c *config) bypassed(r *http.Request) bool {
	path := r.URL.Path

	if strings.HasPrefix(path, StorePathPrefix+"/") || path == StorePathPrefix {
		return true
	}

	for _, prefix := range c.bypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	if isStaticAsset(path) {
		return true
	}

	if c.partialNavHeader != "" && r.Header.Get(c.partialNavHeader) != "" {
		return true
	}

	return false
}

// isStaticAsset reports whether the last path segment references a file
// (contains a dot), e.g. /favicon.ico or /fonts/inter.woff2.
func isStaticAsset(path string) bool {
	if idx := strings.LastIndex(path, "/"); idx != -1 {
		path = path[idx+1:]
	}
	return strings.Contains(path, ".")
}

// rewrite maps the original path P to /store/{subdomain}{P}, with the root
// path mapping to /store/{subdomain} without a trailing segment. The query
// string is left untouched and the resolved store is attached to the
// request context.
func rewrite(r *http.Request, store *tenant.Store) *http.Request {
	r2 := r.Clone(tenant.WithStore(r.Context(), store))

	path := r.URL.Path
	if path == "/" {
		path = ""
	}
	r2.URL.Path = StorePathPrefix + "/" + store.Domain.Subdomain + path
	r2.URL.RawPath = ""

	return r2
}
