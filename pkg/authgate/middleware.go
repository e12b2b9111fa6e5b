package authgate

import (
	"net/http"
	"strings"
)

// DefaultSessionCookie is the cookie checked for session-token presence.
const DefaultSessionCookie = "qs_session"

// TokenCheck reports whether the request carries a session token.
// Implementations must be cheap: presence only, no validation.
type TokenCheck func(r *http.Request) bool

// CookieTokenCheck returns a TokenCheck that tests for a non-empty cookie.
func CookieTokenCheck(name string) TokenCheck {
	if name == "" {
		name = DefaultSessionCookie
	}
	return func(r *http.Request) bool {
		c, err := r.Cookie(name)
		return err == nil && c.Value != ""
	}
}

// SignedCookieReader verifies a signed cookie and returns its value.
// Satisfied by *cookie.Manager.
type SignedCookieReader interface {
	GetSigned(r *http.Request, name string) (string, error)
}

// SignedCookieTokenCheck returns a TokenCheck that additionally rejects
// cookies whose signature does not verify, so a hand-crafted cookie value
// does not pass the gate.
func SignedCookieTokenCheck(reader SignedCookieReader, name string) TokenCheck {
	if reader == nil {
		panic("authgate: SignedCookieReader is required")
	}
	if name == "" {
		name = DefaultSessionCookie
	}
	return func(r *http.Request) bool {
		value, err := reader.GetSigned(r, name)
		return err == nil && value != ""
	}
}

type config struct {
	protectedPrefixes []string
	authOnlyPaths     []string
	loginPath         string
	homePath          string
}

// Option configures the middleware.
type Option func(*config)

// WithProtectedPrefixes replaces the path prefixes that require a session.
func WithProtectedPrefixes(prefixes ...string) Option {
	return func(c *config) {
		if len(prefixes) > 0 {
			c.protectedPrefixes = prefixes
		}
	}
}

// WithAuthOnlyPaths replaces the paths reserved for unauthenticated users.
func WithAuthOnlyPaths(paths ...string) Option {
	return func(c *config) {
		if len(paths) > 0 {
			c.authOnlyPaths = paths
		}
	}
}

// WithLoginPath sets the redirect target for unauthenticated access.
func WithLoginPath(path string) Option {
	return func(c *config) {
		if path != "" {
			c.loginPath = path
		}
	}
}

// WithHomePath sets the redirect target for authenticated users hitting
// auth-only paths.
func WithHomePath(path string) Option {
	return func(c *config) {
		if path != "" {
			c.homePath = path
		}
	}
}

// Middleware evaluates both gates on every request. Redirects are plain -
// the original path is not carried into a return-to flow.
func Middleware(check TokenCheck, opts ...Option) func(http.Handler) http.Handler {
	if check == nil {
		panic("authgate: TokenCheck is required")
	}

	cfg := &config{
		protectedPrefixes: []string{"/merchant", "/dashboard", "/admin"},
		authOnlyPaths:     []string{"/auth/login", "/auth/register"},
		loginPath:         "/auth/login",
		homePath:          "/merchant",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasToken := check(r)

			if cfg.isProtected(r.URL.Path) && !hasToken {
				http.Redirect(w, r, cfg.loginPath, http.StatusSeeOther)
				return
			}

			if cfg.isAuthOnly(r.URL.Path) && hasToken {
				http.Redirect(w, r, cfg.homePath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isProtected matches whole path segments so /merchants is not mistaken
// for /merchant.
func (c *config) isProtected(path string) bool {
	for _, prefix := range c.protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func (c *config) isAuthOnly(path string) bool {
	for _, p := range c.authOnlyPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
