// Package authgate redirects requests based on session-token presence.
//
// Two independent binary gates run on every request, with no shared state:
// protected prefixes (merchant area, dashboard, admin) redirect to the login
// route when no session token is present, and auth-only paths (login,
// register) redirect to the merchant home when one is. The check is
// presence-only - a cheap existence test on a cookie-like credential.
// Full token verification happens deeper in the stack, at the API layer.
//
// # Usage
//
//	router.Use(authgate.Middleware(authgate.CookieTokenCheck("qs_session")))
package authgate
