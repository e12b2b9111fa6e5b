package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/quickstore/platform/pkg/authgate"
	"github.com/quickstore/platform/pkg/billing"
)

// MerchantSession resolves the signed session cookie into a merchant ID and
// stores it in the request context for the billing guard and API handlers.
// Requests without a valid session pass through without an ID; endpoints
// that need one respond 401 via the guard.
//
// The session cookie value is the merchant's UUID, integrity-protected by
// the cookie signature. Session issuance lives outside this service.
func MerchantSession(reader authgate.SignedCookieReader, cookieName string) func(http.Handler) http.Handler {
	if reader == nil {
		panic("handler: SignedCookieReader is required")
	}
	if cookieName == "" {
		cookieName = authgate.DefaultSessionCookie
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value, err := reader.GetSigned(r, cookieName)
			if err == nil {
				if merchantID, perr := uuid.Parse(value); perr == nil {
					r = r.WithContext(billing.WithMerchantID(r.Context(), merchantID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
