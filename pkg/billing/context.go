package billing

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// merchantContextKey is a private type to prevent collisions with other
// context keys.
type merchantContextKey struct{}

// WithMerchantID adds the acting merchant's ID to the context. The
// authentication layer is expected to call this once the session is
// established.
func WithMerchantID(ctx context.Context, merchantID uuid.UUID) context.Context {
	return context.WithValue(ctx, merchantContextKey{}, merchantID)
}

// MerchantIDFromContext retrieves the acting merchant's ID from the context.
func MerchantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(merchantContextKey{}).(uuid.UUID)
	return id, ok
}

// LoggerExtractor returns a ContextExtractor for the logger that extracts
// the merchant ID from context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := MerchantIDFromContext(ctx); ok {
			return slog.String("merchant_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
