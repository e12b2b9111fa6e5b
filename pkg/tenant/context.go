package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithStore adds a resolved store to the context.
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, store)
}

// FromContext retrieves the store from the context.
// Returns nil, false if no store is found.
func FromContext(ctx context.Context) (*Store, bool) {
	store, ok := ctx.Value(contextKey{}).(*Store)
	return store, ok
}

// IDFromContext retrieves just the store ID from the context.
// Returns zero UUID and false if no store is found.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	store, ok := FromContext(ctx)
	if !ok || store == nil {
		return uuid.UUID{}, false
	}
	return store.ID, true
}

// MustFromContext retrieves the store from the context.
// Panics if no store is found. Use this only in handlers that run strictly
// behind tenant dispatch.
func MustFromContext(ctx context.Context) *Store {
	store, ok := FromContext(ctx)
	if !ok || store == nil {
		panic("tenant: no store in context")
	}
	return store
}

// LoggerExtractor returns a ContextExtractor for the logger that extracts
// the store ID from context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("store_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
