package catalog

import (
	"context"
	"strings"
)

// NewStore creates a postgres-backed catalog when configured, otherwise the
// seeded in-memory one.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewInMemoryStore(), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}

// StoreMode reports a store's backend name for health endpoints.
func StoreMode(s Store) string {
	if s == nil {
		return "disabled"
	}
	if m, ok := s.(Mode); ok {
		return m.Mode()
	}
	return "unknown"
}
