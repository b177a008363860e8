// Package cache defines the keyed cache contract consumed by the services.
// Mutating operations invalidate their entity's namespace prefix; a failed
// invalidation is logged by the caller, never propagated.
package cache

import (
	"context"
	"time"
)

// Namespace prefixes for invalidation.
const (
	PrefixOrders   = "orders:"
	PrefixSessions = "sessions:"
	PrefixServices = "services:"
	PrefixUsers    = "users:"
)

type CacheService interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// InvalidatePrefix removes every entry whose key begins with prefix.
	// It is a no-op when nothing matches.
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// Noop satisfies CacheService when no cache backend is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, error) {
	return "", ErrCacheMiss
}

func (Noop) Set(context.Context, string, string, time.Duration) error {
	return nil
}

func (Noop) InvalidatePrefix(context.Context, string) error {
	return nil
}
