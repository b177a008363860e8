package services

import (
	"context"
	"log"

	"github.com/arman-d/DermaCareBack/internal/cache"
)

// invalidate drops the cache namespaces touched by a mutation. Failures
// are logged and swallowed: staleness is bounded by the cache TTL and must
// never fail the mutation that triggered it.
func invalidate(ctx context.Context, cacheSvc cache.CacheService, prefixes ...string) {
	if cacheSvc == nil {
		return
	}
	for _, prefix := range prefixes {
		if err := cacheSvc.InvalidatePrefix(ctx, prefix); err != nil {
			log.Printf("cache invalidation failed for prefix %q: %v", prefix, err)
		}
	}
}
