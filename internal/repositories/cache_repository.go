package repositories

import (
	"context"
	"time"
)

// CacheRepository is a thin byte cache. A cache miss is reported as
// apperrors.ErrNotFound; any other error means the cache itself is
// unhealthy and callers fall through to the source of truth.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
