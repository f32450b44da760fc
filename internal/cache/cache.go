// README: Key-value cache abstraction shared by the tariff and geo services.
package cache

import (
	"context"
	"time"
)

// Store is the minimal contract the services need from the external cache.
// Values are stored as JSON; a nil return from Get means a miss. The process
// never assumes entries survive a restart.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
