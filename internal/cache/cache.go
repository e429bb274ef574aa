// Package cache holds the read-through cache for serialized trip records.
package cache

import (
	"context"
	"fmt"
	"time"
)

// TTL is how long a cached trip stays valid.
const TTL = 5 * time.Minute

// Cache stores serialized records by key. Misses and backend failures both
// report ok=false; callers fall back to the database.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool)
	Set(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, keys ...string)
}

// TripKey is the cache key for a trip.
func TripKey(id uint) string {
	return fmt.Sprintf("trip:%d", id)
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Noop) Set(context.Context, string, []byte)        {}
func (Noop) Delete(context.Context, ...string)          {}
