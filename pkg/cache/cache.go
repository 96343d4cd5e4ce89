// Package cache provides byte-level caching for API responses and rendered
// artifacts.
//
// All backends implement [Cache]. The CLI defaults to [FileCache] under the
// user cache directory; long-running servers can share a [RedisCache] or a
// [MongoCache] between replicas. [NullCache] disables caching.
//
// Entries are short-lived copies of remote data. Nothing in this package is
// an authoritative store: every entry can be dropped at any time and is
// refetched on the next miss.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear empties c if the backend supports it and reports whether it did.
func Clear(ctx context.Context, c Cache) (bool, error) {
	cl, ok := c.(Clearer)
	if !ok {
		return false, nil
	}
	return true, cl.Clear(ctx)
}
