// Package cache provides optional response caching for the NocoDB client.
//
// Record reads are the dominant cost of most client workloads; caching
// them behind a short TTL cuts API round trips without this library
// taking ownership of consistency: any record mutation through the
// Manager invalidates the whole table's entries.
//
// Three backends are provided: an in-process memory cache, a persistent
// BadgerDB cache and a shared Redis cache. All backends store opaque
// byte values; the Manager handles JSON encoding and key construction.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Backend.Get when the key is absent or
// expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Backend is a TTL key-value store for cached API responses.
//
// Implementations must be safe for concurrent use. Keys are flat strings;
// DeletePrefix must remove every key sharing the given prefix, which the
// Manager uses for table-level invalidation.
type Backend interface {
	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases backend resources. The backend must not be used
	// afterwards.
	Close() error
}
