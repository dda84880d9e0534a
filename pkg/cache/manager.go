package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bauer-group/LIB-NocoDB-SimpleClient/pkg/metrics"
)

// DefaultTTL is the expiry applied to cached entries when the caller does
// not specify one. Record data goes stale quickly, so this is short.
const DefaultTTL = 30 * time.Second

// Manager wraps a Backend with typed helpers for caching record reads.
// Values are stored as JSON. Writes to a table must be followed by
// InvalidateTable so readers never see stale rows after a mutation.
type Manager struct {
	backend Backend
	name    string
	ttl     time.Duration
	metrics metrics.CacheMetrics

	hits   atomic.Int64
	misses atomic.Int64
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTTL overrides the default entry expiry.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithMetrics wires cache hit/miss counters into the manager.
func WithMetrics(cm metrics.CacheMetrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = cm
	}
}

// NewManager creates a cache manager over the given backend. The name
// identifies the backend in metrics labels ("memory", "badger", "redis").
func NewManager(backend Backend, name string, opts ...ManagerOption) *Manager {
	m := &Manager{
		backend: backend,
		name:    name,
		ttl:     DefaultTTL,
		metrics: metrics.NewNoopCacheMetrics(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RecordKey builds the cache key for a single record read.
func RecordKey(tableID, recordID string, fields []string) string {
	return fmt.Sprintf("record:%s:%s:%s", tableID, recordID, hashParts(fields...))
}

// RecordsKey builds the cache key for a record list query.
func RecordsKey(tableID, sort, where, fields string, limit int) string {
	return fmt.Sprintf("records:%s:%s", tableID, hashParts(sort, where, fields, fmt.Sprint(limit)))
}

// CountKey builds the cache key for a record count query.
func CountKey(tableID, where string) string {
	return fmt.Sprintf("count:%s:%s", tableID, hashParts(where))
}

// hashParts digests the query parameters so arbitrary filter expressions
// produce fixed-length keys safe for any backend.
func hashParts(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Get retrieves and decodes a cached value into dest. Returns ErrCacheMiss
// when the key is absent or expired.
func (m *Manager) Get(ctx context.Context, key string, dest any) error {
	data, err := m.backend.Get(ctx, key)
	if err == ErrCacheMiss {
		m.misses.Add(1)
		m.metrics.RecordMiss(m.name)
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// Entry is corrupt, drop it and treat as miss.
		_ = m.backend.Delete(ctx, key)
		m.misses.Add(1)
		m.metrics.RecordMiss(m.name)
		return ErrCacheMiss
	}

	m.hits.Add(1)
	m.metrics.RecordHit(m.name)
	return nil
}

// Set encodes value as JSON and stores it under key with the manager TTL.
func (m *Manager) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := m.backend.Set(ctx, key, data, m.ttl); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Delete removes a single cached entry.
func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.backend.Delete(ctx, key)
}

// InvalidateTable drops every cached read for a table. Call after any
// insert, update, delete or attachment change on that table.
func (m *Manager) InvalidateTable(ctx context.Context, tableID string) error {
	for _, prefix := range []string{"record:", "records:", "count:"} {
		if err := m.backend.DeletePrefix(ctx, prefix+tableID+":"); err != nil {
			return fmt.Errorf("failed to invalidate table %s: %w", tableID, err)
		}
	}
	return nil
}

// Stats reports the hit/miss counters accumulated by this manager.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

func (m *Manager) Stats() Stats {
	return Stats{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
	}
}

// Close releases the underlying backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
