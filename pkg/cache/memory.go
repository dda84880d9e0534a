package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryEntry is one cached value with its absolute expiry time.
// A zero expiresAt means the entry never expires.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryBackend is an in-process cache backed by a map.
//
// When the entry count exceeds maxEntries, expired entries are swept
// first; if the cache is still full, the entry closest to expiry is
// evicted. Suitable for single-process consumers and tests.
type MemoryBackend struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
}

// NewMemoryBackend creates a memory cache holding at most maxEntries
// entries. A maxEntries of 0 selects the default of 1000.
func NewMemoryBackend(maxEntries int) *MemoryBackend {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &MemoryBackend{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
	}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if entry.expired(time.Now()) {
		delete(m.entries, key)
		return nil, ErrCacheMiss
	}

	// Copy so callers cannot mutate the cached value.
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.maxEntries {
		m.evictLocked()
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	entry := memoryEntry{value: stored}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

// evictLocked frees space by dropping expired entries, then the entry
// closest to expiry if the cache is still full. Must hold m.mu.
func (m *MemoryBackend) evictLocked() {
	now := time.Now()
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
		}
	}
	if len(m.entries) < m.maxEntries {
		return
	}

	var victim string
	var victimExpiry time.Time
	for key, entry := range m.entries {
		if victim == "" || (!entry.expiresAt.IsZero() && (victimExpiry.IsZero() || entry.expiresAt.Before(victimExpiry))) {
			victim = key
			victimExpiry = entry.expiresAt
		}
	}
	if victim != "" {
		delete(m.entries, victim)
	}
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryBackend) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *MemoryBackend) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}

func (m *MemoryBackend) Close() error {
	return m.Clear(context.Background())
}
