package repository

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryClient is an in-process KV with lazy expiry, used for local runs and
// tests. Concurrent writes to one key are last-write-wins.
type MemoryClient struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *MemoryClient {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock lets tests drive expiry with a fake clock.
func NewMemoryWithClock(now func() time.Time) *MemoryClient {
	if now == nil {
		now = time.Now
	}
	return &MemoryClient{entries: make(map[string]memoryEntry), now: now}
}

func (m *MemoryClient) Put(_ context.Context, key, value string, ttl time.Duration) error {
	if err := validatePut(key, ttl); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryClient) Get(_ context.Context, key string) (string, error) {
	now := m.now()
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	if !now.Before(e.expiresAt) {
		m.evict(key, now)
		return "", ErrNotFound
	}
	return e.value, nil
}

func (m *MemoryClient) ListKeysWithPrefix(_ context.Context, prefix string) ([]string, error) {
	now := m.now()
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k, e := range m.entries {
		if strings.HasPrefix(k, prefix) && now.Before(e.expiresAt) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// evict removes key only if it is still expired; a concurrent Put may have
// refreshed it.
func (m *MemoryClient) evict(key string, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && !now.Before(e.expiresAt) {
		delete(m.entries, key)
	}
}
