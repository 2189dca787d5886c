package cache

import (
	"sync"
	"time"
)

// Cache is a small TTL cache with explicit invalidation. The interface keeps
// the backing store pluggable; the in-process store below is the default.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Flush()
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryCache is a mutex-guarded in-process Cache implementation.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (m *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = entry{
		value:     value,
		expiresAt: m.now().Add(ttl),
	}
	m.mu.Unlock()
}

func (m *MemoryCache) Delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

func (m *MemoryCache) Flush() {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
}
