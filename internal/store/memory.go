package store

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	expiresAt time.Time
	data      []byte
}

// MemoryStore keeps JSON encoded values in process. A zero ttl never expires.
type MemoryStore struct {
	now     func() time.Time
	entries map[Key]entry
	mu      sync.RWMutex
	ttl     time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{now: time.Now, entries: map[Key]entry{}, ttl: ttl}
}

func (m *MemoryStore) Get(_ context.Context, key Key, dst interface{}) (bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return false, nil
	}
	if err := decode(e.data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemoryStore) Set(_ context.Context, key Key, value interface{}) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	e := entry{data: data}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Invalidate(_ context.Context, keys ...Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for cached := range m.entries {
		for _, k := range keys {
			if k.Covers(cached) {
				delete(m.entries, cached)
				break
			}
		}
	}
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
