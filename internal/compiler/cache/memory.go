package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	entry       *Entry
	expiration  time.Time
	lastChecked time.Time
}

// MemoryStore keeps entries in memory. It is the store of watch mode.
type MemoryStore struct {
	entries map[string]*memoryItem
	config  StoreConfig
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithConfig(DefaultStoreConfig())
}

// NewMemoryStoreWithConfig creates a new in-memory store with custom configuration
func NewMemoryStoreWithConfig(config StoreConfig) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryItem),
		config:  config,
	}
}

// Get retrieves an entry by key
func (m *MemoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.entries[m.config.Prefix+key]
	if !ok {
		return nil, ErrCacheMiss{Key: key}
	}
	now := time.Now()
	if !item.expiration.IsZero() && now.After(item.expiration) {
		delete(m.entries, m.config.Prefix+key)
		return nil, ErrCacheMiss{Key: key}
	}
	item.lastChecked = now
	return item.entry, nil
}

// Set stores an entry
func (m *MemoryStore) Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Use default TTL if none provided
	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}

	now := time.Now()
	item := &memoryItem{entry: entry, lastChecked: now}
	if ttl > 0 {
		item.expiration = now.Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[m.config.Prefix+key] = item
	return nil
}

// Delete removes an entry
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, m.config.Prefix+key)
	return nil
}

// Clear removes every entry
func (m *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*memoryItem)
	return nil
}

// Size returns the number of stored entries, expired ones included
func (m *MemoryStore) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Prune removes entries that expired or were not read in the given duration
func (m *MemoryStore) Prune(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	pruned := 0

	for key, item := range m.entries {
		expired := !item.expiration.IsZero() && now.After(item.expiration)
		if expired || now.Sub(item.lastChecked) > maxAge {
			delete(m.entries, key)
			pruned++
		}
	}

	return pruned
}
