package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is the cached code of one scene
type Entry struct {
	Scene       string    `json:"scene"`
	Code        string    `json:"code"`
	Includes    []string  `json:"includes,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	CachedAt    time.Time `json:"cachedAt"`
}

// Store defines the interface for all code cache backends
type Store interface {
	// Get retrieves an entry from the store
	Get(ctx context.Context, key string) (*Entry, error)

	// Set stores an entry with a TTL; 0 uses the default TTL
	Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error

	// Delete removes an entry from the store
	Delete(ctx context.Context, key string) error

	// Clear removes every entry from the store
	Clear(ctx context.Context) error
}

// StoreConfig holds common configuration for store backends
type StoreConfig struct {
	// DefaultTTL is the default time-to-live of entries. 0 keeps entries
	// until they are deleted.
	DefaultTTL time.Duration
	// Prefix is prepended to all keys
	Prefix string
}

// DefaultStoreConfig returns a default store configuration
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DefaultTTL: 24 * time.Hour,
		Prefix:     "eventc:",
	}
}

// ErrCacheMiss is returned when a key is not found in the store
type ErrCacheMiss struct {
	Key string
}

func (e ErrCacheMiss) Error() string {
	return "cache miss: " + e.Key
}

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	_, ok := err.(ErrCacheMiss)
	return ok
}

func encodeEntry(entry *Entry) ([]byte, error) {
	return json.Marshal(entry)
}

func decodeEntry(data []byte) (*Entry, error) {
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
