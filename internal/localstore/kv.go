// Package localstore provides device-local persistence for small JSON documents.
// The host application owns the storage medium; this package exposes a minimal
// string-keyed interface plus in-memory and file-backed implementations.
package localstore

import (
	"errors"
	"sync"
)

// ErrKeyNotFound is returned when a key has no stored value.
var ErrKeyNotFound = errors.New("localstore: key not found")

// KV is a string-keyed store for JSON-encoded documents.
// Implementations must be safe for concurrent use.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// InMemoryKV implements KV with in-memory storage.
type InMemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewInMemoryKV creates a new in-memory key-value store.
func NewInMemoryKV() *InMemoryKV {
	return &InMemoryKV{
		values: make(map[string]string),
	}
}

// Get retrieves the value stored under key.
// Returns ErrKeyNotFound if the key doesn't exist.
func (s *InMemoryKV) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *InMemoryKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete removes the value stored under key. Deleting a missing key is a no-op.
func (s *InMemoryKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
