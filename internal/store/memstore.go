package store

import (
	"sync"

	"github.com/heysubinoy/pyazkv/pkg/kv"
)

// MemStore is an in-memory implementation of the kv.Store interface.
// It uses a map protected by a RWMutex for thread-safe operations and keeps
// nothing on disk.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]kv.Value
}

// Compile-time check to ensure MemStore implements kv.Store.
var _ kv.Store = (*MemStore)(nil)

// NewMemStore creates and returns a new MemStore instance.
func NewMemStore() *MemStore {
	return &MemStore{
		data: make(map[string]kv.Value),
	}
}

// Init is a no-op for in-memory storage.
func (s *MemStore) Init() error {
	return nil
}

// Get retrieves a value by key from the store.
// Returns the value and true if found, an absent Value and false otherwise.
func (s *MemStore) Get(key string) (kv.Value, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok, nil
}

// Set stores a key-value pair in the store.
func (s *MemStore) Set(key string, value kv.Value) error {
	if err := kv.ValidateKey(key); err != nil {
		return err
	}
	if value.IsAbsent() {
		return kv.ErrAbsentValue
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Delete removes a key from the store.
// Returns nil even if the key doesn't exist.
func (s *MemStore) Delete(key string) error {
	if err := kv.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// CheckAndSet sets key to newValue if the stored value equals expected.
func (s *MemStore) CheckAndSet(key string, expected, newValue kv.Value) (bool, error) {
	if err := kv.ValidateKey(key); err != nil {
		return false, err
	}
	if newValue.IsAbsent() {
		return false, kv.ErrAbsentValue
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.data[key].Equal(expected) {
		return false, nil
	}
	s.data[key] = newValue
	return true, nil
}
