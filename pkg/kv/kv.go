package kv

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrAbsentValue is returned when an absent Value is written.
	// Use Delete to remove a key, or Null() to store JSON null.
	ErrAbsentValue = errors.New("cannot store an absent value")

	// ErrInvalidValue is returned when a payload is not valid JSON.
	ErrInvalidValue = errors.New("value is not valid JSON")

	// ErrInvalidKey is returned for keys that are not valid UTF-8.
	ErrInvalidKey = errors.New("key is not valid UTF-8")
)

// ValidateKey reports whether key can be stored. Keys must be valid UTF-8
// so they survive encoding unchanged and keep their sort order on disk.
func ValidateKey(key string) error {
	if !utf8.ValidString(key) {
		return ErrInvalidKey
	}
	return nil
}

// Store defines the interface for a key-value store.
// Implementations of this interface can be swapped out,
// allowing for different storage backends (e.g., in-memory, segment files).
type Store interface {
	// Init prepares the backing storage. It is safe to call more than once.
	Init() error

	// Get retrieves the value associated with the given key.
	// Returns the value and true if the key exists, or an absent Value and
	// false if it was never written or has been deleted.
	Get(key string) (Value, bool, error)

	// Set stores a key-value pair.
	// Returns an error if the operation fails.
	Set(key string, value Value) error

	// Delete removes a key from the store.
	// Returns an error if the operation fails.
	Delete(key string) error

	// CheckAndSet writes newValue only if the current value of key equals
	// expected. An absent expected value matches a missing key.
	// A mismatch is reported as false with a nil error.
	CheckAndSet(key string, expected, newValue Value) (bool, error)
}

// Flusher is implemented by stores that stage writes in memory and can
// persist them on demand.
type Flusher interface {
	Flush() error
}
