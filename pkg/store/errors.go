package store

import "errors"

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a key does not exist in the store or has expired.
	ErrNotFound = errors.New("store: entry not found")

	// ErrClosed is returned when a mutating operation is attempted on a closed store.
	ErrClosed = errors.New("store: closed")

	// ErrFull is returned when a bounded store with EvictNone cannot accept
	// another entry.
	ErrFull = errors.New("store: full")
)
