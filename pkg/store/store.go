package store

import "context"

// Store is a generic key-value store for memoized results.
//
// A store performs structural equality on keys: two keys address the same
// entry iff they compare equal. Each wrapped callable owns an independent
// store, so Clear on one never touches another's entries.
type Store[K comparable, V any] interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key K) (V, error)

	// Set stores a value under key, replacing any previous value.
	Set(ctx context.Context, key K, value V) error

	// Delete removes a key from the store.
	Delete(ctx context.Context, key K) error

	// Has checks whether a key exists and has not expired.
	Has(ctx context.Context, key K) (bool, error)

	// Len reports the current number of entries.
	Len() int

	// Clear removes all entries from this store only.
	Clear(ctx context.Context) error

	// Close releases resources (stops background goroutines, etc.).
	Close() error
}
