package store

import "time"

// EvictionPolicy selects what happens when a bounded store reaches its
// maximum entry count.
type EvictionPolicy int

const (
	// EvictLRU removes the least recently used entry to make room.
	EvictLRU EvictionPolicy = iota

	// EvictNone rejects new entries with ErrFull once the bound is reached.
	EvictNone
)

// String returns the policy name.
func (p EvictionPolicy) String() string {
	switch p {
	case EvictLRU:
		return "lru"
	case EvictNone:
		return "none"
	default:
		return "unknown"
	}
}

// Option configures the in-memory store.
type Option func(*options)

type options struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	maxEntries      int
	policy          EvictionPolicy
}

func defaultOptions() *options {
	return &options{
		ttl:             0, // never expires
		cleanupInterval: 0, // no janitor; expired entries removed lazily
		maxEntries:      0, // unbounded
		policy:          EvictLRU,
	}
}

// WithMaxEntries bounds the number of entries in the store.
// When the bound is reached the eviction policy decides what happens.
// Zero means unbounded.
// Default: 0 (unbounded).
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxEntries = n
		}
	}
}

// WithEvictionPolicy sets the behavior of a bounded store at capacity.
// Default: EvictLRU.
func WithEvictionPolicy(p EvictionPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithTTL sets the lifetime of entries. Expired entries are treated as
// absent on Get and removed by the janitor if one is configured.
// Zero or negative means entries never expire.
// Default: 0 (never expires).
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithCleanupInterval sets how often expired entries are removed by a
// background janitor goroutine. Zero disables the janitor; expired entries
// are then removed lazily on access. Only meaningful together with WithTTL.
// Default: 0 (disabled).
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.cleanupInterval = d
		}
	}
}
