package methodcache

import (
	"time"

	"github.com/dmitrymomot/methodcache/pkg/store"
)

// EvictionPolicy selects what a bounded store does at capacity.
type EvictionPolicy = store.EvictionPolicy

// Re-exported eviction policies.
const (
	// EvictLRU removes the least recently used entry to make room.
	EvictLRU = store.EvictLRU

	// EvictNone stops storing new results once the bound is reached;
	// further misses compute without being cached.
	EvictNone = store.EvictNone
)

// Option configures a wrapped callable's cache.
type Option func(*config)

type config struct {
	storeOpts []store.Option
}

func newConfig() *config {
	return &config{}
}

// WithMaxEntries bounds the number of cached results for one wrapped
// callable. Zero means unbounded.
// Default: 0 (unbounded).
func WithMaxEntries(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.storeOpts = append(c.storeOpts, store.WithMaxEntries(n))
		}
	}
}

// WithEvictionPolicy sets the behavior of a bounded cache at capacity.
// Default: EvictLRU.
func WithEvictionPolicy(p EvictionPolicy) Option {
	return func(c *config) {
		c.storeOpts = append(c.storeOpts, store.WithEvictionPolicy(p))
	}
}

// WithTTL expires cached results after d. Zero or negative means results
// never expire.
// Default: 0 (never expires).
func WithTTL(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.storeOpts = append(c.storeOpts, store.WithTTL(d))
		}
	}
}

// WithCleanupInterval runs a background janitor that removes expired
// results every d. Only meaningful together with WithTTL; the wrapper's
// Close stops the janitor.
// Default: 0 (disabled; expired results are dropped lazily on access).
func WithCleanupInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.storeOpts = append(c.storeOpts, store.WithCleanupInterval(d))
		}
	}
}
