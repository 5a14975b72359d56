package methodcache

import (
	"context"
	"reflect"
	"sync/atomic"

	"github.com/dmitrymomot/methodcache/internal/flight"
	"github.com/dmitrymomot/methodcache/pkg/cachekey"
	"github.com/dmitrymomot/methodcache/pkg/store"
	"github.com/dmitrymomot/methodcache/pkg/token"
)

// zeroToken marks keys with no instance-identity component: plain
// functions and zero-sized receivers.
var zeroToken token.Token

// Stats reports cache effectiveness for one wrapped callable.
// Hits counts calls served without invoking the callable (from the store or
// from a shared in-flight execution); Misses counts actual invocations.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// core carries the per-wrapper state every arity variant shares: the
// callable identity, the store, the in-flight deduplication group, and the
// hit/miss counters.
type core[R any] struct {
	id     uint64
	store  *store.Memory[cachekey.Key, R]
	flight flight.Group[cachekey.Key, R]
	hits   atomic.Uint64
	misses atomic.Uint64
}

func newCore[R any](fn any, opts []Option) *core[R] {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &core[R]{
		id:    cachekey.CallableID(fn),
		store: store.NewMemory[cachekey.Key, R](cfg.storeOpts...),
	}
}

// do implements the hit/miss protocol for one call: consult the store,
// deduplicate concurrent misses per key, invoke compute at most once, and
// store the result only on success. Errors from compute are never cached.
func (c *core[R]) do(ctx context.Context, key cachekey.Key, compute func() (R, error)) (R, error) {
	// Fast path: try the store first.
	if v, err := c.store.Get(ctx, key); err == nil {
		c.hits.Add(1)
		return v, nil
	}

	executed := false
	v, err, _ := c.flight.Do(key, func() (R, error) {
		executed = true

		// Another caller may have stored the value between our miss and
		// winning the flight.
		if v, err := c.store.Get(ctx, key); err == nil {
			c.hits.Add(1)
			return v, nil
		}

		c.misses.Add(1)
		v, err := compute()
		if err != nil {
			var zero R
			return zero, err
		}

		// Best-effort store; a full store with EvictNone just means the
		// next identical call computes again.
		_ = c.store.Set(ctx, key, v)

		return v, nil
	})

	// Waiters that shared the winner's successful result never touched the
	// store themselves; count them as hits.
	if !executed && err == nil {
		c.hits.Add(1)
	}

	return v, err
}

// Stats returns the hit/miss counters for this wrapped callable.
func (c *core[R]) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// Clear removes all entries from this wrapped callable's store only; other
// wrapped callables are unaffected. The hit/miss counters reset as well.
func (c *core[R]) Clear() {
	_ = c.store.Clear(context.Background())
	c.hits.Store(0)
	c.misses.Store(0)
}

// Len reports the number of entries currently stored.
func (c *core[R]) Len() int {
	return c.store.Len()
}

// Close releases the store's resources. Further calls invoke the callable
// directly without storing results.
func (c *core[R]) Close() error {
	return c.store.Close()
}

// method extends core with receiver token resolution for the Wrap family.
type method[T any, R any] struct {
	*core[R]
	alloc *token.Allocator[T]
}

func newMethod[T any, R any](fn any, opts []Option) method[T, R] {
	m := method[T, R]{core: newCore[R](fn, opts)}
	// Zero-sized receivers carry no per-instance state, so they have no
	// instance-identity concern and need no allocator; the zero token is
	// used instead, same as for plain functions.
	if reflect.TypeFor[T]().Size() > 0 {
		m.alloc = token.NewAllocator[T]()
	}
	return m
}

// resolveToken returns the identity token for recv. Receivers implementing
// token.Carrier supply their own token; everything else goes through the
// wrapper's weak side-table allocator.
func (m *method[T, R]) resolveToken(recv *T) (token.Token, error) {
	if recv == nil {
		return token.Token{}, ErrNilReceiver
	}
	if c, ok := any(recv).(token.Carrier); ok {
		return c.CacheToken(), nil
	}
	if m.alloc == nil {
		return token.Token{}, nil
	}
	return m.alloc.Resolve(recv), nil
}
