// Package flight provides call deduplication over comparable keys.
//
// It mirrors the semantics of golang.org/x/sync/singleflight for key types
// that cannot be represented as strings without collision risk: concurrent
// callers for one key share a single execution and receive its result and
// error. Nothing is cached; once the call completes the key is forgotten.
package flight

import (
	"errors"
	"sync"
)

// ErrInterrupted is observed by waiters when the executing caller's
// function panicked instead of returning.
var ErrInterrupted = errors.New("flight: shared call did not complete")

// call tracks one in-flight execution.
type call[V any] struct {
	wg   sync.WaitGroup
	val  V
	err  error
	dups int
}

// Group deduplicates concurrent function calls by key.
// The zero value is ready to use.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

// Do executes fn, making sure that at most one execution is in flight for
// the given key at a time. Concurrent callers for the same key wait for the
// original execution and receive its value and error. shared reports
// whether the result was given to more than one caller.
//
// If fn panics, the panic propagates to the executing caller; waiters
// receive ErrInterrupted.
func (g *Group[K, V]) Do(key K, fn func() (V, error)) (v V, err error, shared bool) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	if c, ok := g.m[key]; ok {
		c.dups++
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}
	c := new(call[V])
	c.wg.Add(1)
	g.m[key] = c
	g.mu.Unlock()

	g.doCall(c, key, fn)
	return c.val, c.err, c.dups > 0
}

// doCall runs fn for c and releases waiters. The in-flight record is
// removed under the lock before waiters wake, so c.dups is stable once
// doCall returns.
func (g *Group[K, V]) doCall(c *call[V], key K, fn func() (V, error)) {
	returned := false
	defer func() {
		if !returned {
			c.err = ErrInterrupted
		}

		g.mu.Lock()
		if g.m[key] == c {
			delete(g.m, key)
		}
		c.wg.Done()
		g.mu.Unlock()
	}()

	c.val, c.err = fn()
	returned = true
}

// Forget drops the in-flight record for key, so the next Do starts a fresh
// execution instead of waiting for an earlier one.
func (g *Group[K, V]) Forget(key K) {
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()
}
