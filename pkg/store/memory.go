package store

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// entry holds a cached value with its expiration time and key.
type entry[K comparable, V any] struct {
	expiresAt time.Time // zero value = never expires
	value     V
	key       K
}

// isExpired reports whether the entry has passed its expiration time.
func (e *entry[K, V]) isExpired() bool {
	if e.expiresAt.IsZero() {
		return false
	}
	return time.Now().After(e.expiresAt)
}

// Memory is an in-memory store with optional TTL-based expiration and a
// configurable policy for bounded capacity.
//
// It uses a hash map for O(1) lookups and a doubly-linked list for O(1)
// LRU ordering. The most recently accessed entries are at the front of the
// list; the least recently used are at the back.
type Memory[K comparable, V any] struct {
	items    map[K]*list.Element
	eviction *list.List
	opts     *options
	onEvict  func(key K, value V)
	done     chan struct{}
	mu       sync.Mutex
	closed   bool
}

// NewMemory creates a new in-memory store.
//
// Example:
//
//	s := store.NewMemory[cachekey.Key, int](
//	    store.WithMaxEntries(10000),
//	    store.WithTTL(5 * time.Minute),
//	)
//	defer s.Close()
func NewMemory[K comparable, V any](opts ...Option) *Memory[K, V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory[K, V]{
		items:    make(map[K]*list.Element),
		eviction: list.New(),
		opts:     o,
		done:     make(chan struct{}),
	}

	if o.ttl > 0 && o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// SetEvictCallback sets a callback function that is called when entries
// leave the store. This includes LRU eviction, TTL expiration, manual
// deletion, and clearing.
func (m *Memory[K, V]) SetEvictCallback(fn func(key K, value V)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = fn
}

// Get retrieves a value by key.
// Returns ErrNotFound if the key does not exist or has expired.
// Accessing a key marks it as recently used for LRU purposes.
func (m *Memory[K, V]) Get(_ context.Context, key K) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}

	e := elem.Value.(*entry[K, V])

	if e.isExpired() {
		m.removeElement(elem)
		var zero V
		return zero, ErrNotFound
	}

	// Move to front: mark as recently used.
	m.eviction.MoveToFront(elem)

	return e.value, nil
}

// Set stores a value under key, replacing any previous value. On a bounded
// store at capacity, EvictLRU removes the least recently used entry and
// EvictNone returns ErrFull.
func (m *Memory[K, V]) Set(_ context.Context, key K, value V) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	var expiresAt time.Time
	if m.opts.ttl > 0 {
		expiresAt = time.Now().Add(m.opts.ttl)
	}

	// Update existing entry.
	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expiresAt
		m.eviction.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		if m.opts.policy == EvictNone {
			return ErrFull
		}
		m.evictOldest()
	}

	// Insert new entry at front.
	e := &entry[K, V]{key: key, value: value, expiresAt: expiresAt}
	elem := m.eviction.PushFront(e)
	m.items[key] = elem

	return nil
}

// Delete removes a key from the store.
func (m *Memory[K, V]) Delete(_ context.Context, key K) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if elem, ok := m.items[key]; ok {
		m.removeElement(elem)
	}

	return nil
}

// Has checks whether a key exists and has not expired.
func (m *Memory[K, V]) Has(_ context.Context, key K) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return false, nil
	}

	e := elem.Value.(*entry[K, V])
	if e.isExpired() {
		m.removeElement(elem)
		return false, nil
	}

	return true, nil
}

// Len reports the current number of entries, including any that have
// expired but not yet been removed.
func (m *Memory[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Clear removes all entries from this store only.
func (m *Memory[K, V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if m.onEvict != nil {
		for _, elem := range m.items {
			e := elem.Value.(*entry[K, V])
			m.onEvict(e.key, e.value)
		}
	}

	m.items = make(map[K]*list.Element)
	m.eviction.Init()

	return nil
}

// Close stops the background janitor goroutine and marks the store as
// closed. Close is idempotent.
func (m *Memory[K, V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)

	return nil
}

// janitor periodically removes expired entries.
func (m *Memory[K, V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

// deleteExpired removes all expired entries from back to front.
func (m *Memory[K, V]) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for elem := m.eviction.Back(); elem != nil; {
		e := elem.Value.(*entry[K, V])
		prev := elem.Prev()
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			m.removeElement(elem)
		}
		elem = prev
	}
}

// evictOldest removes the least recently used entry.
// Caller must hold the mutex.
func (m *Memory[K, V]) evictOldest() {
	elem := m.eviction.Back()
	if elem != nil {
		m.removeElement(elem)
	}
}

// removeElement removes a specific element and triggers the eviction callback.
// Caller must hold the mutex.
func (m *Memory[K, V]) removeElement(elem *list.Element) {
	m.eviction.Remove(elem)
	e := elem.Value.(*entry[K, V])
	delete(m.items, e.key)

	if m.onEvict != nil {
		m.onEvict(e.key, e.value)
	}
}

var _ Store[string, any] = (*Memory[string, any])(nil)
