// Package store provides the generic in-memory store backing memoized
// callables.
//
// The [Store] interface is generic over key and value; keys compare
// structurally, so any comparable composite works (in practice,
// cachekey.Key). [Memory] is the single implementation: a hash map for
// O(1) lookups plus a doubly-linked list for O(1) LRU ordering.
//
//	s := store.NewMemory[cachekey.Key, int](
//	    store.WithMaxEntries(10000),
//	)
//	defer s.Close()
//
//	if err := s.Set(ctx, key, 42); err != nil { ... }
//	v, err := s.Get(ctx, key) // ErrNotFound on miss
//
// # Capacity and eviction
//
// An unbounded store (the default) keeps entries until Clear. With
// [WithMaxEntries], the [EvictionPolicy] decides what happens at capacity:
// [EvictLRU] drops the least recently used entry, [EvictNone] rejects the
// insert with [ErrFull]. Getting a key refreshes its LRU position.
//
// # Expiration
//
// Entries never expire unless [WithTTL] is set. Expired entries are
// removed lazily on access; [WithCleanupInterval] additionally runs a
// background janitor, stopped by Close.
//
// # Eviction callbacks
//
//	s.SetEvictCallback(func(key cachekey.Key, v int) { ... })
//
// The callback fires on LRU eviction, TTL expiry, manual deletion, and
// clearing.
//
// # Error handling
//
// Sentinel errors, checked with errors.Is: [ErrNotFound], [ErrClosed],
// [ErrFull].
package store
