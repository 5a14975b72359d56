// Package token assigns stable, collision-resistant identity tokens to
// object instances, independent of where the instance lives in memory.
//
// Memoizing a method call needs something that identifies the receiver
// inside a cache key. Using the receiver itself pins it in memory for the
// cache's lifetime; using its address serves stale entries once the address
// is reused by a later allocation. A token has neither problem: it is a
// random value bound to the logical instance, created lazily on first use
// and never regenerated.
//
// # Two association strategies
//
// Types that can afford an extra field embed [Identity]:
//
//	type Report struct {
//	    token.Identity
//	    rows []Row
//	}
//
//	tok := report.CacheToken() // lazy, stable, concurrency-safe
//
// Types that cannot be modified go through an [Allocator], an external
// side-table keyed by weak pointer:
//
//	alloc := token.NewAllocator[Report]()
//	tok := alloc.Resolve(report)
//
// The allocator never keeps an instance alive, and the runtime removes the
// association once the instance is collected. Only the association is
// reclaimed; cache entries built from the token are left to the owning
// store's own eviction.
package token
