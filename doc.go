// Package methodcache memoizes method calls without retaining or
// misidentifying their receivers.
//
// Naive method memoization fails in two ways. Keying the cache on the
// receiver itself keeps the receiver alive for as long as the cache lives.
// Keying on the receiver's address is worse: once the receiver is collected
// and a later allocation reuses the address, the cache serves another
// object's results. methodcache avoids both by giving every instance an
// opaque random token (see [github.com/dmitrymomot/methodcache/pkg/token])
// and keying on that instead.
//
// # Quick start
//
// Wrap a method expression and call through the wrapper:
//
//	type Report struct{ rows []Row }
//
//	func (r *Report) Render(width int) (string, error) { ... }
//
//	var render = methodcache.Wrap1((*Report).Render)
//
//	out, err := render.Call(report, 80)  // computes
//	out, err = render.Call(report, 80)   // cached, Render not invoked
//	out, err = render.Call(other, 80)    // computes: entries never cross instances
//
// Fixed-arity wrappers ([Wrap0] through [Wrap3], plus [Wrap1Ctx] and
// [Wrap2Ctx] for context-aware methods) enforce argument comparability at
// compile time. [WrapAny] accepts arbitrary arguments and reports
// non-comparable ones at call time with cachekey.ErrUnhashableArgument.
// [WrapFunc1] and [WrapFunc2] memoize plain functions, which carry no
// instance identity at all.
//
// # Contract
//
// On a hit the wrapped callable is not invoked, so any side effects it
// would have performed are skipped; wrap only callables whose observable
// behavior is their return value. A call that returns an error is never
// cached — the next identical call invokes the callable again. Concurrent
// calls on one key share a single execution (single-flight); the store and
// token association are safe for concurrent use.
//
// # Lifecycle
//
// The cache never keeps a receiver alive: the token association is weak and
// is dropped by the runtime when the receiver is collected. Cache entries
// themselves reference only the token, so they persist until Clear, LRU
// eviction ([WithMaxEntries]), or expiry ([WithTTL]). Entries left behind
// by a collected receiver can never be served to another instance — a new
// instance always gets a fresh token.
//
// Each wrapper owns an independent store: Clear on one wrapped callable
// never touches another's entries. Stats exposes hit/miss counters.
package methodcache
