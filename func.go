package methodcache

import (
	"context"

	"github.com/dmitrymomot/methodcache/pkg/cachekey"
)

// Plain functions carry no instance identity, so their keys use the zero
// token and skip token resolution entirely. These wrappers are the
// memoization primitive the method wrappers build on; use them for free
// functions and for class-level callables with no per-call instance.

// Func1 memoizes a single-argument function.
type Func1[A comparable, R any] struct {
	*core[R]
	fn func(A) (R, error)
}

// WrapFunc1 memoizes a plain function of one argument.
//
//	resolve := methodcache.WrapFunc1(net.LookupHost) // illustrative
//	v, err := resolve.Call("example.com")
func WrapFunc1[A comparable, R any](fn func(A) (R, error), opts ...Option) *Func1[A, R] {
	if fn == nil {
		panic("methodcache: fn must not be nil")
	}
	return &Func1[A, R]{core: newCore[R](fn, opts), fn: fn}
}

// Call returns the cached result for a, invoking fn on a miss.
func (f *Func1[A, R]) Call(a A) (R, error) {
	key, err := cachekey.Build(f.id, zeroToken, a)
	if err != nil {
		var zero R
		return zero, err
	}
	return f.do(context.Background(), key, func() (R, error) {
		return f.fn(a)
	})
}

// Func2 memoizes a two-argument function.
type Func2[A, B comparable, R any] struct {
	*core[R]
	fn func(A, B) (R, error)
}

// WrapFunc2 memoizes a plain function of two arguments.
func WrapFunc2[A, B comparable, R any](fn func(A, B) (R, error), opts ...Option) *Func2[A, B, R] {
	if fn == nil {
		panic("methodcache: fn must not be nil")
	}
	return &Func2[A, B, R]{core: newCore[R](fn, opts), fn: fn}
}

// Call returns the cached result for (a, b), invoking fn on a miss.
func (f *Func2[A, B, R]) Call(a A, b B) (R, error) {
	key, err := cachekey.Build(f.id, zeroToken, a, b)
	if err != nil {
		var zero R
		return zero, err
	}
	return f.do(context.Background(), key, func() (R, error) {
		return f.fn(a, b)
	})
}
