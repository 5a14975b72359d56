package methodcache

import (
	"context"

	"github.com/dmitrymomot/methodcache/pkg/cachekey"
)

// Method0 memoizes a niladic method: one cached result per instance.
type Method0[T any, R any] struct {
	method[T, R]
	fn func(*T) (R, error)
}

// Wrap0 memoizes a method taking no arguments beyond its receiver. Pass the
// method expression:
//
//	total := methodcache.Wrap0((*Report).Total)
//	v, err := total.Call(r)
func Wrap0[T any, R any](fn func(*T) (R, error), opts ...Option) *Method0[T, R] {
	if fn == nil {
		panic("methodcache: fn must not be nil")
	}
	return &Method0[T, R]{method: newMethod[T, R](fn, opts), fn: fn}
}

// Call returns the cached result for recv, invoking the method on first use.
func (m *Method0[T, R]) Call(recv *T) (R, error) {
	tok, err := m.resolveToken(recv)
	if err != nil {
		var zero R
		return zero, err
	}
	key, err := cachekey.Build(m.id, tok)
	if err != nil {
		var zero R
		return zero, err
	}
	return m.do(context.Background(), key, func() (R, error) {
		return m.fn(recv)
	})
}

// Method1 memoizes a single-argument method per instance and argument.
type Method1[T any, A comparable, R any] struct {
	method[T, R]
	fn func(*T, A) (R, error)
}

// Wrap1 memoizes a method taking one argument beyond its receiver.
func Wrap1[T any, A comparable, R any](fn func(*T, A) (R, error), opts ...Option) *Method1[T, A, R] {
	if fn == nil {
		panic("methodcache: fn must not be nil")
	}
	return &Method1[T, A, R]{method: newMethod[T, R](fn, opts), fn: fn}
}

// Call returns the cached result for (recv, a), invoking the method on a miss.
func (m *Method1[T, A, R]) Call(recv *T, a A) (R, error) {
	tok, err := m.resolveToken(recv)
	if err != nil {
		var zero R
		return zero, err
	}
	key, err := cachekey.Build(m.id, tok, a)
	if err != nil {
		var zero R
		return zero, err
	}
	return m.do(context.Background(), key, func() (R, error) {
		return m.fn(recv, a)
	})
}

// Method2 memoizes a two-argument method.
type Method2[T any, A, B comparable, R any] struct {
	method[T, R]
	fn func(*T, A, B) (R, error)
}

// Wrap2 memoizes a method taking two arguments beyond its receiver.
func Wrap2[T any, A, B comparable, R any](fn func(*T, A, B) (R, error), opts ...Option) *Method2[T, A, B, R] {
	if fn == nil {
		panic("methodcache: fn must not be nil")
	}
	return &Method2[T, A, B, R]{method: newMethod[T, R](fn, opts), fn: fn}
}

// Call returns the cached result for (recv, a, b). Argument order matters:
// Call(recv, x, y) and Call(recv, y, x) are distinct entries.
func (m *Method2[T, A, B, R]) Call(recv *T, a A, b B) (R, error) {
	tok, err := m.resolveToken(recv)
	if err != nil {
		var zero R
		return zero, err
	}
	key, err := cachekey.Build(m.id, tok, a, b)
	if err != nil {
		var zero R
		return zero, err
	}
	return m.do(context.Background(), key, func() (R, error) {
		return m.fn(recv, a, b)
	})
}

// Method3 memoizes a three-argument method.
type Method3[T any, A, B, C comparable, R any] struct {
	method[T, R]
	fn func(*T, A, B, C) (R, error)
}

// Wrap3 memoizes a method taking three arguments beyond its receiver.
func Wrap3[T any, A, B, C comparable, R any](fn func(*T, A, B, C) (R, error), opts ...Option) *Method3[T, A, B, C, R] {
	if fn == nil {
		panic("methodcache: fn must not be nil")
	}
	return &Method3[T, A, B, C, R]{method: newMethod[T, R](fn, opts), fn: fn}
}

// Call returns the cached result for (recv, a, b, c).
func (m *Method3[T, A, B, C, R]) Call(recv *T, a A, b B, c C) (R, error) {
	tok, err := m.resolveToken(recv)
	if err != nil {
		var zero R
		return zero, err
	}
	key, err := cachekey.Build(m.id, tok, a, b, c)
	if err != nil {
		var zero R
		return zero, err
	}
	return m.do(context.Background(), key, func() (R, error) {
		return m.fn(recv, a, b, c)
	})
}

// Method1Ctx memoizes a context-aware single-argument method. The context
// is forwarded to the method and the store but never enters the cache key.
type Method1Ctx[T any, A comparable, R any] struct {
	method[T, R]
	fn func(*T, context.Context, A) (R, error)
}

// Wrap1Ctx memoizes a method whose first parameter after the receiver is a
// context.Context. Pass the method expression:
//
//	fetch := methodcache.Wrap1Ctx((*Client).Fetch)
//	v, err := fetch.Call(ctx, client, id)
func Wrap1Ctx[T any, A comparable, R any](fn func(*T, context.Context, A) (R, error), opts ...Option) *Method1Ctx[T, A, R] {
	if fn == nil {
		panic("methodcache: fn must not be nil")
	}
	return &Method1Ctx[T, A, R]{method: newMethod[T, R](fn, opts), fn: fn}
}

// Call returns the cached result for (recv, a); ctx does not affect the key.
func (m *Method1Ctx[T, A, R]) Call(ctx context.Context, recv *T, a A) (R, error) {
	tok, err := m.resolveToken(recv)
	if err != nil {
		var zero R
		return zero, err
	}
	key, err := cachekey.Build(m.id, tok, a)
	if err != nil {
		var zero R
		return zero, err
	}
	return m.do(ctx, key, func() (R, error) {
		return m.fn(recv, ctx, a)
	})
}

// Method2Ctx memoizes a context-aware two-argument method.
type Method2Ctx[T any, A, B comparable, R any] struct {
	method[T, R]
	fn func(*T, context.Context, A, B) (R, error)
}

// Wrap2Ctx memoizes a context-aware method taking two arguments beyond the
// receiver and the context.
func Wrap2Ctx[T any, A, B comparable, R any](fn func(*T, context.Context, A, B) (R, error), opts ...Option) *Method2Ctx[T, A, B, R] {
	if fn == nil {
		panic("methodcache: fn must not be nil")
	}
	return &Method2Ctx[T, A, B, R]{method: newMethod[T, R](fn, opts), fn: fn}
}

// Call returns the cached result for (recv, a, b); ctx does not affect the key.
func (m *Method2Ctx[T, A, B, R]) Call(ctx context.Context, recv *T, a A, b B) (R, error) {
	tok, err := m.resolveToken(recv)
	if err != nil {
		var zero R
		return zero, err
	}
	key, err := cachekey.Build(m.id, tok, a, b)
	if err != nil {
		var zero R
		return zero, err
	}
	return m.do(ctx, key, func() (R, error) {
		return m.fn(recv, ctx, a, b)
	})
}
