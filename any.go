package methodcache

import (
	"context"

	"github.com/dmitrymomot/methodcache/pkg/cachekey"
)

// MethodAny memoizes a variadic method. Unlike the fixed-arity wrappers,
// argument hashability is checked at call time: a non-comparable argument
// fails key construction with cachekey.ErrUnhashableArgument, the method is
// not invoked, and nothing is stored.
type MethodAny[T any, R any] struct {
	method[T, R]
	fn func(*T, ...any) (R, error)
}

// WrapAny memoizes a method taking arbitrary arguments.
func WrapAny[T any, R any](fn func(*T, ...any) (R, error), opts ...Option) *MethodAny[T, R] {
	if fn == nil {
		panic("methodcache: fn must not be nil")
	}
	return &MethodAny[T, R]{method: newMethod[T, R](fn, opts), fn: fn}
}

// Call returns the cached result for (recv, args...). Positional order
// matters for key equality.
func (m *MethodAny[T, R]) Call(recv *T, args ...any) (R, error) {
	tok, err := m.resolveToken(recv)
	if err != nil {
		var zero R
		return zero, err
	}
	key, err := cachekey.Build(m.id, tok, args...)
	if err != nil {
		var zero R
		return zero, err
	}
	return m.do(context.Background(), key, func() (R, error) {
		return m.fn(recv, args...)
	})
}

// CallNamed is Call with additional named arguments. Named arguments are
// order-independent: passing the same names and values in a different order
// hits the same entry. The method itself receives the named values appended
// after the positional ones, in the order given.
func (m *MethodAny[T, R]) CallNamed(recv *T, args []any, named ...cachekey.Named) (R, error) {
	tok, err := m.resolveToken(recv)
	if err != nil {
		var zero R
		return zero, err
	}
	key, err := cachekey.BuildNamed(m.id, tok, args, named...)
	if err != nil {
		var zero R
		return zero, err
	}
	return m.do(context.Background(), key, func() (R, error) {
		full := make([]any, 0, len(args)+len(named))
		full = append(full, args...)
		for _, n := range named {
			full = append(full, n.Value)
		}
		return m.fn(recv, full...)
	})
}
