package token

import (
	"reflect"
	"runtime"
	"sync"
	"weak"
)

// Carrier is implemented by instances that carry their own identity token,
// typically by embedding [Identity]. Callers that can add a field to their
// types should prefer this over the allocator side-table: it avoids any
// shared state and survives copies of the embedding pointer.
type Carrier interface {
	CacheToken() Token
}

// Identity is an embeddable token field. The token is created lazily on
// first use and never changes afterwards, even under concurrent first
// access. The zero value is ready to use.
//
//	type Report struct {
//	    token.Identity
//	    ...
//	}
type Identity struct {
	once sync.Once
	tok  Token
}

// CacheToken returns the instance's token, generating it on first call.
func (i *Identity) CacheToken() Token {
	i.once.Do(func() {
		i.tok = New()
	})
	return i.tok
}

// Allocator issues tokens for instances of T that cannot carry one
// themselves. It keeps a side-table keyed by weak pointer, so it never
// retains an instance, and the table entry is dropped by the runtime once
// the instance is collected. A weak pointer to a collected object never
// compares equal to one for a later allocation at the same address, which
// is what makes the association safe against identity reuse.
type Allocator[T any] struct {
	mu     sync.Mutex
	tokens map[weak.Pointer[T]]Token
}

// NewAllocator creates an allocator for instances of T.
// Panics if T is zero-sized: distinct zero-size allocations may share an
// address, so per-instance identity is undefined for them.
func NewAllocator[T any]() *Allocator[T] {
	if reflect.TypeFor[T]().Size() == 0 {
		panic("token: cannot allocate identity tokens for zero-sized type " + reflect.TypeFor[T]().String())
	}
	return &Allocator[T]{
		tokens: make(map[weak.Pointer[T]]Token),
	}
}

// Resolve returns the token associated with inst, creating one on first
// access. It is idempotent: every call for the same live instance returns
// the same token, including concurrent first calls (test-and-set under the
// allocator lock, so two racing goroutines cannot observe divergent tokens).
func (a *Allocator[T]) Resolve(inst *T) Token {
	if inst == nil {
		panic("token: nil instance")
	}
	wp := weak.Make(inst)

	a.mu.Lock()
	defer a.mu.Unlock()

	if tok, ok := a.tokens[wp]; ok {
		return tok
	}

	tok := New()
	a.tokens[wp] = tok

	// Drop the table entry once the instance is collected. The cleanup
	// closure must not reference inst itself, only the weak handle.
	runtime.AddCleanup(inst, func(wp weak.Pointer[T]) {
		a.mu.Lock()
		delete(a.tokens, wp)
		a.mu.Unlock()
	}, wp)

	return tok
}

// Len reports the number of live associations in the side-table.
func (a *Allocator[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.tokens)
}
