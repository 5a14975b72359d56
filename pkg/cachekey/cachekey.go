package cachekey

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/dmitrymomot/methodcache/pkg/token"
)

// Sentinel errors for key construction.
var (
	// ErrUnhashableArgument is returned when an argument value cannot
	// participate in equality-based lookup (its dynamic type or a nested
	// interface value is not comparable).
	ErrUnhashableArgument = errors.New("cachekey: unhashable argument")

	// ErrDuplicateName is returned when two named arguments share a name.
	ErrDuplicateName = errors.New("cachekey: duplicate argument name")
)

// Key identifies one memoized result. It is a comparable composite of the
// wrapped callable's identity, the receiving instance's token, and the call
// arguments. Two keys are equal iff all constituents compare equal.
// Plain-function keys carry the zero token.
type Key struct {
	callable uint64
	token    token.Token
	args     any
}

// Callable returns the identity digest of the wrapped callable.
func (k Key) Callable() uint64 { return k.callable }

// Token returns the instance token component of the key.
func (k Key) Token() token.Token { return k.token }

// Named is a keyword argument: a (name, value) pair whose position in the
// argument list does not affect key equality.
type Named struct {
	Name  string
	Value any
}

// pair folds argument sequences into a comparable chain. It is unexported
// so caller-supplied values can never collide with the fold structure.
type pair struct {
	head any
	tail any
}

// CallableID derives a stable 64-bit identity for fn from its
// fully-qualified function name. It distinguishes wrapped callables from
// one another inside keys; returns 0 if fn is not a non-nil function.
func CallableID(fn any) uint64 {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return 0
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return 0
	}
	return xxhash.Sum64String(f.Name())
}

// Build constructs a key from the callable identity, the instance token,
// and ordered positional arguments. It is a pure function: no state is
// touched, and the same inputs always produce equal keys. Argument order
// matters; Build(id, tok, 1, 2) and Build(id, tok, 2, 1) yield distinct
// keys. Returns ErrUnhashableArgument if any argument cannot be compared.
func Build(callable uint64, tok token.Token, args ...any) (Key, error) {
	folded, err := fold(nil, args)
	if err != nil {
		return Key{}, err
	}
	return Key{callable: callable, token: tok, args: folded}, nil
}

// BuildNamed constructs a key from positional and named arguments. The
// positional part preserves order; the named part is canonicalized by name,
// so two calls passing the same names and values in different order yield
// equal keys. Names must be unique.
func BuildNamed(callable uint64, tok token.Token, args []any, named ...Named) (Key, error) {
	folded, err := fold(nil, args)
	if err != nil {
		return Key{}, err
	}

	if len(named) > 0 {
		sorted := slices.Clone(named)
		slices.SortFunc(sorted, func(a, b Named) int {
			switch {
			case a.Name < b.Name:
				return -1
			case a.Name > b.Name:
				return 1
			default:
				return 0
			}
		})
		for i, n := range sorted {
			if i > 0 && sorted[i-1].Name == n.Name {
				return Key{}, fmt.Errorf("%w: %q", ErrDuplicateName, n.Name)
			}
			if err := checkHashable(n.Value); err != nil {
				return Key{}, err
			}
			folded = pair{head: folded, tail: pair{head: n.Name, tail: n.Value}}
		}
	}

	return Key{callable: callable, token: tok, args: folded}, nil
}

// fold chains args onto acc, validating each value.
func fold(acc any, args []any) (any, error) {
	for _, a := range args {
		if err := checkHashable(a); err != nil {
			return nil, err
		}
		acc = pair{head: acc, tail: a}
	}
	return acc, nil
}

// checkHashable rejects values whose comparison would panic inside a map
// lookup. reflect.Value.Comparable also inspects interface-typed fields,
// so a comparable struct hiding a slice behind an any field is caught here
// rather than blowing up the store.
func checkHashable(v any) error {
	if v == nil {
		return nil
	}
	if !reflect.ValueOf(v).Comparable() {
		return fmt.Errorf("%w: %T", ErrUnhashableArgument, v)
	}
	return nil
}
