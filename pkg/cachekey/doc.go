// Package cachekey builds comparable cache keys for memoized method calls.
//
// A key combines three things: the identity of the wrapped callable, the
// receiving instance's token (zero for plain functions), and the call
// arguments. Positional arguments contribute in order; named arguments are
// canonicalized by name, so argument order never leaks into key equality
// for them.
//
//	id := cachekey.CallableID((*Report).Render)
//	key, err := cachekey.Build(id, tok, width, height)
//
// Keys hold the argument values themselves, not a digest of them, so key
// equality is exact structural equality with no collision risk. The price
// is that every argument must be comparable; Build reports
// [ErrUnhashableArgument] otherwise, before anything is stored or invoked.
package cachekey
