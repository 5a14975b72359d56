package methodcache

import "errors"

// ErrNilReceiver is returned when a cached method is called with a nil
// instance. Nothing is invoked or stored in that case.
var ErrNilReceiver = errors.New("methodcache: nil receiver")
