package methodcache_test

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/methodcache"
	"github.com/dmitrymomot/methodcache/pkg/cachekey"
	"github.com/dmitrymomot/methodcache/pkg/token"
)

// Counter doubles its argument and records how many times the underlying
// computation actually ran. The counter is shared across instances so tests
// can observe per-instance cache behavior.
type Counter struct {
	calls *atomic.Int32
}

func (c *Counter) Value(n int) (int, error) {
	c.calls.Add(1)
	return n * 2, nil
}

func TestWrap1_HitSuppressesRecomputation(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	value := methodcache.Wrap1((*Counter).Value)
	defer value.Close()

	a := &Counter{calls: &calls}

	v, err := value.Call(a, 3)
	require.NoError(t, err)
	require.Equal(t, 6, v)

	v, err = value.Call(a, 3)
	require.NoError(t, err)
	require.Equal(t, 6, v)

	require.Equal(t, int32(1), calls.Load(), "second identical call must not recompute")

	// A fresh instance with the same argument computes independently.
	b := &Counter{calls: &calls}
	v, err = value.Call(b, 3)
	require.NoError(t, err)
	require.Equal(t, 6, v)
	require.Equal(t, int32(2), calls.Load(), "entries must not cross instances")

	stats := value.Stats()
	require.Equal(t, uint64(1), stats.Hits)
	require.Equal(t, uint64(2), stats.Misses)
}

func TestWrap1_DistinctArguments(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	value := methodcache.Wrap1((*Counter).Value)
	defer value.Close()

	a := &Counter{calls: &calls}

	v, err := value.Call(a, 3)
	require.NoError(t, err)
	require.Equal(t, 6, v)

	v, err = value.Call(a, 4)
	require.NoError(t, err)
	require.Equal(t, 8, v)

	require.Equal(t, int32(2), calls.Load())
	require.Equal(t, 2, value.Len())
}

func TestWrap1_IdentityReuseSafety(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	value := methodcache.Wrap1((*Counter).Value)
	defer value.Close()

	// Churn through short-lived instances. Under address-based keying the
	// allocator's block reuse would produce stale hits; token keying makes
	// every fresh instance a guaranteed miss.
	const n = 200
	for i := range n {
		c := &Counter{calls: &calls}
		v, err := value.Call(c, 3)
		require.NoError(t, err)
		require.Equal(t, 6, v)

		if i%50 == 0 {
			runtime.GC()
		}
	}

	require.Equal(t, int32(n), calls.Load(), "a new instance must never see another instance's entries")
}

type pair struct {
	calls *atomic.Int32
}

func (p *pair) Sub(a, b int) (int, error) {
	p.calls.Add(1)
	return a - b, nil
}

func TestWrap2_ArgumentOrderSensitivity(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	sub := methodcache.Wrap2((*pair).Sub)
	defer sub.Close()

	p := &pair{calls: &calls}

	v, err := sub.Call(p, 1, 2)
	require.NoError(t, err)
	require.Equal(t, -1, v)

	v, err = sub.Call(p, 2, 1)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	require.Equal(t, int32(2), calls.Load(), "swapped arguments are distinct entries")
}

type flaky struct {
	calls *atomic.Int32
	fail  *atomic.Bool
}

func (f *flaky) Compute(n int) (int, error) {
	f.calls.Add(1)
	if f.fail.Load() {
		return 0, errors.New("transient failure")
	}
	return n + 1, nil
}

func TestWrap1_FailureIsNotCached(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var fail atomic.Bool
	fail.Store(true)

	compute := methodcache.Wrap1((*flaky).Compute)
	defer compute.Close()

	f := &flaky{calls: &calls, fail: &fail}

	_, err := compute.Call(f, 1)
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
	require.Zero(t, compute.Len(), "failed calls must not be stored")

	fail.Store(false)

	v, err := compute.Call(f, 1)
	require.NoError(t, err)
	require.Equal(t, 2, v)
	require.Equal(t, int32(2), calls.Load(), "identical call after a failure must retry")

	// The error is passed through unmodified; nothing of it is cached, so
	// the successful result is now served.
	v, err = compute.Call(f, 1)
	require.NoError(t, err)
	require.Equal(t, 2, v)
	require.Equal(t, int32(2), calls.Load())
}

type slow struct {
	calls   *atomic.Int32
	release <-chan struct{}
}

func (s *slow) Load(n int) (int, error) {
	<-s.release
	s.calls.Add(1)
	return n * 10, nil
}

func TestWrap1_ConcurrentSingleFlight(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	release := make(chan struct{})

	load := methodcache.Wrap1((*slow).Load)
	defer load.Close()

	s := &slow{calls: &calls, release: release}

	var ready sync.WaitGroup
	var g errgroup.Group
	for range 10 {
		ready.Add(1)
		g.Go(func() error {
			ready.Done()
			v, err := load.Call(s, 5)
			if err != nil {
				return err
			}
			if v != 50 {
				return errors.New("wrong value")
			}
			return nil
		})
	}

	ready.Wait()
	time.Sleep(20 * time.Millisecond)
	close(release)

	require.NoError(t, g.Wait())
	require.Equal(t, int32(1), calls.Load(), "concurrent identical calls share one execution")
}

type formatter struct {
	calls *atomic.Int32
}

func (f *formatter) Format(args ...any) (int, error) {
	f.calls.Add(1)
	return len(args), nil
}

func TestWrapAny(t *testing.T) {
	t.Parallel()

	t.Run("named arguments are order-independent", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		format := methodcache.WrapAny((*formatter).Format)
		defer format.Close()

		f := &formatter{calls: &calls}

		v, err := format.CallNamed(f, nil,
			cachekey.Named{Name: "x", Value: 1},
			cachekey.Named{Name: "y", Value: 2},
		)
		require.NoError(t, err)
		require.Equal(t, 2, v)

		_, err = format.CallNamed(f, nil,
			cachekey.Named{Name: "y", Value: 2},
			cachekey.Named{Name: "x", Value: 1},
		)
		require.NoError(t, err)

		require.Equal(t, int32(1), calls.Load(), "same names and values must hit the same entry")
	})

	t.Run("unhashable argument fails before invocation", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		format := methodcache.WrapAny((*formatter).Format)
		defer format.Close()

		f := &formatter{calls: &calls}

		_, err := format.Call(f, []int{1, 2})
		require.ErrorIs(t, err, cachekey.ErrUnhashableArgument)
		require.Zero(t, calls.Load(), "the callable must not run when the key cannot be built")
		require.Zero(t, format.Len(), "nothing may be stored")
	})

	t.Run("positional arguments preserve order", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		format := methodcache.WrapAny((*formatter).Format)
		defer format.Close()

		f := &formatter{calls: &calls}

		_, err := format.Call(f, 1, 2)
		require.NoError(t, err)
		_, err = format.Call(f, 2, 1)
		require.NoError(t, err)

		require.Equal(t, int32(2), calls.Load())
	})
}

func TestWrap1_NilReceiver(t *testing.T) {
	t.Parallel()

	value := methodcache.Wrap1((*Counter).Value)
	defer value.Close()

	_, err := value.Call(nil, 3)
	require.ErrorIs(t, err, methodcache.ErrNilReceiver)
	require.Zero(t, value.Len())
}

// report carries its own identity token by embedding token.Identity.
type report struct {
	token.Identity
	calls *atomic.Int32
}

func (r *report) Render(width int) (string, error) {
	r.calls.Add(1)
	return "rendered", nil
}

func TestWrap1_CarrierReceiver(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	render := methodcache.Wrap1((*report).Render)
	defer render.Close()

	a := &report{calls: &calls}
	b := &report{calls: &calls}

	_, err := render.Call(a, 80)
	require.NoError(t, err)
	_, err = render.Call(a, 80)
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())

	_, err = render.Call(b, 80)
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load(), "carrier instances are isolated from each other")
}

// unit is zero-sized: it has no per-instance state, so all instances
// legitimately share cache entries.
type unit struct{}

var unitCalls atomic.Int32

func (*unit) Answer(n int) (int, error) {
	unitCalls.Add(1)
	return n, nil
}

func TestWrap1_ZeroSizedReceiver(t *testing.T) {
	t.Parallel()

	answer := methodcache.Wrap1((*unit).Answer)
	defer answer.Close()

	a := new(unit)
	b := new(unit)

	v, err := answer.Call(a, 7)
	require.NoError(t, err)
	require.Equal(t, 7, v)

	v, err = answer.Call(b, 7)
	require.NoError(t, err)
	require.Equal(t, 7, v)

	require.Equal(t, int32(1), unitCalls.Load(), "stateless receivers share entries")
}

func TestClear(t *testing.T) {
	t.Parallel()

	t.Run("recomputes after clear", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		value := methodcache.Wrap1((*Counter).Value)
		defer value.Close()

		a := &Counter{calls: &calls}

		_, err := value.Call(a, 3)
		require.NoError(t, err)

		value.Clear()
		require.Zero(t, value.Len())

		_, err = value.Call(a, 3)
		require.NoError(t, err)
		require.Equal(t, int32(2), calls.Load())

		stats := value.Stats()
		require.Zero(t, stats.Hits, "counters reset on clear")
		require.Equal(t, uint64(1), stats.Misses)
	})

	t.Run("scoped to one wrapper", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		first := methodcache.Wrap1((*Counter).Value)
		defer first.Close()
		second := methodcache.Wrap1((*Counter).Value)
		defer second.Close()

		a := &Counter{calls: &calls}

		_, err := first.Call(a, 3)
		require.NoError(t, err)
		_, err = second.Call(a, 3)
		require.NoError(t, err)

		first.Clear()

		// The second wrapper's entry survives the first one's Clear.
		_, err = second.Call(a, 3)
		require.NoError(t, err)
		require.Equal(t, int32(2), calls.Load())
	})
}

func TestOptions(t *testing.T) {
	t.Parallel()

	t.Run("max entries evicts LRU", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		value := methodcache.Wrap1((*Counter).Value, methodcache.WithMaxEntries(1))
		defer value.Close()

		a := &Counter{calls: &calls}

		_, err := value.Call(a, 1)
		require.NoError(t, err)
		_, err = value.Call(a, 2) // evicts the entry for 1
		require.NoError(t, err)
		_, err = value.Call(a, 1) // recomputes
		require.NoError(t, err)

		require.Equal(t, int32(3), calls.Load())
	})

	t.Run("EvictNone stops storing at capacity", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		value := methodcache.Wrap1((*Counter).Value,
			methodcache.WithMaxEntries(1),
			methodcache.WithEvictionPolicy(methodcache.EvictNone),
		)
		defer value.Close()

		a := &Counter{calls: &calls}

		_, err := value.Call(a, 1)
		require.NoError(t, err)

		// Past the bound results still come back, just uncached.
		v, err := value.Call(a, 2)
		require.NoError(t, err)
		require.Equal(t, 4, v)
		v, err = value.Call(a, 2)
		require.NoError(t, err)
		require.Equal(t, 4, v)

		require.Equal(t, int32(3), calls.Load())
		require.Equal(t, 1, value.Len())
	})

	t.Run("TTL expires entries", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		value := methodcache.Wrap1((*Counter).Value, methodcache.WithTTL(time.Millisecond))
		defer value.Close()

		a := &Counter{calls: &calls}

		_, err := value.Call(a, 3)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		_, err = value.Call(a, 3)
		require.NoError(t, err)
		require.Equal(t, int32(2), calls.Load())
	})
}

type client struct {
	calls *atomic.Int32
}

func (c *client) Fetch(ctx context.Context, id string) (string, error) {
	c.calls.Add(1)
	return "data:" + id, nil
}

func TestWrap1Ctx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	fetch := methodcache.Wrap1Ctx((*client).Fetch)
	defer fetch.Close()

	c := &client{calls: &calls}

	v, err := fetch.Call(context.Background(), c, "a")
	require.NoError(t, err)
	require.Equal(t, "data:a", v)

	// A different context must not change the key.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v, err = fetch.Call(ctx, c, "a")
	require.NoError(t, err)
	require.Equal(t, "data:a", v)

	require.Equal(t, int32(1), calls.Load(), "context must not participate in the key")
}

func TestWrapFunc1(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	double := methodcache.WrapFunc1(func(n int) (int, error) {
		calls.Add(1)
		return n * 2, nil
	})
	defer double.Close()

	v, err := double.Call(3)
	require.NoError(t, err)
	require.Equal(t, 6, v)

	v, err = double.Call(3)
	require.NoError(t, err)
	require.Equal(t, 6, v)
	require.Equal(t, int32(1), calls.Load())

	v, err = double.Call(4)
	require.NoError(t, err)
	require.Equal(t, 8, v)
	require.Equal(t, int32(2), calls.Load())
}

type summer struct {
	calls *atomic.Int32
}

func (s *summer) Sum3(a, b, c int) (int, error) {
	s.calls.Add(1)
	return a + b + c, nil
}

func (s *summer) Total() (int, error) {
	s.calls.Add(1)
	return 100, nil
}

func TestWrap0(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	total := methodcache.Wrap0((*summer).Total)
	defer total.Close()

	a := &summer{calls: &calls}
	b := &summer{calls: &calls}

	for range 3 {
		v, err := total.Call(a)
		require.NoError(t, err)
		require.Equal(t, 100, v)
	}
	require.Equal(t, int32(1), calls.Load())

	_, err := total.Call(b)
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestWrap3(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	sum := methodcache.Wrap3((*summer).Sum3)
	defer sum.Close()

	s := &summer{calls: &calls}

	v, err := sum.Call(s, 1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, 6, v)

	_, err = sum.Call(s, 1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestWrap_NilFunc(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		methodcache.Wrap1[Counter, int, int](nil)
	})
}
