package nospin

import (
	"github.com/llxisdsh/pb"
)

// LazyMap is a keyed family of deferred values: every key gets its own
// one-time cell, all sharing a single initializer function. It is the
// keyed composition of Lazy — construction happens on the first Get of
// each key and is cached per key after that.
//
// The backing map tolerates concurrent use, but the per-key cells carry
// the same single-owner contract as everything else in this package:
// two goroutines forcing the same key in parallel race.
type LazyMap[K comparable, V any] struct {
	_    noCopy
	init func(K) V
	m    pb.MapOf[K, *Once[V]]
}

// NewLazyMap returns a LazyMap that builds the value for each key with
// init on that key's first Get.
func NewLazyMap[K comparable, V any](init func(K) V) *LazyMap[K, V] {
	return &LazyMap[K, V]{init: init}
}

// Get forces the cell for key, running the initializer at most once per
// key, and returns the cached value.
//
// A key whose initializer panicked is poisoned: every later Get of that
// key re-panics with the recorded fault until Forget re-arms it.
func (g *LazyMap[K, V]) Get(key K) *V {
	var o *Once[V]
	_, _ = g.m.ProcessEntry(
		key,
		func(l *pb.EntryOf[K, *Once[V]]) (*pb.EntryOf[K, *Once[V]], *Once[V], bool) {
			if l != nil {
				o = l.Value
				return l, o, true
			}
			o = new(Once[V])
			return &pb.EntryOf[K, *Once[V]]{Value: o}, o, false
		},
	)
	return o.CallOnce(func() V {
		return g.init(key)
	})
}

// Peek returns the cached value for key without forcing it.
func (g *LazyMap[K, V]) Peek(key K) (*V, bool) {
	o, ok := g.m.Load(key)
	if !ok {
		return nil, false
	}
	return o.Get()
}

// Forget drops the cell for key, so a later Get re-initializes it. It
// is also the only way out of a poisoned key.
func (g *LazyMap[K, V]) Forget(key K) {
	g.m.Delete(key)
}

// Len returns the number of keys with a cell, forced or not.
func (g *LazyMap[K, V]) Len() int {
	return g.m.Size()
}
