package nospin

import "sync"

// Locker adapts the Mutex to sync.Locker so it can stand in for a real
// mutex behind code written against the standard lock abstraction. The
// fail-fast contract survives the adaptation: Lock panics on
// contention instead of blocking.
//
// The adapter stores the live guard between Lock and Unlock, which is
// sound only under the package's single-owner contract.
func (m *Mutex[T]) Locker() sync.Locker {
	return &mutexLocker[T]{m: m}
}

type mutexLocker[T any] struct {
	m *Mutex[T]
	g *MutexGuard[T]
}

func (l *mutexLocker[T]) Lock() {
	l.g = l.m.Lock()
}

func (l *mutexLocker[T]) Unlock() {
	g := l.g
	if g == nil {
		panic("nospin: Unlock of unlocked Locker")
	}
	l.g = nil
	g.Unlock()
}

// Locker adapts the write side of the RWLock to sync.Locker, with the
// same fail-fast contract as the Mutex adapter.
func (rw *RWLock[T]) Locker() sync.Locker {
	return &writeLocker[T]{rw: rw}
}

// RLocker adapts the read side of the RWLock to sync.Locker.
func (rw *RWLock[T]) RLocker() sync.Locker {
	return &readLocker[T]{rw: rw}
}

type writeLocker[T any] struct {
	rw *RWLock[T]
	g  *WriteGuard[T]
}

func (l *writeLocker[T]) Lock() {
	l.g = l.rw.Write()
}

func (l *writeLocker[T]) Unlock() {
	g := l.g
	if g == nil {
		panic("nospin: Unlock of unlocked Locker")
	}
	l.g = nil
	g.Unlock()
}

// readLocker keeps a stack of guards: shared access nests, so Lock may
// be called again before Unlock.
type readLocker[T any] struct {
	rw *RWLock[T]
	gs []*ReadGuard[T]
}

func (l *readLocker[T]) Lock() {
	l.gs = append(l.gs, l.rw.Read())
}

func (l *readLocker[T]) Unlock() {
	n := len(l.gs)
	if n == 0 {
		panic("nospin: Unlock of unlocked Locker")
	}
	g := l.gs[n-1]
	l.gs = l.gs[:n-1]
	g.Unlock()
}
