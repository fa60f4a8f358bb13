package nospin

// Mutex is an exclusive lock in shape only.
//
// It keeps the bookkeeping of a real mutex (a locked flag, a guard that
// must be released) without any synchronization: the flag is a plain
// bool and acquisition never waits. The target is a single logical
// owner executing without preemption at mutation points, where
// contention can only mean a caller bug, so Lock fails fast by panic
// instead of blocking.
//
// The zero value is an unlocked Mutex around the zero value of T, so a
// Mutex can be declared at package level with no setup.
//
// Guards may be handed between logical threads of control for interface
// parity with a real mutex. That is labeling, not a guarantee: two
// goroutines touching one Mutex in parallel race.
//
// Size: 8 bytes plus the value (plus optional padding).
type Mutex[T any] struct {
	_      noCopy
	locked bool
	_      [statePad]byte
	value  T
}

// NewMutex returns an unlocked Mutex holding value.
func NewMutex[T any](value T) *Mutex[T] {
	return &Mutex[T]{value: value}
}

// Lock acquires the lock and returns a guard exposing the value.
//
// It panics if the lock is already held. In a single-owner setting a
// second acquisition is re-entrant contention, a bug rather than a
// transient condition, so there is nothing to wait for.
func (m *Mutex[T]) Lock() *MutexGuard[T] {
	g, ok := m.TryLock()
	if !ok {
		panic("nospin: Mutex is already locked")
	}
	return g
}

// TryLock acquires the lock if it is free, returning a guard and true,
// or nil and false if the lock is already held.
func (m *Mutex[T]) TryLock() (*MutexGuard[T], bool) {
	if m.locked {
		return nil, false
	}
	m.locked = true
	return &MutexGuard[T]{m: m}, true
}

// IsLocked reports whether the lock is held. The answer is stale the
// instant it returns; use it as a heuristic, never for admission
// decisions.
func (m *Mutex[T]) IsLocked() bool {
	return m.locked
}

// Get returns the value without touching the flag.
//
// The caller must hold the only reference to the Mutex with no guard
// live; under that precondition the bookkeeping proves nothing and is
// skipped. Violating the precondition is undetected misuse.
func (m *Mutex[T]) Get() *T {
	return &m.value
}

// ForceUnlock clears the flag without going through a guard.
//
// Unless the caller independently knows no guard is live, a later
// release of that guard corrupts the state. Intended for interop
// layers where the guard cannot flow through to the release site.
func (m *Mutex[T]) ForceUnlock() {
	m.locked = false
}

// With runs fn with the value under the lock. The release is deferred,
// so it fires on every exit path out of fn, panics included.
func (m *Mutex[T]) With(fn func(*T)) {
	g := m.Lock()
	defer g.Unlock()
	fn(g.Value())
}

// MutexGuard is a scoped claim on a Mutex, created by Lock or TryLock.
// It must be released exactly once with Unlock; the guard's release is
// the only path that returns the flag to false.
type MutexGuard[T any] struct {
	m *Mutex[T]
}

// Value returns the protected value. It panics if the guard has been
// released.
func (g *MutexGuard[T]) Value() *T {
	if g.m == nil {
		panic("nospin: use of released MutexGuard")
	}
	return &g.m.value
}

// Unlock releases the claim. A second release panics: the flag must
// return to false exactly once per guard.
func (g *MutexGuard[T]) Unlock() {
	if g.m == nil {
		panic("nospin: MutexGuard released twice")
	}
	g.m.locked = false
	g.m = nil
}
