package nospin

import (
	"testing"
)

func TestMutex_Basic(t *testing.T) {
	m := NewMutex(0)

	g := m.Lock()
	*g.Value() = 2
	g.Unlock()

	g = m.Lock()
	if *g.Value() != 2 {
		t.Fatalf("got %d, want 2", *g.Value())
	}
	g.Unlock()
}

func TestMutex_TryLockWhileHeld(t *testing.T) {
	var m Mutex[int]

	g, ok := m.TryLock()
	if !ok {
		t.Fatalf("TryLock failed on a free lock")
	}
	if _, ok := m.TryLock(); ok {
		t.Fatalf("TryLock succeeded while the lock is held")
	}
	g.Unlock()

	g2, ok := m.TryLock()
	if !ok {
		t.Fatalf("TryLock failed after release")
	}
	g2.Unlock()
}

func TestMutex_LockWhileHeldPanics(t *testing.T) {
	var m Mutex[int]
	g := m.Lock()
	defer g.Unlock()

	defer func() {
		if recover() == nil {
			t.Errorf("second Lock did not panic")
		}
	}()
	m.Lock()
}

func TestMutex_UnlockTwicePanics(t *testing.T) {
	var m Mutex[int]
	g := m.Lock()
	g.Unlock()

	defer func() {
		if recover() == nil {
			t.Errorf("second Unlock did not panic")
		}
	}()
	g.Unlock()
}

func TestMutex_ValueAfterUnlockPanics(t *testing.T) {
	var m Mutex[int]
	g := m.Lock()
	g.Unlock()

	defer func() {
		if recover() == nil {
			t.Errorf("Value on a released guard did not panic")
		}
	}()
	_ = g.Value()
}

func TestMutex_IsLocked(t *testing.T) {
	var m Mutex[int]
	if m.IsLocked() {
		t.Fatalf("fresh Mutex reports locked")
	}
	g := m.Lock()
	if !m.IsLocked() {
		t.Fatalf("held Mutex reports unlocked")
	}
	g.Unlock()
	if m.IsLocked() {
		t.Fatalf("released Mutex reports locked")
	}
}

func TestMutex_ForceUnlock(t *testing.T) {
	var m Mutex[int]
	m.Lock() // guard deliberately dropped

	m.ForceUnlock()
	g, ok := m.TryLock()
	if !ok {
		t.Fatalf("TryLock failed after ForceUnlock")
	}
	g.Unlock()
}

func TestMutex_Get(t *testing.T) {
	m := NewMutex(41)
	*m.Get()++
	g := m.Lock()
	if *g.Value() != 42 {
		t.Fatalf("got %d, want 42", *g.Value())
	}
	g.Unlock()
}

func TestMutex_With(t *testing.T) {
	m := NewMutex(1)
	m.With(func(v *int) { *v = 5 })
	if *m.Get() != 5 {
		t.Fatalf("got %d, want 5", *m.Get())
	}

	// The deferred release must fire on the panic path too.
	func() {
		defer func() { _ = recover() }()
		m.With(func(*int) { panic("boom") })
	}()
	if m.IsLocked() {
		t.Fatalf("lock still held after With panicked")
	}
}

func TestMutex_ZeroValue(t *testing.T) {
	var m Mutex[map[string]int]
	m.With(func(v *map[string]int) {
		*v = map[string]int{"a": 1}
	})
	if (*m.Get())["a"] != 1 {
		t.Fatalf("zero-value Mutex did not hold the stored map")
	}
}
