package nospin

import (
	"sync"
	"testing"
)

func TestLocker_Mutex(t *testing.T) {
	m := NewMutex(0)
	var l sync.Locker = m.Locker()

	l.Lock()
	if !m.IsLocked() {
		t.Fatalf("adapter Lock did not take the lock")
	}
	l.Unlock()
	if m.IsLocked() {
		t.Fatalf("adapter Unlock did not release the lock")
	}

	// Reusable across cycles.
	l.Lock()
	l.Unlock()
}

func TestLocker_RWLockWrite(t *testing.T) {
	var rw RWLock[int]
	l := rw.Locker()

	l.Lock()
	if _, ok := rw.TryRead(); ok {
		t.Fatalf("TryRead succeeded while the write adapter holds the lock")
	}
	l.Unlock()

	if _, ok := rw.TryWrite(); !ok {
		t.Fatalf("lock not free after adapter Unlock")
	}
	rw.ForceWriteUnlock()
}

func TestLocker_RWLockReadNests(t *testing.T) {
	var rw RWLock[int]
	rl := rw.RLocker()

	rl.Lock()
	rl.Lock()
	if got := rw.ReaderCount(); got != 2 {
		t.Fatalf("ReaderCount=%d, want 2", got)
	}
	rl.Unlock()
	rl.Unlock()

	if _, ok := rw.TryWrite(); !ok {
		t.Fatalf("lock not free after nested read adapter released")
	}
}

func TestLocker_UnlockUnlockedPanics(t *testing.T) {
	cases := []struct {
		name string
		l    sync.Locker
	}{
		{"mutex", NewMutex(0).Locker()},
		{"rwlock write", NewRWLock(0).Locker()},
		{"rwlock read", NewRWLock(0).RLocker()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Unlock of unlocked %s adapter did not panic", c.name)
				}
			}()
			c.l.Unlock()
		})
	}
}
