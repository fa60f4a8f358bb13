package nospin

// Packed state of an RWLock:
//
//	bit 0:   writer holds the lock
//	bit 1:   an upgradable holder has been admitted
//	bits 2+: reader count (active readers plus reserved slots)
const (
	rwWriter     uintptr = 1
	rwUpgraded   uintptr = 1 << 1
	rwReaderUnit uintptr = 1 << 2

	// An arbitrary cap that catches reader-count overflow long before
	// the count could wrap into the flag bits.
	rwMaxReaders = ^uintptr(0) / rwReaderUnit / 2
)

// RWLock is a reader/writer lock in shape only: the full guard protocol
// of a real rwlock (shared, exclusive, and upgradable guards, downgrade
// paths, a packed state word) with plain integer state instead of
// atomics and fail-fast panics instead of waiting. See Mutex for the
// single-owner contract; it applies unchanged here.
//
// The zero value is an open RWLock around the zero value of T.
type RWLock[T any] struct {
	_     noCopy
	state cell
	_     [statePad]byte
	value T
}

// NewRWLock returns an open RWLock holding value.
func NewRWLock[T any](value T) *RWLock[T] {
	return &RWLock[T]{value: value}
}

// acquireReader reserves one reader slot and returns the state observed
// before the reservation. It panics if the reader count is implausibly
// large, undoing the reservation first.
func (rw *RWLock[T]) acquireReader() uintptr {
	prev := rw.state.fetchAdd(rwReaderUnit)
	if prev > rwMaxReaders*rwReaderUnit {
		rw.state.fetchSub(rwReaderUnit)
		panic("nospin: too many RWLock readers, cannot safely proceed")
	}
	return prev
}

// TryRead acquires shared access, returning a guard and true, or nil
// and false if a writer or an upgradable holder is active.
//
// The rwUpgraded bit blocks new readers too: while an upgrade is
// pending, admitting a stream of fresh readers would starve the writer
// it is about to become.
func (rw *RWLock[T]) TryRead() (*ReadGuard[T], bool) {
	prev := rw.acquireReader()
	if prev&(rwWriter|rwUpgraded) != 0 {
		// Lock is taken, undo.
		rw.state.fetchSub(rwReaderUnit)
		return nil, false
	}
	return &ReadGuard[T]{rw: rw}, true
}

// Read acquires shared access, panicking if a writer or an upgradable
// holder is active.
func (rw *RWLock[T]) Read() *ReadGuard[T] {
	g, ok := rw.TryRead()
	if !ok {
		panic("nospin: RWLock read lock unavailable")
	}
	return g
}

// TryWrite acquires exclusive access, returning a guard and true only
// when the lock is completely free: any reader, writer, or upgradable
// activity refuses it.
func (rw *RWLock[T]) TryWrite() (*WriteGuard[T], bool) {
	if !rw.state.compareExchange(0, rwWriter) {
		return nil, false
	}
	return &WriteGuard[T]{rw: rw}, true
}

// Write acquires exclusive access, panicking if the lock is not free.
func (rw *RWLock[T]) Write() *WriteGuard[T] {
	g, ok := rw.TryWrite()
	if !ok {
		panic("nospin: RWLock write lock unavailable")
	}
	return g
}

// TryUpgradeableRead acquires shared access that reserves the exclusive
// right to upgrade later, returning a guard and true unless a writer or
// another upgradable holder was already admitted.
//
// On failure the rwUpgraded bit stays set: it is a shared admission
// gate owned by whichever exclusive or upgradable holder is currently
// active, and that holder's release clears it. The failed caller must
// not touch it.
func (rw *RWLock[T]) TryUpgradeableRead() (*UpgradableGuard[T], bool) {
	if rw.state.fetchOr(rwUpgraded)&(rwWriter|rwUpgraded) != 0 {
		return nil, false
	}
	return &UpgradableGuard[T]{rw: rw}, true
}

// UpgradeableRead acquires upgradable shared access, panicking if a
// writer or another upgradable holder is active.
func (rw *RWLock[T]) UpgradeableRead() *UpgradableGuard[T] {
	g, ok := rw.TryUpgradeableRead()
	if !ok {
		panic("nospin: RWLock upgradable read lock unavailable")
	}
	return g
}

// ReaderCount returns the number of readers currently holding the lock,
// counting an upgradable holder as a reader. The answer is stale the
// instant it returns; use it as a heuristic, never for admission
// decisions.
func (rw *RWLock[T]) ReaderCount() int {
	s := rw.state.load()
	return int(s/rwReaderUnit + (s&rwUpgraded)/rwUpgraded)
}

// WriterCount returns 1 while a writer holds the lock and 0 otherwise,
// with the same staleness caveat as ReaderCount.
func (rw *RWLock[T]) WriterCount() int {
	return int(rw.state.load() & rwWriter)
}

// Get returns the value without touching the state word. The caller
// must hold the only reference to the RWLock with no guard live; see
// Mutex.Get.
func (rw *RWLock[T]) Get() *T {
	return &rw.value
}

// ForceReadDecrement drops one reader slot without a guard.
//
// Misuse (a live ReadGuard still counting on the slot, or more calls
// than acquisitions) corrupts the state undetected. Intended for
// interop layers where the guard cannot flow through to the release
// site.
func (rw *RWLock[T]) ForceReadDecrement() {
	rw.state.fetchSub(rwReaderUnit)
}

// ForceWriteUnlock clears the writer and upgraded bits without a guard,
// with the same contract as ForceReadDecrement.
func (rw *RWLock[T]) ForceWriteUnlock() {
	rw.state.fetchAnd(^(rwWriter | rwUpgraded))
}

// WithRead runs fn with shared access to the value. The release is
// deferred, so it fires on every exit path out of fn, panics included.
func (rw *RWLock[T]) WithRead(fn func(*T)) {
	g := rw.Read()
	defer g.Unlock()
	fn(g.Value())
}

// WithWrite runs fn with exclusive access to the value, releasing on
// every exit path like WithRead.
func (rw *RWLock[T]) WithWrite(fn func(*T)) {
	g := rw.Write()
	defer g.Unlock()
	fn(g.Value())
}

// ReadGuard is a shared claim on an RWLock. Released exactly once with
// Unlock; its release decrements the reader count.
type ReadGuard[T any] struct {
	rw *RWLock[T]
}

// Value returns a shared view of the protected value. Treat it as
// read-only; the type system cannot enforce the sharing discipline the
// guard implies.
func (g *ReadGuard[T]) Value() *T {
	if g.rw == nil {
		panic("nospin: use of released ReadGuard")
	}
	return &g.rw.value
}

// Unlock releases the shared claim.
func (g *ReadGuard[T]) Unlock() {
	if g.rw == nil {
		panic("nospin: ReadGuard released twice")
	}
	g.rw.state.fetchSub(rwReaderUnit)
	g.rw = nil
}

// Leak abandons the guard while keeping its reader slot occupied
// forever, returning the value.
func (g *ReadGuard[T]) Leak() *T {
	rw := g.rw
	if rw == nil {
		panic("nospin: use of released ReadGuard")
	}
	g.rw = nil
	return &rw.value
}

// WriteGuard is an exclusive claim on an RWLock. While it is live no
// other guard of any kind can be acquired.
type WriteGuard[T any] struct {
	rw *RWLock[T]
}

// Value returns the protected value for reading and writing.
func (g *WriteGuard[T]) Value() *T {
	if g.rw == nil {
		panic("nospin: use of released WriteGuard")
	}
	return &g.rw.value
}

// Unlock releases the exclusive claim.
//
// The writer clears the upgraded bit too: a failed TryUpgradeableRead
// may have parked it there while this guard was live.
func (g *WriteGuard[T]) Unlock() {
	if g.rw == nil {
		panic("nospin: WriteGuard released twice")
	}
	g.rw.state.fetchAnd(^(rwWriter | rwUpgraded))
	g.rw = nil
}

// Downgrade converts the write guard into a read guard, consuming it.
//
// The reader slot is reserved before the exclusive bits drop, so the
// state never passes through 0 in between: no writer can slip into the
// gap.
func (g *WriteGuard[T]) Downgrade() *ReadGuard[T] {
	rw := g.rw
	if rw == nil {
		panic("nospin: use of released WriteGuard")
	}
	rw.acquireReader()
	rw.state.fetchAnd(^(rwWriter | rwUpgraded))
	g.rw = nil
	return &ReadGuard[T]{rw: rw}
}

// DowngradeToUpgradeable converts the write guard into an upgradable
// guard, consuming it. A live writer excludes every reader, so the
// state is exactly rwWriter here and a plain store of rwUpgraded is the
// whole transition.
func (g *WriteGuard[T]) DowngradeToUpgradeable() *UpgradableGuard[T] {
	rw := g.rw
	if rw == nil {
		panic("nospin: use of released WriteGuard")
	}
	rw.state.store(rwUpgraded)
	g.rw = nil
	return &UpgradableGuard[T]{rw: rw}
}

// Leak abandons the guard while keeping the lock exclusively held
// forever, returning the value.
func (g *WriteGuard[T]) Leak() *T {
	rw := g.rw
	if rw == nil {
		panic("nospin: use of released WriteGuard")
	}
	g.rw = nil
	return &rw.value
}

// UpgradableGuard is a shared claim that additionally reserves the
// exclusive right to become a WriteGuard. At most one can be admitted
// at a time, and while it is live no new plain readers are admitted.
type UpgradableGuard[T any] struct {
	rw *RWLock[T]
}

// Value returns a shared view of the protected value; see
// ReadGuard.Value for the read-only caveat.
func (g *UpgradableGuard[T]) Value() *T {
	if g.rw == nil {
		panic("nospin: use of released UpgradableGuard")
	}
	return &g.rw.value
}

// TryUpgrade converts the guard into a WriteGuard, succeeding only when
// zero plain readers remain (state is exactly rwUpgraded). On success
// the receiver is consumed and no release side effect fires; on failure
// it stays live for retry or fallback.
func (g *UpgradableGuard[T]) TryUpgrade() (*WriteGuard[T], bool) {
	rw := g.rw
	if rw == nil {
		panic("nospin: use of released UpgradableGuard")
	}
	if !rw.state.compareExchange(rwUpgraded, rwWriter) {
		return nil, false
	}
	g.rw = nil
	return &WriteGuard[T]{rw: rw}, true
}

// Upgrade converts the guard into a WriteGuard, panicking if plain
// readers are still active.
func (g *UpgradableGuard[T]) Upgrade() *WriteGuard[T] {
	w, ok := g.TryUpgrade()
	if !ok {
		panic("nospin: RWLock upgrade unavailable, readers still active")
	}
	return w
}

// Downgrade converts the guard into a plain ReadGuard, consuming it.
// As with WriteGuard.Downgrade, the reader slot is reserved before the
// upgraded bit drops.
func (g *UpgradableGuard[T]) Downgrade() *ReadGuard[T] {
	rw := g.rw
	if rw == nil {
		panic("nospin: use of released UpgradableGuard")
	}
	rw.acquireReader()
	rw.state.fetchSub(rwUpgraded)
	g.rw = nil
	return &ReadGuard[T]{rw: rw}
}

// Unlock releases the upgradable claim, reopening admission for new
// readers and upgradable holders.
func (g *UpgradableGuard[T]) Unlock() {
	if g.rw == nil {
		panic("nospin: UpgradableGuard released twice")
	}
	g.rw.state.fetchSub(rwUpgraded)
	g.rw = nil
}

// Leak abandons the guard while keeping its admission slot occupied
// forever, returning the value.
func (g *UpgradableGuard[T]) Leak() *T {
	rw := g.rw
	if rw == nil {
		panic("nospin: use of released UpgradableGuard")
	}
	g.rw = nil
	return &rw.value
}
