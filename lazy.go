package nospin

// Lazy is a value constructed on first access: a Once plus a stored
// initializer function. Construction is deferred until the first Force;
// after that every access reuses the cached result.
//
// Declaring a Lazy at package level with NewLazy costs nothing until
// the first access, which makes it the replacement for init-time
// construction of expensive values.
type Lazy[T any] struct {
	once Once[T]
	init func() T
}

// NewLazy returns a Lazy that will build its value with init on the
// first Force. init is not called here.
func NewLazy[T any](init func() T) *Lazy[T] {
	return &Lazy[T]{init: init}
}

// Force evaluates the lazy value if it has not been built yet and
// returns it. The stored initializer is consumed by the first force;
// later calls return the cached value without running anything.
//
// If a previous force panicked, the underlying cell is poisoned and
// Force re-panics with the recorded fault.
func (l *Lazy[T]) Force() *T {
	return l.once.CallOnce(func() T {
		f := l.init
		if f == nil {
			panic("nospin: Lazy instance has previously been poisoned")
		}
		l.init = nil
		return f()
	})
}

// Get returns the value without forcing it.
func (l *Lazy[T]) Get() (*T, bool) {
	return l.once.Get()
}

// IsCompleted reports whether the value has been built. Advisory only.
func (l *Lazy[T]) IsCompleted() bool {
	return l.once.IsCompleted()
}
