package nospin

import "errors"

type onceState uint8

const (
	onceUninit onceState = iota
	onceRunning
	onceDone
	oncePoisoned
)

// errIncompleteInit marks a cell whose initializer exited without
// returning, panicking, or erroring (runtime.Goexit).
var errIncompleteInit = errors.New("nospin: Once initializer never completed")

// Once is a one-time initializer for a value of type T: a state flag
// guarding a slot that is written at most once. Like the locks in this
// package it has the shape of a concurrent primitive with none of the
// synchronization; the single-owner contract of Mutex applies.
//
// The zero value is an empty, usable Once.
//
// Failure contract: an initializer that panics poisons the cell
// permanently. The slot may hold anything after a partial run, so every
// later access re-panics with the fault recorded at the first failure.
// An initializer handed to TryCallOnce that returns an ordinary error
// leaves the cell untouched and retryable. A successful completion is
// permanent either way: no later initializer ever runs.
type Once[T any] struct {
	_     noCopy
	state onceState
	fault error
	value T
}

// CallOnce returns the stored value, first running f to produce it if
// the cell has never completed. Across all calls on one cell, f (or any
// other initializer) runs at most once after the first success.
//
// CallOnce panics if the cell is poisoned, and panics (poisoning the
// cell) if f panics or if f re-enters the same cell.
func (o *Once[T]) CallOnce(f func() T) *T {
	v, err := o.TryCallOnce(func() (T, error) {
		return f(), nil
	})
	if err != nil {
		// Unreachable: the closure never returns an error.
		panic(err)
	}
	return v
}

// TryCallOnce is CallOnce for fallible initializers. An error return
// leaves the cell uninitialized, so a later call may retry, possibly
// with a different initializer. A panic inside f still poisons.
func (o *Once[T]) TryCallOnce(f func() (T, error)) (*T, error) {
	switch o.state {
	case onceDone:
		return &o.value, nil
	case oncePoisoned:
		panic(o.fault)
	case onceRunning:
		panic("nospin: recursive Once initialization")
	}

	o.state = onceRunning
	defer func() {
		if o.state != onceRunning {
			return
		}
		// f never completed and never asked for a retry. The slot may
		// hold anything, so refuse all future access.
		o.state = oncePoisoned
		if r := recover(); r != nil {
			o.fault = newPanicError(r)
			panic(o.fault)
		}
		o.fault = errIncompleteInit
	}()

	v, err := f()
	if err != nil {
		o.state = onceUninit
		return nil, err
	}
	o.value = v
	o.state = onceDone
	return &o.value, nil
}

// Get returns the stored value if the cell has completed.
func (o *Once[T]) Get() (*T, bool) {
	if o.state != onceDone {
		return nil, false
	}
	return &o.value, true
}

// IsCompleted reports whether the cell has completed. Advisory only.
func (o *Once[T]) IsCompleted() bool {
	return o.state == onceDone
}

// IsPoisoned reports whether a failed initializer has made the cell
// permanently inaccessible.
func (o *Once[T]) IsPoisoned() bool {
	return o.state == oncePoisoned
}

// Wait returns the stored value, panicking if the cell has not
// completed. It exists for interface parity with a blocking one-time
// cell: with a single owner there is nothing that could complete the
// cell from here, so an incomplete cell would be waited on forever.
func (o *Once[T]) Wait() *T {
	if o.state == oncePoisoned {
		panic(o.fault)
	}
	if o.state != onceDone {
		panic("nospin: Wait on incomplete Once would never return")
	}
	return &o.value
}
