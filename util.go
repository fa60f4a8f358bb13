package nospin

import (
	"bytes"
	"fmt"
	"runtime/debug"
	"unsafe"

	"github.com/WorksButNotTested/nospin/internal/opt"
)

// statePad optionally pads a primitive's state word out to a full cache
// line so a drop-in atomic twin of the same layout does not change the
// size of embedding structs. Zero by default; sized with the
// nospin_enable_padding build tag.
const statePad = (opt.CacheLineSize_ - unsafe.Sizeof(uintptr(0))%opt.CacheLineSize_) %
	opt.CacheLineSize_ * opt.PaddingMult_

// noCopy may be added to structs which must not be copied
// after the first use.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// panicError wraps a value recovered from a failed initializer together
// with the stack captured at the moment of failure, so the first
// failure's context survives into every later re-panic.
type panicError struct {
	value any
	stack []byte
}

// Error implements error interface.
func (p *panicError) Error() string {
	return fmt.Sprintf("%v\n\n%s", p.value, p.stack)
}

// Unwrap returns the underlying error value, if any.
func (p *panicError) Unwrap() error {
	if err, ok := p.value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(v any) error {
	stack := debug.Stack()
	// Trim first line "goroutine N [status]:" which can be misleading.
	if line := bytes.IndexByte(stack[:], '\n'); line >= 0 {
		stack = stack[line+1:]
	}
	return &panicError{value: v, stack: stack}
}
