//go:build !nospin_cachelinesize_64 && !nospin_cachelinesize_128

package opt

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize_ is used in structure padding to keep state words on
// their own cache line. It's automatically calculated using the
// `golang.org/x/sys` package.
const CacheLineSize_ = unsafe.Sizeof(cpu.CacheLinePad{})
