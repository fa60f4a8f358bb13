//go:build nospin_cachelinesize_128

package opt

// CacheLineSize_ is forced to 128 bytes.
// Use: go build -tags=nospin_cachelinesize_128
const CacheLineSize_ = 128
