//go:build nospin_enable_padding

package opt

// PaddingMult_ scales state-word padding. Padding keeps each
// primitive's state on its own cache line so struct layouts match a
// concurrent drop-in replacement.
// Use: go build -tags=nospin_enable_padding
const PaddingMult_ = 1
