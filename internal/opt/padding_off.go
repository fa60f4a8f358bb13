//go:build !nospin_enable_padding

package opt

// PaddingMult_ scales state-word padding. Padding is off by default:
// nothing here is shared across threads, so false sharing is a layout
// parity concern, not a performance one.
const PaddingMult_ = 0
