package nospin

// cell is an integer state word mutated through compare-and-swap-shaped
// plain reads and writes. It deliberately mirrors the method surface of
// an atomic integer so the packed-state transitions below read exactly
// like their lock-free twins, but nothing here fences or spins: the
// single-logical-owner assumption is what keeps the transitions sound.
// Two goroutines mutating the same cell in parallel race, full stop.
type cell uintptr

func (c *cell) load() uintptr {
	return uintptr(*c)
}

func (c *cell) store(v uintptr) {
	*c = cell(v)
}

// compareExchange replaces the state with new only if it currently
// equals old, reporting whether the exchange happened.
func (c *cell) compareExchange(old, new uintptr) bool {
	if uintptr(*c) != old {
		return false
	}
	*c = cell(new)
	return true
}

// fetchAdd adds v to the state and returns the previous state.
func (c *cell) fetchAdd(v uintptr) uintptr {
	old := uintptr(*c)
	*c = cell(old + v)
	return old
}

// fetchSub subtracts v from the state and returns the previous state.
func (c *cell) fetchSub(v uintptr) uintptr {
	old := uintptr(*c)
	*c = cell(old - v)
	return old
}

// fetchAnd masks the state with v and returns the previous state.
func (c *cell) fetchAnd(v uintptr) uintptr {
	old := uintptr(*c)
	*c = cell(old & v)
	return old
}

// fetchOr ors v into the state and returns the previous state.
func (c *cell) fetchOr(v uintptr) uintptr {
	old := uintptr(*c)
	*c = cell(old | v)
	return old
}
