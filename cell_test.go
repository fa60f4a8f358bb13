package nospin

import (
	"testing"
)

func TestCell_CompareExchange(t *testing.T) {
	var c cell

	if !c.compareExchange(0, 5) {
		t.Fatalf("exchange from matching state failed")
	}
	if c.compareExchange(0, 9) {
		t.Fatalf("exchange from stale state succeeded")
	}
	if got := c.load(); got != 5 {
		t.Fatalf("state=%d, want 5", got)
	}
}

func TestCell_FetchOps(t *testing.T) {
	cases := []struct {
		name string
		op   func(c *cell) uintptr
		want uintptr
	}{
		{"fetchAdd", func(c *cell) uintptr { return c.fetchAdd(4) }, 12},
		{"fetchSub", func(c *cell) uintptr { return c.fetchSub(4) }, 4},
		{"fetchOr", func(c *cell) uintptr { return c.fetchOr(3) }, 11},
		{"fetchAnd", func(c *cell) uintptr { return c.fetchAnd(3) }, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cell(8)
			if prev := tc.op(&c); prev != 8 {
				t.Errorf("returned %d, want previous state 8", prev)
			}
			if got := c.load(); got != tc.want {
				t.Errorf("state=%d, want %d", got, tc.want)
			}
		})
	}
}
