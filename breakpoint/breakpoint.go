// Package breakpoint turns container sizes into discrete breakpoint
// signatures and decides when a consumer should see a new size.
package breakpoint

import (
	"strings"

	"github.com/drake/relsize/box"
)

// Breakpoint is a predicate over a container size. A consumer declares an
// ordered list of them; the order fixes each one's position in the
// signature.
type Breakpoint func(s box.Size) bool

// Signature returns one '0' or '1' per breakpoint, in declaration order.
// An empty list yields the empty string for every size.
func Signature(bps []Breakpoint, s box.Size) string {
	if len(bps) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(bps))
	for _, bp := range bps {
		if bp != nil && bp(s) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// LazyGate reports whether a consumer may render. Lazy consumers wait until
// both dimensions of the published size are defined; eager ones are always
// active.
func LazyGate(published box.Size, lazy bool) bool {
	if !lazy {
		return true
	}
	return published.Measured()
}

// MinWidth holds when the width is defined and at least n.
func MinWidth(n int) Breakpoint {
	return func(s box.Size) bool { return s.HasWidth && s.Width >= n }
}

// MaxWidth holds when the width is defined and at most n.
func MaxWidth(n int) Breakpoint {
	return func(s box.Size) bool { return s.HasWidth && s.Width <= n }
}

// MinHeight holds when the height is defined and at least n.
func MinHeight(n int) Breakpoint {
	return func(s box.Size) bool { return s.HasHeight && s.Height >= n }
}

// MaxHeight holds when the height is defined and at most n.
func MaxHeight(n int) Breakpoint {
	return func(s box.Size) bool { return s.HasHeight && s.Height <= n }
}

// WidthBetween holds when lo <= width <= hi.
func WidthBetween(lo, hi int) Breakpoint {
	return func(s box.Size) bool { return s.HasWidth && s.Width >= lo && s.Width <= hi }
}

// Landscape holds when the container is wider than it is tall.
// Terminal cells are roughly twice as tall as wide, so width is compared
// against twice the height.
func Landscape() Breakpoint {
	return func(s box.Size) bool { return s.Measured() && s.Width > 2*s.Height }
}

// Not negates bp. The result is false unless both dimensions are defined,
// so a negated breakpoint does not fire on a partially measured container.
func Not(bp Breakpoint) Breakpoint {
	return func(s box.Size) bool {
		return s.Measured() && !bp(s)
	}
}
