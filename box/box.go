// Package box defines the measurable rectangle that relative containers
// observe and the size snapshots derived from it.
package box

import "fmt"

// Element is a rendered box whose dimensions can be read.
type Element interface {
	Width() int
	Height() int
}

// Size is an immutable snapshot of a container's dimensions.
// A dimension is undefined until the container has been measured.
type Size struct {
	Width     int
	Height    int
	HasWidth  bool
	HasHeight bool
}

// Unmeasured returns a size with both dimensions undefined.
func Unmeasured() Size {
	return Size{}
}

// Of returns a fully measured size.
func Of(width, height int) Size {
	return Size{Width: width, Height: height, HasWidth: true, HasHeight: true}
}

// Measure reads the current dimensions of el. A nil element yields an
// unmeasured size.
func Measure(el Element) Size {
	if IsNil(el) {
		return Unmeasured()
	}
	return Of(el.Width(), el.Height())
}

// Measured reports whether both dimensions are defined.
func (s Size) Measured() bool {
	return s.HasWidth && s.HasHeight
}

func (s Size) String() string {
	return fmt.Sprintf("%sx%s", dim(s.Width, s.HasWidth), dim(s.Height, s.HasHeight))
}

func dim(v int, ok bool) string {
	if !ok {
		return "?"
	}
	return fmt.Sprint(v)
}
