// Package layout sizes relative containers from the terminal size and
// drives the resize primitive after each layout pass.
package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/drake/relsize/internal/logging"
	"github.com/drake/relsize/resize"
	"github.com/drake/relsize/ui/widget"
)

// Dock represents widgets stacked in the side column.
type Dock struct {
	Widgets []widget.Widget
}

// Height returns the total height of all widgets in the dock.
func (d *Dock) Height() int {
	h := 0
	for _, w := range d.Widgets {
		h += w.PreferredHeight()
	}
	return h
}

// SetWidth sets the width on all widgets in the dock.
func (d *Dock) SetWidth(width int) {
	for _, w := range d.Widgets {
		w.SetSize(width, w.PreferredHeight())
	}
}

// View returns the rendered view of all visible widgets concatenated.
func (d *Dock) View() string {
	var parts []string
	for _, w := range d.Widgets {
		if w.PreferredHeight() > 0 {
			parts = append(parts, w.View())
		}
	}
	return strings.Join(parts, "\n")
}

// Engine splits the terminal into a container column and a side dock,
// sizes the containers, then runs a resize pass.
type Engine struct {
	width   int
	height  int
	percent int

	source     *resize.Observer
	containers []*RelativeContainer
	logger     *logging.Logger
}

// MinPercent and MaxPercent bound the container column share.
const (
	MinPercent = 10
	MaxPercent = 100
)

// NewEngine creates a layout engine that reports through source. logger may
// be nil.
func NewEngine(source *resize.Observer, percent int, logger *logging.Logger) *Engine {
	e := &Engine{source: source, logger: logger}
	e.SetPercent(percent)
	return e
}

// SetSize sets the total available size.
func (e *Engine) SetSize(width, height int) {
	e.width = width
	e.height = height
}

// Width returns the current width.
func (e *Engine) Width() int {
	return e.width
}

// Height returns the current height.
func (e *Engine) Height() int {
	return e.height
}

// SetPercent sets the container column's share of the width, clamped to
// [MinPercent, MaxPercent].
func (e *Engine) SetPercent(p int) {
	if p < MinPercent {
		p = MinPercent
	}
	if p > MaxPercent {
		p = MaxPercent
	}
	e.percent = p
}

// Percent returns the container column's share of the width.
func (e *Engine) Percent() int {
	return e.percent
}

// Add places a container in the container column. Containers stack
// vertically and share the column height evenly.
func (e *Engine) Add(rc *RelativeContainer) {
	e.containers = append(e.containers, rc)
}

// Containers returns the managed containers.
func (e *Engine) Containers() []*RelativeContainer {
	return e.containers
}

// Calculate sizes containers and the dock, mounts containers that were
// waiting for a size, and runs one resize pass. Unmounted (closed)
// containers are still sized but never mounted again. Returns the number of
// resize entries delivered.
func (e *Engine) Calculate(side *Dock, reserved int) int {
	mainWidth := e.width * e.percent / 100
	sideWidth := e.width - mainWidth
	if sideWidth > 0 {
		sideWidth-- // gap
	}
	side.SetWidth(sideWidth)

	avail := e.height - reserved
	if avail < 0 {
		avail = 0
	}
	n := len(e.containers)
	for i, rc := range e.containers {
		h := 0
		if n > 0 {
			h = avail / n
			if i == n-1 {
				h = avail - h*(n-1)
			}
		}
		rc.Pane().SetSize(mainWidth, h)
		if e.width > 0 && h > 0 && !rc.Closed() {
			if err := rc.Mount(); err != nil {
				e.logger.Warn("mount failed", "container", rc.Name(), "error", err)
			}
		}
	}

	return e.source.Check()
}

// View renders containers in the left column and the dock on the right.
func (e *Engine) View(side *Dock) string {
	var views []string
	for _, rc := range e.containers {
		if v := rc.Pane().View(); v != "" {
			views = append(views, v)
		}
	}
	left := strings.Join(views, "\n")

	right := side.View()
	if right == "" {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}
