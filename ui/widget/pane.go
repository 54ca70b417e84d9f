package widget

import (
	"strings"

	"github.com/drake/relsize/box"
	"github.com/drake/relsize/ui/style"
	"github.com/drake/relsize/ui/util"
)

// Compile-time checks that Pane is both a Widget and a measurable element
var (
	_ Widget      = (*Pane)(nil)
	_ box.Element = (*Pane)(nil)
)

// Pane is a titled box that stacks child widgets. Its content area is the
// element relative containers measure: Width and Height exclude the header
// and bottom border lines.
type Pane struct {
	Title    string
	children []Widget
	styles   style.Styles
	width    int
	height   int // outer height including header and border
}

// NewPane creates a new pane widget.
func NewPane(title string, styles style.Styles) *Pane {
	return &Pane{
		Title:  title,
		styles: styles,
	}
}

// Width implements box.Element.
func (p *Pane) Width() int {
	return p.width
}

// Height implements box.Element.
func (p *Pane) Height() int {
	// Height includes header (1) + border (1)
	if p.height > 2 {
		return p.height - 2
	}
	return 0
}

// Add appends a child widget.
func (p *Pane) Add(w Widget) {
	p.children = append(p.children, w)
	p.layout()
}

// Remove drops a child widget. Unknown widgets are ignored.
func (p *Pane) Remove(w Widget) {
	for i, c := range p.children {
		if c == w {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

// Children returns the child widgets in stacking order.
func (p *Pane) Children() []Widget {
	return p.children
}

// SetSize implements Widget.
func (p *Pane) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	p.width = width
	p.height = height
	p.layout()
}

// layout hands every child the full content width and its preferred height.
func (p *Pane) layout() {
	for _, c := range p.children {
		c.SetSize(p.width, c.PreferredHeight())
	}
}

// PreferredHeight implements Widget.
func (p *Pane) PreferredHeight() int {
	h := 2
	for _, c := range p.children {
		h += c.PreferredHeight()
	}
	return h
}

// View implements Widget.
func (p *Pane) View() string {
	if p.width == 0 || p.height == 0 {
		return ""
	}

	var parts []string

	// Header
	title := p.styles.ContainerTitle.Render(" " + p.Title + " ")
	titlePad := p.width - util.VisibleLen(title)
	if titlePad > 0 {
		title += p.styles.Muted.Render(strings.Repeat("─", titlePad))
	}
	parts = append(parts, title)

	// Content, clipped to the content height
	contentHeight := p.Height()
	var lines []string
	for _, c := range p.children {
		if c.PreferredHeight() == 0 {
			continue
		}
		if v := c.View(); v != "" {
			lines = append(lines, strings.Split(v, "\n")...)
		}
	}
	for i := 0; i < contentHeight; i++ {
		if i < len(lines) {
			parts = append(parts, util.Fit(lines[i], p.width))
		} else {
			parts = append(parts, strings.Repeat(" ", p.width))
		}
	}

	// Bottom border
	if p.height > 1 {
		parts = append(parts, p.styles.Muted.Render(strings.Repeat("─", p.width)))
	}

	return strings.Join(parts, "\n")
}
