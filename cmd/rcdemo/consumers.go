package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/drake/relsize/box"
	"github.com/drake/relsize/breakpoint"
	"github.com/drake/relsize/ui/style"
	"github.com/drake/relsize/ui/util"
	"github.com/drake/relsize/ui/widget"
)

// sizedBase stores the injected container size and the assigned width.
type sizedBase struct {
	size  box.Size
	width int
}

func (b *sizedBase) SetContainerSize(s box.Size) { b.size = s }
func (b *sizedBase) SetSize(width, height int)   { b.width = width }

// header adapts its title to the compact/regular/wide presets.
type header struct {
	sizedBase
	styles style.Styles
	wide   breakpoint.Breakpoint
	narrow breakpoint.Breakpoint
}

func (h *header) Name() string         { return "Header" }
func (h *header) PreferredHeight() int { return 1 }

func (h *header) View() string {
	title := "relsize · container queries"
	switch {
	case breakpoint.Matches(h.size, h.narrow):
		title = "relsize"
	case breakpoint.Matches(h.size, h.wide):
		title = fmt.Sprintf("relsize · container queries · published at %s", h.size)
	}
	st := style.Responsive(h.size, h.styles.ConsumerName, h.styles.Muted, breakpoint.Not(h.narrow))
	return style.Padded(st, h.size).Render(title)
}

// cardGrid lays out cards in as many columns as the container allows.
type cardGrid struct {
	sizedBase
	styles style.Styles
	cards  []string
}

// gridBreakpoints are the column thresholds for cardGrid.
func gridBreakpoints() []breakpoint.Breakpoint {
	return []breakpoint.Breakpoint{
		breakpoint.MinWidth(40),
		breakpoint.MinWidth(70),
		breakpoint.MinWidth(100),
	}
}

func (g *cardGrid) Name() string { return "CardGrid" }

func (g *cardGrid) columns() int {
	cols := 1
	for _, bp := range gridBreakpoints() {
		if bp(g.size) {
			cols++
		}
	}
	return cols
}

// cardWidth is the outer width of one card, border included.
func (g *cardGrid) cardWidth() int {
	w := g.width / g.columns()
	if w < 6 {
		w = 6
	}
	return w
}

func (g *cardGrid) rows() [][]string {
	cols := g.columns()
	var rows [][]string
	for i := 0; i < len(g.cards); i += cols {
		end := i + cols
		if end > len(g.cards) {
			end = len(g.cards)
		}
		rows = append(rows, g.cards[i:end])
	}
	return rows
}

func (g *cardGrid) PreferredHeight() int {
	return len(g.rows()) * 3
}

func (g *cardGrid) View() string {
	card := g.styles.Card.Width(g.cardWidth() - 2)
	var lines []string
	for _, row := range g.rows() {
		rendered := make([]string, len(row))
		for i, c := range row {
			rendered[i] = card.Render(c)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return strings.Join(lines, "\n")
}

// snapshot has no breakpoints, so it shows the size captured when it was
// created and never updates.
type snapshot struct {
	sizedBase
	styles style.Styles
}

func (s *snapshot) Name() string         { return "Snapshot" }
func (s *snapshot) PreferredHeight() int { return 1 }

func (s *snapshot) View() string {
	return s.styles.Muted.Render("size at mount: " + s.size.String())
}

// probe shows whether a user-entered Lua breakpoint currently holds.
type probe struct {
	sizedBase
	styles style.Styles
	expr   string
	bp     breakpoint.Breakpoint
}

func (p *probe) Name() string         { return "Probe" }
func (p *probe) PreferredHeight() int { return 1 }

func (p *probe) View() string {
	if p.bp(p.size) {
		return p.styles.ConsumerActive.Render("● "+p.expr) + p.styles.Muted.Render(" @ "+p.size.String())
	}
	return p.styles.ConsumerIdle.Render("○ "+p.expr) + p.styles.Muted.Render(" @ "+p.size.String())
}

// listing is the aside container's content: labels collapse to initials
// on narrow containers.
type listing struct {
	sizedBase
	styles style.Styles
	items  []string
	roomy  breakpoint.Breakpoint
}

func (l *listing) Name() string         { return "Listing" }
func (l *listing) PreferredHeight() int { return len(l.items) }

func (l *listing) View() string {
	lines := make([]string, len(l.items))
	for i, item := range l.items {
		label := breakpoint.Select(l.size, item, item[:1], l.roomy)
		lines[i] = fmt.Sprintf("%d. %s", i+1, label)
	}
	return strings.Join(lines, "\n")
}

// statsPanel renders lines produced on demand in the side dock.
type statsPanel struct {
	width  int
	styles style.Styles
	lines  func() []string
}

func (s *statsPanel) SetSize(width, height int) { s.width = width }

func (s *statsPanel) PreferredHeight() int {
	return len(s.lines())
}

func (s *statsPanel) View() string {
	if s.width <= 0 {
		return ""
	}
	lines := s.lines()
	for i, line := range lines {
		lines[i] = s.styles.Sidebar.Render(util.Fit(line, s.width-1))
	}
	return strings.Join(lines, "\n")
}

// Compile-time checks
var (
	_ widget.Sized  = (*header)(nil)
	_ widget.Widget = (*header)(nil)
	_ widget.Widget = (*cardGrid)(nil)
	_ widget.Widget = (*snapshot)(nil)
	_ widget.Widget = (*probe)(nil)
	_ widget.Widget = (*listing)(nil)
	_ widget.Widget = (*statsPanel)(nil)
)
