package widget

import (
	"strings"

	"github.com/drake/relsize/ui/style"
	"github.com/drake/relsize/ui/util"
)

// Compile-time check that Separator implements Widget
var _ Widget = (*Separator)(nil)

// Separator renders a horizontal rule, optionally led by a label.
type Separator struct {
	Label  string
	styles style.Styles
	width  int
}

// NewSeparator creates a separator. An empty label draws a plain rule.
func NewSeparator(label string, styles style.Styles) *Separator {
	return &Separator{Label: label, styles: styles}
}

// View implements Widget.
func (s *Separator) View() string {
	if s.width <= 0 {
		return ""
	}
	if s.Label == "" {
		return s.styles.Muted.Render(strings.Repeat("─", s.width))
	}
	head := "── " + s.styles.ConsumerName.Render(s.Label) + " "
	rest := s.width - util.VisibleLen(head)
	if rest < 0 {
		return util.Fit(head, s.width)
	}
	return head + s.styles.Muted.Render(strings.Repeat("─", rest))
}

// SetSize implements Widget.
func (s *Separator) SetSize(width, height int) {
	s.width = width
}

// PreferredHeight implements Widget.
func (s *Separator) PreferredHeight() int {
	return 1
}
