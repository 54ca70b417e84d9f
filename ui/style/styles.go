package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/drake/relsize/box"
	"github.com/drake/relsize/breakpoint"
)

// Styles holds all the lipgloss styles for the demo TUI.
type Styles struct {
	// Containers
	ContainerBorder lipgloss.Style
	ContainerTitle  lipgloss.Style
	Sidebar         lipgloss.Style

	// Consumers
	ConsumerName   lipgloss.Style
	ConsumerActive lipgloss.Style
	ConsumerIdle   lipgloss.Style
	Signature      lipgloss.Style
	Card           lipgloss.Style

	// Input
	InputPrompt lipgloss.Style

	// Misc
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		ContainerBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")),
		ContainerTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")),
		Sidebar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(1),

		ConsumerName: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true),
		ConsumerActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("71")), // Muted green
		ConsumerIdle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")), // Gray
		Signature: lipgloss.NewStyle().
			Foreground(lipgloss.Color("179")), // Muted yellow
		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),

		InputPrompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")),
	}
}

// Responsive picks match when the container size satisfies every query and
// noMatch otherwise.
func Responsive(s box.Size, match, noMatch lipgloss.Style, queries ...breakpoint.Breakpoint) lipgloss.Style {
	return breakpoint.Select(s, match, noMatch, queries...)
}

// Padded returns base with horizontal padding that grows on wider
// containers: none below 60 columns, 1 below 100, 2 otherwise.
func Padded(base lipgloss.Style, s box.Size) lipgloss.Style {
	pad := breakpoint.Select(s, 2,
		breakpoint.Select(s, 1, 0, breakpoint.MinWidth(60)),
		breakpoint.MinWidth(100))
	return base.Padding(0, pad)
}
