package util

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// VisibleLen returns the visible display width of a string (excluding ANSI codes).
func VisibleLen(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

// Fit truncates or pads s so its visible width is exactly width.
// ANSI sequences are dropped when truncation is needed.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	n := VisibleLen(s)
	if n > width {
		return runewidth.Truncate(ansi.Strip(s), width, "…")
	}
	return s + strings.Repeat(" ", width-n)
}

// Block measures a rendered multi-line block: the widest visible line and
// the number of lines. An empty string has zero height.
func Block(s string) (width, height int) {
	if s == "" {
		return 0, 0
	}
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		if w := VisibleLen(line); w > width {
			width = w
		}
	}
	return width, len(lines)
}
