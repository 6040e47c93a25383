// Package textutil measures and fits text to terminal columns.
package textutil

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Width returns the number of terminal columns s occupies. ANSI styling is
// ignored.
func Width(s string) int {
	return lipgloss.Width(s)
}

// Truncate cuts s to at most max columns, ending in Ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	return runewidth.Truncate(s, max, Ellipsis)
}

// PadRight fits s into exactly width columns.
func PadRight(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return Truncate(s, width)
	}
	return runewidth.FillRight(s, width)
}
