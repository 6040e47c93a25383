package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Palette (256-color codes).
const (
	ColorAccent  = "86"
	ColorFrame   = "205"
	ColorDanger  = "196"
	ColorMuted   = "241"
	ColorText    = "252"
	ColorLoading = "208"
)

func fg(code string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code))
}

// Styles are shared by every screen. Frames are picked with Frame.
var Styles = struct {
	Title    lipgloss.Style
	Nested   lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Normal   lipgloss.Style
	Hint     lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Progress lipgloss.Style
	Empty    lipgloss.Style
}{
	Title:    fg(ColorAccent).Bold(true),
	Nested:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(ColorMuted)).Padding(0, 1),
	Selected: fg(ColorFrame).Bold(true),
	Muted:    fg(ColorMuted),
	Normal:   fg(ColorText),
	Hint:     fg(ColorMuted),
	Status:   fg(ColorAccent),
	Error:    fg(ColorDanger).Bold(true),
	Progress: fg(ColorLoading),
	Empty:    fg(ColorMuted).Italic(true),
}

// Frame returns the outer border of a screen. A screen showing an error
// state gets a red border.
func Frame(failed bool) lipgloss.Style {
	border := ColorFrame
	if failed {
		border = ColorDanger
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Margin(1)
}

// NewCompactListDelegate returns a single-line list delegate using the
// shared styles.
func NewCompactListDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	d.ShowDescription = false
	d.Styles.SelectedTitle = Styles.Selected
	d.Styles.NormalTitle = Styles.Muted
	return d
}
