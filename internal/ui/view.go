package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"statehost/internal/bundle"
)

// View is the unit of composition; implements Bubble Tea's Init/Update/View.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}

// Screen is a full-screen View backed by a presenter container. The
// lifecycle methods map onto the screen's bridge.
type Screen interface {
	View

	// ID is the screen's container identity.
	ID() string
	Title() string
	// Instance is the current container's instance ID, or "".
	Instance() string

	Attach(saved bundle.Reader) error
	Detach() error
	Save(out bundle.Writer) error
	Destroy() error

	// SetSize is called with the space available to the screen.
	SetSize(width, height int)
}
