package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the app's key bindings.
type KeyMap struct {
	Load  key.Binding
	Next  key.Binding
	Back  key.Binding
	Trace key.Binding
	Save  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Load:  key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "load")),
		Next:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next screen")),
		Back:  key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Trace: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trace")),
		Save:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Load, k.Next, k.Back, k.Trace, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var _ help.KeyMap = KeyMap{}
