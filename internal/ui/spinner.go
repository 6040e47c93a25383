package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// progressSpinner ticks only while a screen is loading.
type progressSpinner struct {
	model   spinner.Model
	running bool
}

func newProgressSpinner() progressSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = fg(ColorLoading)
	return progressSpinner{model: s}
}

// sync starts ticking when loading begins and lets the tick chain die out
// when it ends.
func (p *progressSpinner) sync(loading bool) tea.Cmd {
	if loading && !p.running {
		p.running = true
		return p.model.Tick
	}
	if !loading {
		p.running = false
	}
	return nil
}

func (p *progressSpinner) update(msg spinner.TickMsg) tea.Cmd {
	if !p.running {
		return nil
	}
	var cmd tea.Cmd
	p.model, cmd = p.model.Update(msg)
	return cmd
}

func (p *progressSpinner) View() string {
	return p.model.View()
}
