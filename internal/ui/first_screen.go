package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"statehost/internal/bundle"
	"statehost/internal/lifecycle"
	"statehost/internal/presenter"
	"statehost/internal/screens"
)

// FirstScreen loads a summary on demand and hosts the balance component.
type FirstScreen struct {
	env     *Env
	bridge  *lifecycle.Bridge[screens.FirstView, screens.FirstRequest]
	owner   *lifecycle.Owner
	balance *BalanceComponent

	view    screens.FirstView
	hasView bool
	spinner progressSpinner
	width   int
}

var (
	_ Screen                                = (*FirstScreen)(nil)
	_ presenter.Observer[screens.FirstView] = (*FirstScreen)(nil)
)

// NewFirstScreen creates an unattached first screen.
func NewFirstScreen(env *Env) *FirstScreen {
	s := &FirstScreen{
		env:     env,
		owner:   lifecycle.NewOwner(),
		spinner: newProgressSpinner(),
	}
	s.bridge = lifecycle.NewBridge[screens.FirstView, screens.FirstRequest](s,
		func() *presenter.Container[screens.FirstView, screens.FirstRequest] {
			return screens.NewFirst(env.Scheduler, env.FirstLoader, env.presenterOptions()...)
		},
		env.bridgeOptions(lifecycle.WithPolicy(lifecycle.Retain))...,
	)
	s.balance = NewBalanceComponent(env, screens.FirstIdentity+"/"+screens.BalanceIdentity)
	return s
}

// OnModelUpdated implements presenter.Observer.
func (s *FirstScreen) OnModelUpdated(v screens.FirstView) {
	s.view = v
	s.hasView = true
}

func (s *FirstScreen) ID() string    { return screens.FirstIdentity }
func (s *FirstScreen) Title() string { return "First screen" }

func (s *FirstScreen) Instance() string {
	if c := s.bridge.Container(); c != nil {
		return c.InstanceID()
	}
	return ""
}

func (s *FirstScreen) Attach(saved bundle.Reader) error {
	if err := s.bridge.Attach(saved); err != nil {
		return err
	}
	return s.balance.AttachTo(s.owner, saved)
}

func (s *FirstScreen) Detach() error {
	return errors.Join(s.balance.Detach(), s.bridge.Detach())
}

func (s *FirstScreen) Save(out bundle.Writer) error {
	return errors.Join(s.bridge.Save(out), s.owner.Save(out))
}

func (s *FirstScreen) Destroy() error {
	s.owner.Destroy()
	return s.bridge.Destroy()
}

func (s *FirstScreen) SetSize(width, _ int) { s.width = width }

// loaded reports whether a summary is on screen.
func (s *FirstScreen) loaded() bool {
	return s.hasView && !s.view.Progress && !s.view.Error
}

func (s *FirstScreen) Init() tea.Cmd {
	return s.spinner.sync(s.view.Progress)
}

func (s *FirstScreen) Update(msg tea.Msg) (View, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.env.Keys.Load):
			if c := s.bridge.Container(); c != nil && !s.view.Progress {
				c.UpdateState(screens.Click())
			}
		case key.Matches(msg, s.env.Keys.Next):
			if s.loaded() {
				cmd = func() tea.Msg { return PushScreenMsg{ID: screens.SecondIdentity} }
			}
		}
	case spinner.TickMsg:
		cmd = s.spinner.update(msg)
	}
	return s, tea.Batch(cmd, s.spinner.sync(s.view.Progress))
}

func (s *FirstScreen) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(s.Title()))
	b.WriteString("\n\n")

	failed := false
	switch {
	case !s.hasView:
		b.WriteString(Styles.Empty.Render("Nothing loaded yet. Press enter to load."))
	case s.view.Progress:
		b.WriteString(s.spinner.View() + Styles.Progress.Render(" Loading…"))
	case s.view.Error:
		failed = true
		b.WriteString(Styles.Error.Render("Error!"))
		b.WriteString(Styles.Hint.Render(" Press enter to retry."))
	default:
		b.WriteString(Styles.Status.Render(s.view.Title))
		b.WriteString("\n")
		b.WriteString(Styles.Normal.Render(s.view.Description))
		b.WriteString("\n")
		b.WriteString(Styles.Selected.Render(fmt.Sprintf("%d", s.view.Count)))
		b.WriteString("\n\n")
		b.WriteString(Styles.Hint.Render("Press n for the second screen."))
	}
	b.WriteString("\n\n")
	b.WriteString(s.balance.View())
	return Frame(failed).Render(b.String())
}
