package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"statehost/internal/bundle"
	"statehost/internal/lifecycle"
	"statehost/internal/presenter"
	"statehost/internal/screens"
	"statehost/internal/ui/textutil"
)

// valueItem adapts a loaded value to list.DefaultItem.
type valueItem string

func (v valueItem) Title() string       { return string(v) }
func (v valueItem) Description() string { return "" }
func (v valueItem) FilterValue() string { return string(v) }

// SecondScreen loads and lists values.
type SecondScreen struct {
	env    *Env
	bridge *lifecycle.Bridge[screens.SecondView, screens.SecondRequest]

	view    screens.SecondView
	hasView bool
	list    list.Model
	spinner progressSpinner
	width   int
}

var (
	_ Screen                                 = (*SecondScreen)(nil)
	_ presenter.Observer[screens.SecondView] = (*SecondScreen)(nil)
)

// NewSecondScreen creates an unattached second screen.
func NewSecondScreen(env *Env) *SecondScreen {
	l := list.New(nil, NewCompactListDelegate(), 40, 10)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	s := &SecondScreen{
		env:     env,
		list:    l,
		spinner: newProgressSpinner(),
	}
	s.bridge = lifecycle.NewBridge[screens.SecondView, screens.SecondRequest](s,
		func() *presenter.Container[screens.SecondView, screens.SecondRequest] {
			return screens.NewSecond(env.Scheduler, env.ValuesLoader, env.presenterOptions()...)
		},
		env.bridgeOptions(lifecycle.WithPolicy(lifecycle.Retain))...,
	)
	return s
}

// OnModelUpdated implements presenter.Observer.
func (s *SecondScreen) OnModelUpdated(v screens.SecondView) {
	s.view = v
	s.hasView = true
	items := make([]list.Item, len(v.Values))
	for i, value := range v.Values {
		items[i] = valueItem(textutil.Truncate(value, s.itemWidth()))
	}
	s.list.SetItems(items)
}

func (s *SecondScreen) ID() string    { return screens.SecondIdentity }
func (s *SecondScreen) Title() string { return "Second screen" }

func (s *SecondScreen) Instance() string {
	if c := s.bridge.Container(); c != nil {
		return c.InstanceID()
	}
	return ""
}

func (s *SecondScreen) Attach(saved bundle.Reader) error { return s.bridge.Attach(saved) }
func (s *SecondScreen) Detach() error                    { return s.bridge.Detach() }
func (s *SecondScreen) Save(out bundle.Writer) error     { return s.bridge.Save(out) }
func (s *SecondScreen) Destroy() error                   { return s.bridge.Destroy() }

func (s *SecondScreen) SetSize(width, height int) {
	s.width = width
	h := height - 10
	if h < 3 {
		h = 3
	}
	s.list.SetSize(s.itemWidth(), h)
}

func (s *SecondScreen) itemWidth() int {
	if s.width <= 10 {
		return 40
	}
	return s.width - 10
}

func (s *SecondScreen) Init() tea.Cmd {
	return s.spinner.sync(s.view.Progress)
}

func (s *SecondScreen) Update(msg tea.Msg) (View, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.env.Keys.Load):
			if c := s.bridge.Container(); c != nil && !s.view.Progress {
				c.UpdateState(screens.SecondRequest{Kind: screens.KindClick})
			}
		case key.Matches(msg, s.env.Keys.Back):
			cmd = func() tea.Msg { return PopScreenMsg{} }
		default:
			s.list, cmd = s.list.Update(msg)
		}
	case spinner.TickMsg:
		cmd = s.spinner.update(msg)
	}
	return s, tea.Batch(cmd, s.spinner.sync(s.view.Progress))
}

func (s *SecondScreen) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(s.Title()))
	b.WriteString("\n\n")

	failed := false
	switch {
	case !s.hasView:
		b.WriteString(Styles.Empty.Render("No values yet. Press enter to load."))
	case s.view.Progress:
		b.WriteString(s.spinner.View() + Styles.Progress.Render(" Loading values…"))
	case s.view.Error:
		failed = true
		b.WriteString(Styles.Error.Render("Error!"))
		b.WriteString(Styles.Hint.Render(" Press enter to retry."))
	default:
		b.WriteString(Styles.Status.Render(fmt.Sprintf("%d values", s.view.Count)))
		b.WriteString("\n")
		b.WriteString(s.list.View())
	}
	return Frame(failed).Render(b.String())
}
