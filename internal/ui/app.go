package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"statehost/internal/bundle"
	"statehost/internal/screens"
	"statehost/internal/store"
	"statehost/internal/trace"
)

const (
	// SessionKey is the store key the app saves its bundle under.
	SessionKey = "session"
	// StackSlot holds the open screen identities, bottom first.
	StackSlot = "statehost:SCREENS"
)

var stackCodec = bundle.JSONCodec[[]string]{}

// AppModel is the root model. It owns the screen stack and persists it to
// the store.
type AppModel struct {
	Env   *Env
	Store store.Store
	Stack ScreenStack
	Trace *TraceView
	Help  help.Model
	Log   zerolog.Logger

	ctx        context.Context
	traceDirty atomic.Bool
	status     string
	width      int
	height     int
}

// NewAppModel creates the root model. recorder may be nil, which disables
// the trace panel.
func NewAppModel(ctx context.Context, env *Env, st store.Store, recorder *trace.Recorder) *AppModel {
	a := &AppModel{
		Env:   env,
		Store: st,
		Trace: NewTraceView(recorder),
		Help:  help.New(),
		Log:   env.Log.With().Str("component", "app").Logger(),
		ctx:   ctx,
	}
	if recorder != nil {
		recorder.SetOnChange(func() { a.traceDirty.Store(true) })
	}
	return a
}

// Restore rebuilds the screen stack from the saved session, or opens the
// first screen when there is none.
func (a *AppModel) Restore() error {
	var saved bundle.Bundle
	ids := []string{screens.FirstIdentity}
	if a.Store != nil {
		b, ok, err := a.Store.Load(a.ctx, SessionKey)
		if err != nil {
			// a corrupt session is not fatal; start fresh
			a.Log.Warn().Err(err).Msg("discarding saved session")
		} else if ok {
			saved = b
			stored, found, err := bundle.Read[[]string](b, StackSlot, stackCodec)
			if err != nil {
				a.Log.Warn().Err(err).Msg("discarding saved screen stack")
			} else if found && len(stored) > 0 {
				ids = stored
			}
		}
	}

	for _, id := range ids {
		screen, err := a.Env.NewScreen(id)
		if err != nil {
			a.Log.Warn().Err(err).Msg("skipping saved screen")
			continue
		}
		var r bundle.Reader
		if saved != nil {
			r = saved
		}
		if err := a.Stack.Push(screen, r); err != nil {
			return fmt.Errorf("restore %s: %w", id, err)
		}
	}
	if a.Stack.Len() == 0 {
		return a.Stack.Push(NewFirstScreen(a.Env), nil)
	}
	a.Log.Info().Strs("screens", a.Stack.IDs()).Bool("resumed", saved != nil).Msg("session restored")
	return nil
}

// Persist saves every open screen and the stack layout to the store.
func (a *AppModel) Persist() error {
	if a.Store == nil {
		return nil
	}
	out := bundle.New()
	err := a.Stack.Save(out)
	if werr := bundle.Write[[]string](out, StackSlot, stackCodec, a.Stack.IDs()); werr != nil {
		err = errors.Join(err, werr)
	}
	if err != nil {
		// save what encoded; the failing slots are absent and restore fresh
		a.Log.Warn().Err(err).Msg("partial session save")
	}
	if err := a.Store.Save(a.ctx, SessionKey, out); err != nil {
		return err
	}
	a.Log.Debug().Int("slots", len(out.Keys())).Msg("session saved")
	return nil
}

// Shutdown persists the session and destroys every screen.
func (a *AppModel) Shutdown() error {
	err := a.Persist()
	return errors.Join(err, a.Stack.DestroyAll())
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	var cmd tea.Cmd
	if top := a.Stack.Peek(); top != nil {
		cmd = top.Init()
	}
	return tea.Batch(cmd, a.Env.Scheduler.Drain())
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd, forward := a.handle(msg)
	if forward {
		if top := a.Stack.Peek(); top != nil {
			_, screenCmd := top.Update(msg)
			cmd = tea.Batch(cmd, screenCmd)
		}
	}
	a.syncTrace()
	return a, tea.Batch(cmd, a.Env.Scheduler.Drain())
}

// handle processes app-level messages. forward reports whether the top
// screen should see msg too.
func (a *appModelAdapter) handle(msg tea.Msg) (cmd tea.Cmd, forward bool) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		for _, s := range a.Stack.Stack {
			s.SetSize(msg.Width, msg.Height)
		}
		a.Trace.SetSize(msg.Width-4, msg.Height/3)
		return nil, false
	case TaskDoneMsg:
		if msg.apply != nil {
			msg.apply()
		}
		return nil, true
	case PushScreenMsg:
		screen, err := a.Env.NewScreen(msg.ID)
		if err == nil {
			screen.SetSize(a.width, a.height)
			err = a.Stack.Push(screen, nil)
		}
		if err != nil {
			a.Log.Error().Err(err).Str("screen", msg.ID).Msg("open screen")
			a.status = err.Error()
			return nil, false
		}
		return screen.Init(), false
	case PopScreenMsg:
		if a.Stack.Len() <= 1 {
			return nil, false
		}
		if _, err := a.Stack.Pop(); err != nil {
			a.Log.Error().Err(err).Msg("close screen")
		}
		return a.Stack.Peek().Init(), false
	case SavedMsg:
		if msg.Err != nil {
			a.status = "save failed: " + msg.Err.Error()
		} else {
			a.status = "saved"
		}
		return nil, false
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.Env.Keys.Quit):
			if err := a.Shutdown(); err != nil {
				a.Log.Error().Err(err).Msg("shutdown")
			}
			return tea.Quit, false
		case key.Matches(msg, a.Env.Keys.Save):
			err := a.Persist()
			return func() tea.Msg { return SavedMsg{Err: err} }, false
		case key.Matches(msg, a.Env.Keys.Trace):
			a.Trace.SetVisible(!a.Trace.IsVisible())
			return nil, false
		}
		if a.Trace.Scrolls(msg) {
			_, cmd := a.Trace.Update(msg)
			return cmd, false
		}
		return nil, true
	}
	return nil, true
}

// syncTrace points the trace panel at the top screen and redraws it when
// the recorder changed.
func (a *appModelAdapter) syncTrace() {
	if !a.Trace.IsVisible() {
		return
	}
	if top := a.Stack.Peek(); top != nil {
		a.Trace.Follow(top.Instance())
	}
	if a.traceDirty.Swap(false) {
		a.Trace.Refresh()
	}
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	var b strings.Builder
	if top := a.Stack.Peek(); top != nil {
		b.WriteString(top.View())
	}
	if a.Trace.IsVisible() {
		b.WriteString("\n")
		b.WriteString(a.Trace.View())
	}
	b.WriteString("\n")
	if a.status != "" {
		b.WriteString(Styles.Muted.Render(a.status) + "  ")
	}
	b.WriteString(a.Help.View(a.Env.Keys))
	return b.String()
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}
