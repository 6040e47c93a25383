package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"statehost/internal/trace"
	"statehost/internal/ui/textutil"
)

// traceScrollKeys move the trace panel viewport.
type traceScrollKeys struct {
	Down, Up, Top, Bottom key.Binding
}

func defaultTraceScrollKeys() traceScrollKeys {
	return traceScrollKeys{
		Down:   key.NewBinding(key.WithKeys("j", "down")),
		Up:     key.NewBinding(key.WithKeys("k", "up")),
		Top:    key.NewBinding(key.WithKeys("g", "home")),
		Bottom: key.NewBinding(key.WithKeys("G", "end")),
	}
}

// TraceView shows the event timeline of the container behind the top screen.
type TraceView struct {
	recorder *trace.Recorder
	instance string
	keys     traceScrollKeys
	viewport viewport.Model
	width    int
	visible  bool
}

var _ View = (*TraceView)(nil)

// NewTraceView returns a hidden panel reading from recorder.
func NewTraceView(recorder *trace.Recorder) *TraceView {
	vp := viewport.New(50, 20)
	vp.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorFrame)).
		Padding(0, 1)
	return &TraceView{
		recorder: recorder,
		keys:     defaultTraceScrollKeys(),
		viewport: vp,
		width:    50,
	}
}

func (v *TraceView) Init() tea.Cmd { return nil }

// Scrolls reports whether msg is a key the visible panel consumes.
func (v *TraceView) Scrolls(msg tea.KeyMsg) bool {
	return v.visible && key.Matches(msg, v.keys.Down, v.keys.Up, v.keys.Top, v.keys.Bottom)
}

func (v *TraceView) Update(msg tea.Msg) (View, tea.Cmd) {
	if !v.visible {
		return v, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, v.keys.Down):
			v.viewport.LineDown(1)
		case key.Matches(msg, v.keys.Up):
			v.viewport.LineUp(1)
		case key.Matches(msg, v.keys.Top):
			v.viewport.GotoTop()
		case key.Matches(msg, v.keys.Bottom):
			v.viewport.GotoBottom()
		}
		return v, nil
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *TraceView) View() string {
	if !v.visible {
		return ""
	}
	return v.viewport.View()
}

func (v *TraceView) SetSize(width, height int) {
	v.width = width
	v.viewport.Width = width
	v.viewport.Height = height
	v.Refresh()
}

// SetVisible shows or hides the panel. Showing it redraws the timeline.
func (v *TraceView) SetVisible(visible bool) {
	v.visible = visible
	if visible {
		v.Refresh()
	}
}

func (v *TraceView) IsVisible() bool { return v.visible }

// Follow switches the view to another container instance.
func (v *TraceView) Follow(instance string) {
	if v.instance == instance {
		return
	}
	v.instance = instance
	v.Refresh()
	v.viewport.GotoBottom()
}

// Refresh rebuilds the content from the recorder. Stays at the bottom if it
// was there.
func (v *TraceView) Refresh() {
	atBottom := v.viewport.AtBottom()
	v.viewport.SetContent(v.render())
	if atBottom {
		v.viewport.GotoBottom()
	}
}

func (v *TraceView) render() string {
	if v.recorder == nil || v.instance == "" {
		return Styles.Empty.Render("No container attached")
	}
	tl := v.recorder.Timeline(v.instance)
	if tl == nil {
		return Styles.Empty.Render("No events recorded for " + shortID(v.instance))
	}

	end := tl.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	statusColor := ColorAccent
	if tl.Status == "destroyed" {
		statusColor = ColorMuted
	}
	header := fmt.Sprintf("Timeline: %s %s (%s) %s",
		tl.Container,
		shortID(tl.Instance),
		formatDuration(end.Sub(tl.StartTime)),
		lipgloss.NewStyle().Foreground(lipgloss.Color(statusColor)).Render("● "+tl.Status))

	lines := []string{Styles.Title.Render(header), ""}
	if len(tl.Events) == 0 {
		lines = append(lines, Styles.Muted.Render("  (no events yet)"))
	}
	for i, ev := range tl.Events {
		connector := "├─"
		if i == len(tl.Events)-1 {
			connector = "└─"
		}
		// connector, timestamp and type take a fixed prefix; fit the rest
		detail := strings.TrimSpace(ev.Name + " " + formatAttributes(ev.Attributes))
		detail = textutil.Truncate(detail, v.width-textutil.Width(connector)-len("15:04:05.000")-len(ev.Type)-4)
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			connector,
			Styles.Muted.Render(ev.Timestamp.Format("15:04:05.000")),
			eventStyle(ev.Type).Render(string(ev.Type)),
			Styles.Hint.Render(detail)))
	}
	return strings.Join(lines, "\n")
}

func eventStyle(t trace.EventType) lipgloss.Style {
	switch t {
	case trace.EventDestroy, trace.EventResourceMissing, trace.EventDropped:
		return Styles.Error
	case trace.EventStateUpdate, trace.EventRestore:
		return Styles.Selected
	case trace.EventAttach, trace.EventDetach, trace.EventSave:
		return Styles.Status
	default:
		return Styles.Normal
	}
}

func formatAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + attrs[k]
	}
	return strings.Join(parts, " ")
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
