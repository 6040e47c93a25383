package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"statehost/internal/screens"
)

// Scheduler is the screens.Async the app hands to presenters. Drain turns
// the tasks queued since the last call into a command.
type Scheduler interface {
	screens.Async
	Drain() tea.Cmd
}

// TaskDoneMsg carries a finished task's result back to the event loop.
type TaskDoneMsg struct {
	apply func()
}

// TeaScheduler runs each task in its own tea.Cmd. Run and Drain must be
// called from the event loop.
type TeaScheduler struct {
	ctx     context.Context
	pending []screens.Task
}

// NewTeaScheduler creates a scheduler whose tasks see ctx.
func NewTeaScheduler(ctx context.Context) *TeaScheduler {
	return &TeaScheduler{ctx: ctx}
}

func (s *TeaScheduler) Run(task screens.Task) {
	s.pending = append(s.pending, task)
}

func (s *TeaScheduler) Drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(s.pending))
	for _, task := range s.pending {
		task := task
		cmds = append(cmds, func() tea.Msg {
			return TaskDoneMsg{apply: task(s.ctx)}
		})
	}
	s.pending = nil
	return tea.Batch(cmds...)
}

// inlineScheduler applies tasks immediately. Used in tests.
type inlineScheduler struct {
	screens.Inline
}

func (inlineScheduler) Drain() tea.Cmd { return nil }
