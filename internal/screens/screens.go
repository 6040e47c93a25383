// Package screens holds the sample presenters hosted by the statehost TUI:
// a first screen that loads a summary, a second screen that loads a list of
// values, and a balance component nested in the first screen.
//
// Presenters never block the event loop. Slow work is handed to an Async,
// which runs it elsewhere and applies the result back on the event loop.
package screens

import (
	"context"
	"errors"
	"time"
)

// Container identities. They double as store keys.
const (
	FirstIdentity   = "first"
	SecondIdentity  = "second"
	BalanceIdentity = "balance"
)

// Request kinds shared by the screen presenters.
const (
	KindClick = "click"
	KindDone  = "done"
)

// ErrLoad is what the default loaders return when asked to fail.
var ErrLoad = errors.New("load failed")

// Task runs off the event loop and returns the function that applies its
// result. apply runs on the event loop.
type Task func(ctx context.Context) (apply func())

// Async schedules tasks.
type Async interface {
	Run(task Task)
}

// Inline runs tasks immediately on the caller's goroutine.
type Inline struct{}

func (Inline) Run(task Task) {
	if apply := task(context.Background()); apply != nil {
		apply()
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
