package screens

import (
	"context"
	"fmt"
	"time"

	"statehost/internal/presenter"
)

// FirstView is what the first screen renders.
type FirstView struct {
	Progress    bool   `json:"progress" yaml:"progress"`
	Error       bool   `json:"error" yaml:"error"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Count       int    `json:"count" yaml:"count"`
}

// FirstRequest is the first screen's presenter state. A click that is still
// loading is persisted, so a restored screen resumes the load; a finished
// load is recorded as done.
type FirstRequest struct {
	Kind string `json:"kind" yaml:"kind"`
}

// Click asks the first screen to load.
func Click() FirstRequest { return FirstRequest{Kind: KindClick} }

// FirstLoader produces the loaded first screen. prev is the count currently
// shown.
type FirstLoader func(ctx context.Context, prev int) (FirstView, error)

// DefaultFirstLoader waits for delay and then bumps the count.
func DefaultFirstLoader(delay time.Duration) FirstLoader {
	return func(ctx context.Context, prev int) (FirstView, error) {
		if err := sleep(ctx, delay); err != nil {
			return FirstView{}, err
		}
		return FirstView{
			Title:       "First screen",
			Description: fmt.Sprintf("loaded at %s", time.Now().Format(time.Kitchen)),
			Count:       prev + 1,
		}, nil
	}
}

// NewFirst builds the first screen's container.
func NewFirst(async Async, load FirstLoader, opts ...presenter.Option) *presenter.Container[FirstView, FirstRequest] {
	if load == nil {
		load = DefaultFirstLoader(time.Second)
	}
	return presenter.New(FirstIdentity, presenter.Hooks[FirstView, FirstRequest]{
		OnStateUpdated: func(c *presenter.Container[FirstView, FirstRequest], req FirstRequest) {
			if req.Kind != KindClick {
				return
			}
			prev, _ := c.ViewState()
			c.UpdateViewState(FirstView{Progress: true, Count: prev.Count})
			async.Run(func(ctx context.Context) func() {
				loaded, err := load(ctx, prev.Count)
				return func() {
					// dropped if the screen went away meanwhile
					if c.Destroyed() {
						return
					}
					if err != nil {
						c.UpdateViewState(FirstView{Error: true, Count: prev.Count})
					} else {
						c.UpdateViewState(loaded)
					}
					c.UpdateState(FirstRequest{Kind: KindDone})
				}
			})
		},
	}, opts...)
}
