package screens

import (
	"context"
	"fmt"
	"time"

	"statehost/internal/presenter"
)

// SecondView is what the second screen renders. Values is held in memory
// only; a view restored without it reports an empty resource and the
// presenter reloads.
type SecondView struct {
	Progress bool     `json:"progress" yaml:"progress"`
	Error    bool     `json:"error" yaml:"error"`
	Count    int      `json:"count" yaml:"count"`
	Values   []string `json:"-" yaml:"-"`
}

// ResourceEmpty reports a loaded view whose values did not survive.
func (v SecondView) ResourceEmpty() bool {
	return !v.Progress && !v.Error && v.Values == nil
}

// SecondRequest is the second screen's presenter state.
type SecondRequest struct {
	Kind string `json:"kind" yaml:"kind"`
}

// ValuesLoader produces the second screen's values.
type ValuesLoader func(ctx context.Context) ([]string, error)

// DefaultValuesLoader waits for delay and returns n values.
func DefaultValuesLoader(delay time.Duration, n int) ValuesLoader {
	return func(ctx context.Context) ([]string, error) {
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
		values := make([]string, n)
		for i := range values {
			values[i] = fmt.Sprintf("value %d", i+1)
		}
		return values, nil
	}
}

// NewSecond builds the second screen's container.
func NewSecond(async Async, load ValuesLoader, opts ...presenter.Option) *presenter.Container[SecondView, SecondRequest] {
	if load == nil {
		load = DefaultValuesLoader(time.Second, 12)
	}
	fetch := func(c *presenter.Container[SecondView, SecondRequest]) {
		c.UpdateViewState(SecondView{Progress: true})
		async.Run(func(ctx context.Context) func() {
			values, err := load(ctx)
			return func() {
				if c.Destroyed() {
					return
				}
				if err != nil {
					c.UpdateViewState(SecondView{Error: true})
				} else {
					if values == nil {
						// nil means "not loaded" to ResourceEmpty
						values = []string{}
					}
					c.UpdateViewState(SecondView{Count: len(values), Values: values})
				}
				c.UpdateState(SecondRequest{Kind: KindDone})
			}
		})
	}
	return presenter.New(SecondIdentity, presenter.Hooks[SecondView, SecondRequest]{
		OnStateUpdated: func(c *presenter.Container[SecondView, SecondRequest], req SecondRequest) {
			if req.Kind == KindClick {
				fetch(c)
			}
		},
		OnNonSerializableEmpty: func(c *presenter.Container[SecondView, SecondRequest], _ SecondView) {
			fetch(c)
		},
	}, opts...)
}
