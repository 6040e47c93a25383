package screens

import (
	"context"
	"fmt"
	"time"

	"statehost/internal/presenter"
	"statehost/internal/state"
)

// BalanceView is the balance component's rendered text.
type BalanceView struct {
	Balance string `json:"balance" yaml:"balance"`
}

// BalanceRequest asks for a fresh balance. Hosts send one whenever the
// component has nothing to show, so it is never persisted.
type BalanceRequest struct {
	state.Transient
}

// BalanceLoader produces the balance text.
type BalanceLoader func(ctx context.Context) (string, error)

// DefaultBalanceLoader waits for delay and returns a fixed balance.
func DefaultBalanceLoader(delay time.Duration) BalanceLoader {
	return func(ctx context.Context) (string, error) {
		if err := sleep(ctx, delay); err != nil {
			return "", err
		}
		return fmt.Sprintf("$%.2f", 1234.5), nil
	}
}

// NewBalance builds the balance component's container.
func NewBalance(async Async, load BalanceLoader, opts ...presenter.Option) *presenter.Container[BalanceView, BalanceRequest] {
	if load == nil {
		load = DefaultBalanceLoader(500 * time.Millisecond)
	}
	return presenter.New(BalanceIdentity, presenter.Hooks[BalanceView, BalanceRequest]{
		OnStateUpdated: func(c *presenter.Container[BalanceView, BalanceRequest], _ BalanceRequest) {
			async.Run(func(ctx context.Context) func() {
				balance, err := load(ctx)
				return func() {
					if c.Destroyed() {
						return
					}
					if err != nil {
						balance = "unavailable"
					}
					c.UpdateViewState(BalanceView{Balance: balance})
				}
			})
		},
	}, opts...)
}
