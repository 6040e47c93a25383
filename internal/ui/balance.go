package ui

import (
	"github.com/rs/zerolog"

	"statehost/internal/bundle"
	"statehost/internal/lifecycle"
	"statehost/internal/presenter"
	"statehost/internal/screens"
)

// BalanceComponent is a nested view with its own presenter. Its container
// outlives a detach through the env's retainer and dies with its owner.
type BalanceComponent struct {
	bridge    *lifecycle.Bridge[screens.BalanceView, screens.BalanceRequest]
	log       zerolog.Logger
	view      screens.BalanceView
	hasView   bool
	requested bool
}

// NewBalanceComponent creates a component retained under key.
func NewBalanceComponent(env *Env, key string) *BalanceComponent {
	b := &BalanceComponent{log: env.Log}
	b.bridge = lifecycle.NewBridge[screens.BalanceView, screens.BalanceRequest](b,
		func() *presenter.Container[screens.BalanceView, screens.BalanceRequest] {
			return screens.NewBalance(env.Scheduler, env.BalanceLoader, env.presenterOptions()...)
		},
		env.bridgeOptions(
			lifecycle.WithPolicy(lifecycle.Discard),
			lifecycle.WithRetainer(env.Retainer, key),
		)...,
	)
	return b
}

// OnModelUpdated implements presenter.Observer.
func (b *BalanceComponent) OnModelUpdated(v screens.BalanceView) {
	b.view = v
	b.hasView = true
	b.requested = false
}

// AttachTo attaches the component under owner and requests a balance if
// there is nothing to show.
func (b *BalanceComponent) AttachTo(owner *lifecycle.Owner, saved bundle.Reader) error {
	if err := b.bridge.AttachTo(owner, saved); err != nil {
		return err
	}
	c := b.bridge.Container()
	if _, ok := c.ViewState(); !ok && !b.requested {
		b.requested = true
		b.log.Debug().Msg("requesting balance")
		c.UpdateState(screens.BalanceRequest{})
	}
	return nil
}

func (b *BalanceComponent) Detach() error {
	return b.bridge.Detach()
}

func (b *BalanceComponent) View() string {
	text := Styles.Empty.Render("balance: …")
	if b.hasView {
		text = Styles.Muted.Render("balance: ") + Styles.Status.Render(b.view.Balance)
	}
	return Styles.Nested.Render(text)
}
