package ui

import (
	"fmt"

	"github.com/rs/zerolog"

	"statehost/internal/lifecycle"
	"statehost/internal/presenter"
	"statehost/internal/screens"
	"statehost/internal/trace"
)

// Env carries what screens need to build their containers and bridges.
type Env struct {
	Scheduler Scheduler
	Retainer  *lifecycle.Retainer
	Log       zerolog.Logger
	Trace     trace.Sink
	Codec     string
	Keys      KeyMap

	// Nil loaders fall back to the screens package defaults.
	FirstLoader   screens.FirstLoader
	ValuesLoader  screens.ValuesLoader
	BalanceLoader screens.BalanceLoader
}

// NewEnv returns an Env with default keys, a fresh retainer and no-op
// logging and tracing.
func NewEnv(s Scheduler) *Env {
	return &Env{
		Scheduler: s,
		Retainer:  lifecycle.NewRetainer(),
		Log:       zerolog.Nop(),
		Trace:     trace.Nop{},
		Codec:     "json",
		Keys:      DefaultKeyMap(),
	}
}

func (e *Env) presenterOptions() []presenter.Option {
	return []presenter.Option{
		presenter.WithLogger(e.Log),
		presenter.WithTrace(e.Trace),
		presenter.WithCodec(e.Codec),
	}
}

func (e *Env) bridgeOptions(extra ...lifecycle.BridgeOption) []lifecycle.BridgeOption {
	return append([]lifecycle.BridgeOption{
		lifecycle.WithLogger(e.Log),
		lifecycle.WithTrace(e.Trace),
	}, extra...)
}

// NewScreen builds the screen with the given identity.
func (e *Env) NewScreen(id string) (Screen, error) {
	switch id {
	case screens.FirstIdentity:
		return NewFirstScreen(e), nil
	case screens.SecondIdentity:
		return NewSecondScreen(e), nil
	default:
		return nil, fmt.Errorf("unknown screen %q", id)
	}
}
