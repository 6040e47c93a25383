package lifecycle

import (
	"github.com/rs/zerolog"

	"statehost/internal/trace"
)

// BridgeOption configures a Bridge.
type BridgeOption func(*bridgeSettings)

type bridgeSettings struct {
	policy   Policy
	retainer *Retainer
	key      string
	log      zerolog.Logger
	sink     trace.Sink
}

// WithPolicy sets what happens to the container on Detach. Default Retain.
func WithPolicy(p Policy) BridgeOption {
	return func(s *bridgeSettings) { s.policy = p }
}

// WithRetainer keeps the bridge's container in r under key, so a later
// bridge with the same key picks it up instead of building a new one.
func WithRetainer(r *Retainer, key string) BridgeOption {
	return func(s *bridgeSettings) {
		s.retainer = r
		s.key = key
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) BridgeOption {
	return func(s *bridgeSettings) { s.log = l }
}

// WithTrace sends attach and detach events to sink.
func WithTrace(sink trace.Sink) BridgeOption {
	return func(s *bridgeSettings) {
		if sink != nil {
			s.sink = sink
		}
	}
}
