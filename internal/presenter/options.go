package presenter

import (
	"github.com/rs/zerolog"

	"statehost/internal/trace"
)

// Option configures a Container.
type Option func(*settings)

type settings struct {
	log   zerolog.Logger
	sink  trace.Sink
	codec string
}

func defaultSettings() settings {
	return settings{
		log:   zerolog.Nop(),
		sink:  trace.Nop{},
		codec: "json",
	}
}

// WithLogger sets the logger. Containers log at debug level except for
// discarded persisted state, which is a warning.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithTrace sends container events to sink.
func WithTrace(sink trace.Sink) Option {
	return func(s *settings) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithCodec selects the bundle codec by name ("json" or "yaml"). Unknown
// names fall back to json.
func WithCodec(name string) Option {
	return func(s *settings) { s.codec = name }
}
