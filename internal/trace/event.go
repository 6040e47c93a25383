// Package trace records what state containers do: subscriptions, broadcasts,
// transitions, persistence and host lifecycle changes.
//
// Containers and bridges emit Events to a Sink. Two sinks are provided:
//   - Recorder keeps a bounded in-memory timeline per container instance
//   - OTLPExporter turns events into OpenTelemetry spans
//
// Fan out to several sinks with Multi.
package trace

import "time"

// EventType identifies the kind of trace event
type EventType string

const (
	EventSubscribe       EventType = "subscribe"        // observer added
	EventUnsubscribe     EventType = "unsubscribe"      // observer removed
	EventViewUpdate      EventType = "view_update"      // view state broadcast
	EventStateUpdate     EventType = "state_update"     // presenter state transition
	EventResourceMissing EventType = "resource_missing" // stale volatile resource on subscribe
	EventRestore         EventType = "restore"          // rehydrated from a bundle
	EventSave            EventType = "save"             // written to a bundle
	EventDestroy         EventType = "destroy"          // container destroyed
	EventAttach          EventType = "attach"           // host attached
	EventDetach          EventType = "detach"           // host detached
	EventDropped         EventType = "dropped"          // call ignored after destroy
)

// Event is a single thing that happened to one container instance
type Event struct {
	Container  string            `json:"container"`  // container identity
	Instance   string            `json:"instance"`   // container instance ID (uuid)
	Type       EventType         `json:"type"`       // event type
	Name       string            `json:"name"`       // snapshot type or host name
	Timestamp  time.Time         `json:"timestamp"`  // when the event occurred
	Attributes map[string]string `json:"attributes"` // additional metadata
}

// Sink receives events. Implementations must not block the caller.
type Sink interface {
	Emit(Event)
}

// Nop discards every event.
type Nop struct{}

// Emit implements Sink.
func (Nop) Emit(Event) {}

// multiSink fans events out to several sinks.
type multiSink struct {
	sinks []Sink
}

// Multi returns a Sink that forwards to every non-nil sink.
// A single remaining sink is returned as is.
func Multi(sinks ...Sink) Sink {
	filtered := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	switch len(filtered) {
	case 0:
		return Nop{}
	case 1:
		return filtered[0]
	}
	return &multiSink{sinks: filtered}
}

// safeCall calls fn with panic recovery. One sink failing shouldn't block others.
func safeCall(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}

// Emit implements Sink.
func (m *multiSink) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	for _, s := range m.sinks {
		safeCall(func() { s.Emit(ev) })
	}
}
