// Package presenter provides Container, the state holder behind a screen or a
// nested component.
//
// A Container owns two slots: the current view state (pushed to observers)
// and the current presenter state (the last transition request, persisted so
// it can be replayed after process death). Business logic is supplied as
// Hooks rather than by embedding:
//
//	c := presenter.New[View, Request]("screens.first", presenter.Hooks[View, Request]{
//	    OnStateUpdated: func(c *presenter.Container[View, Request], req Request) {
//	        c.UpdateViewState(View{Loading: true})
//	    },
//	})
//	c.Subscribe(host)
//	c.UpdateState(Request{Kind: "click"})
//
// Containers are NOT thread-safe. Every method must be called from the host's
// event thread; asynchronous work must hand its result back to that thread
// before calling UpdateState or UpdateViewState, and should check Destroyed
// first.
package presenter

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"statehost/internal/bundle"
	"statehost/internal/state"
	"statehost/internal/trace"
)

// Hooks are the business-logic extension points of a Container. Every field
// is optional.
type Hooks[V, P any] struct {
	// OnStateUpdated runs for every UpdateState call, including the replay
	// performed by RestoreState. It typically calls UpdateViewState.
	OnStateUpdated func(c *Container[V, P], presenter P)
	// OnSubscribed runs after every Subscribe.
	OnSubscribed func(c *Container[V, P])
	// OnUnsubscribed runs after every Unsubscribe.
	OnUnsubscribed func(c *Container[V, P])
	// OnNonSerializableEmpty runs instead of delivering a view state whose
	// volatile resource is gone. It should recreate the resource and call
	// UpdateViewState again.
	OnNonSerializableEmpty func(c *Container[V, P], view V)
	// OnDestroy releases container-owned resources.
	OnDestroy func(c *Container[V, P])
}

// Container holds one view state and one presenter state and notifies
// observers of view state changes.
type Container[V, P any] struct {
	identity string
	instance string
	hooks    Hooks[V, P]

	viewCodec      bundle.Codec[V]
	presenterCodec bundle.Codec[P]

	log  zerolog.Logger
	sink trace.Sink

	observers Registry[V]

	view         V
	hasView      bool
	presenter    P
	hasPresenter bool

	// pending holds view states queued while a broadcast is in progress, so
	// every observer sees updates in call order.
	pending     []viewUpdate[V]
	dispatching bool
	destroyed   bool
}

// New creates an empty container. identity namespaces the container's slots
// in a bundle and must be stable across process restarts.
func New[V, P any](identity string, hooks Hooks[V, P], opts ...Option) *Container[V, P] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	instance := uuid.NewString()
	c := &Container[V, P]{
		identity: identity,
		instance: instance,
		hooks:    hooks,
		sink:     s.sink,
		log: s.log.With().
			Str("container", identity).
			Str("instance", instance).
			Logger(),
	}

	viewCodec, err := bundle.CodecFor[V](s.codec)
	if err != nil {
		c.log.Warn().Err(err).Msg("falling back to json codec")
		viewCodec = bundle.JSONCodec[V]{}
	}
	presenterCodec, err := bundle.CodecFor[P](s.codec)
	if err != nil {
		presenterCodec = bundle.JSONCodec[P]{}
	}
	c.viewCodec = viewCodec
	c.presenterCodec = presenterCodec
	return c
}

// SetCodecs replaces the codecs used by SaveInstanceState and RestoreState.
// Nil arguments keep the current codec.
func (c *Container[V, P]) SetCodecs(view bundle.Codec[V], presenter bundle.Codec[P]) {
	if view != nil {
		c.viewCodec = view
	}
	if presenter != nil {
		c.presenterCodec = presenter
	}
}

// Identity returns the identity token given to New.
func (c *Container[V, P]) Identity() string { return c.identity }

// InstanceID returns the random ID of this container instance.
func (c *Container[V, P]) InstanceID() string { return c.instance }

// ViewState returns the current view state and whether one is held.
func (c *Container[V, P]) ViewState() (V, bool) { return c.view, c.hasView }

// PresenterState returns the persisted presenter state and whether one is held.
func (c *Container[V, P]) PresenterState() (P, bool) { return c.presenter, c.hasPresenter }

// ObserverCount returns the number of subscribed observers.
func (c *Container[V, P]) ObserverCount() int { return c.observers.Len() }

// Destroyed reports whether Destroy has run. Asynchronous completions should
// be dropped when it returns true.
func (c *Container[V, P]) Destroyed() bool { return c.destroyed }

// Subscribe adds o. A newly added observer immediately receives the current
// view state, unless that state's volatile resource is gone, in which case
// OnNonSerializableEmpty runs instead. OnSubscribed always runs afterwards.
func (c *Container[V, P]) Subscribe(o Observer[V]) {
	if c.dropped("subscribe") || o == nil {
		return
	}
	if !hashable(o) {
		c.log.Warn().Str("op", "subscribe").Str("observer", fmt.Sprintf("%T", o)).
			Msg("observer is not comparable, ignoring")
		return
	}
	added := c.observers.Add(o)
	c.emit(trace.EventSubscribe, "", map[string]string{
		"added":     strconv.FormatBool(added),
		"observers": strconv.Itoa(c.observers.Len()),
	})

	if added && c.hasView {
		if state.ResourceMissing(c.view) {
			c.log.Debug().Str("op", "subscribe").Msg("view state resource missing, requesting recovery")
			c.emit(trace.EventResourceMissing, typeName(c.view), nil)
			if c.hooks.OnNonSerializableEmpty != nil {
				c.hooks.OnNonSerializableEmpty(c, c.view)
			}
		} else {
			o.OnModelUpdated(c.view)
		}
	}

	if c.hooks.OnSubscribed != nil {
		c.hooks.OnSubscribed(c)
	}
}

// Unsubscribe removes o. OnUnsubscribed always runs afterwards.
func (c *Container[V, P]) Unsubscribe(o Observer[V]) {
	if c.dropped("unsubscribe") {
		return
	}
	c.observers.Remove(o)
	c.emit(trace.EventUnsubscribe, "", map[string]string{
		"observers": strconv.Itoa(c.observers.Len()),
	})
	if c.hooks.OnUnsubscribed != nil {
		c.hooks.OnUnsubscribed(c)
	}
}

// UpdateViewState replaces the view state and broadcasts it to every
// observer. A nil view (pointer, interface, map, slice) clears the slot; the
// broadcast still happens but the delivery hooks are skipped.
//
// Calls made from inside a broadcast are queued and delivered after it.
func (c *Container[V, P]) UpdateViewState(view V) {
	c.enqueue(viewUpdate[V]{view: view, present: !state.Absent(view)})
}

// ClearViewState drops the view state and broadcasts the zero value.
func (c *Container[V, P]) ClearViewState() {
	var zero V
	c.enqueue(viewUpdate[V]{view: zero})
}

type viewUpdate[V any] struct {
	view    V
	present bool
}

func (c *Container[V, P]) enqueue(u viewUpdate[V]) {
	if c.dropped("update_view") {
		return
	}
	c.pending = append(c.pending, u)
	if c.dispatching {
		return
	}

	c.dispatching = true
	defer func() {
		c.dispatching = false
		c.pending = nil
	}()
	for len(c.pending) > 0 && !c.destroyed {
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.assignAndBroadcast(next)
	}
}

func (c *Container[V, P]) assignAndBroadcast(u viewUpdate[V]) {
	c.view = u.view
	c.hasView = u.present

	observers := c.observers.Snapshot()
	c.log.Debug().
		Str("op", "update_view").
		Str("state", typeName(u.view)).
		Int("observers", len(observers)).
		Msg("broadcast view state")
	c.emit(trace.EventViewUpdate, typeName(u.view), map[string]string{
		"observers": strconv.Itoa(len(observers)),
	})

	aware, _ := any(u.view).(state.DeliveryAware)
	if !u.present {
		aware = nil
	}
	if aware != nil {
		aware.BeforeStateReceived()
	}
	for _, o := range observers {
		// Skip observers unsubscribed by an earlier observer in this broadcast.
		if !c.observers.Contains(o) {
			continue
		}
		o.OnModelUpdated(u.view)
	}
	if aware != nil {
		aware.AfterStateReceived()
	}
}

// UpdateState is the single entry point for presenter state transitions. A
// non-nil state that needs persistence is kept for SaveInstanceState;
// OnStateUpdated runs in every case.
func (c *Container[V, P]) UpdateState(presenter P) {
	if c.dropped("update_state") {
		return
	}
	persisted := false
	if !state.Absent(presenter) && state.NeedsPersistence(presenter) {
		c.presenter = presenter
		c.hasPresenter = true
		persisted = true
	}
	c.log.Debug().
		Str("op", "update_state").
		Str("state", typeName(presenter)).
		Bool("persisted", persisted).
		Msg("presenter state transition")
	c.emit(trace.EventStateUpdate, typeName(presenter), map[string]string{
		"persisted": strconv.FormatBool(persisted),
	})

	if c.hooks.OnStateUpdated != nil {
		c.hooks.OnStateUpdated(c, presenter)
	}
}

// RestoreState rehydrates empty slots from b. A restored view state is
// adopted silently; a restored presenter state is replayed through
// UpdateState. Slots that fail to decode are treated as absent.
func (c *Container[V, P]) RestoreState(b bundle.Reader) {
	if c.dropped("restore") || b == nil {
		return
	}

	restoredView := false
	if !c.hasView {
		view, ok, err := bundle.Read(b, bundle.ViewStateKey(c.identity), c.viewCodec)
		if err != nil {
			c.log.Warn().Err(err).Str("op", "restore").Msg("discarding persisted view state")
		}
		if ok && !state.Absent(view) {
			c.view = view
			c.hasView = true
			restoredView = true
		}
	}

	var replay *P
	if !c.hasPresenter {
		presenter, ok, err := bundle.Read(b, bundle.PresenterStateKey(c.identity), c.presenterCodec)
		if err != nil {
			c.log.Warn().Err(err).Str("op", "restore").Msg("discarding persisted presenter state")
		}
		if ok && !state.Absent(presenter) {
			replay = &presenter
		}
	}

	c.emit(trace.EventRestore, "", map[string]string{
		"view":      strconv.FormatBool(restoredView),
		"presenter": strconv.FormatBool(replay != nil),
	})
	if replay != nil {
		c.UpdateState(*replay)
	}
}

// SaveInstanceState writes both slots to w when a view state is held. An
// absent presenter state is written as an empty slot. A nil w (or nil
// bundle.Bundle) yields bundle.ErrNilBundle.
func (c *Container[V, P]) SaveInstanceState(w bundle.Writer) error {
	if c.destroyed || !c.hasView {
		return nil
	}
	if err := bundle.Writable(w); err != nil {
		return fmt.Errorf("save %s: %w", c.identity, err)
	}
	if err := bundle.Write(w, bundle.ViewStateKey(c.identity), c.viewCodec, c.view); err != nil {
		return fmt.Errorf("save %s: %w", c.identity, err)
	}
	if c.hasPresenter {
		if err := bundle.Write(w, bundle.PresenterStateKey(c.identity), c.presenterCodec, c.presenter); err != nil {
			return fmt.Errorf("save %s: %w", c.identity, err)
		}
	} else {
		bundle.WriteEmpty(w, bundle.PresenterStateKey(c.identity))
	}
	c.emit(trace.EventSave, typeName(c.view), map[string]string{
		"presenter": strconv.FormatBool(c.hasPresenter),
	})
	return nil
}

// Destroy runs OnDestroy and makes the container inert. It is idempotent.
func (c *Container[V, P]) Destroy() {
	if c.destroyed {
		return
	}
	if c.hooks.OnDestroy != nil {
		c.hooks.OnDestroy(c)
	}
	c.destroyed = true
	c.observers = Registry[V]{}
	c.pending = nil
	c.log.Debug().Str("op", "destroy").Msg("container destroyed")
	c.emit(trace.EventDestroy, "", nil)
}

func (c *Container[V, P]) dropped(op string) bool {
	if !c.destroyed {
		return false
	}
	c.log.Debug().Str("op", op).Msg("ignoring call on destroyed container")
	c.emit(trace.EventDropped, "", map[string]string{"op": op})
	return true
}

func (c *Container[V, P]) emit(typ trace.EventType, name string, attrs map[string]string) {
	c.sink.Emit(trace.Event{
		Container:  c.identity,
		Instance:   c.instance,
		Type:       typ,
		Name:       name,
		Attributes: attrs,
	})
}

func typeName(v any) string {
	if state.Absent(v) {
		return "<nil>"
	}
	return fmt.Sprintf("%T", v)
}
