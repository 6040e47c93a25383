package lifecycle

import (
	"fmt"

	"github.com/rs/zerolog"

	"statehost/internal/bundle"
	"statehost/internal/presenter"
	"statehost/internal/trace"
)

// Bridge connects one host to a presenter.Container, translating host
// lifecycle signals into Subscribe, Unsubscribe, RestoreState,
// SaveInstanceState and Destroy calls. Not safe for concurrent use; drive it
// from the host's event loop.
type Bridge[V, P any] struct {
	host    presenter.Observer[V]
	factory func() *presenter.Container[V, P]
	opts    bridgeSettings

	state     State
	container *presenter.Container[V, P]
	log       zerolog.Logger

	owner       *Owner
	removeOwner func()
}

// NewBridge creates an unattached bridge for host. factory builds a fresh
// container when neither the bridge nor its retainer holds one.
func NewBridge[V, P any](host presenter.Observer[V], factory func() *presenter.Container[V, P], opts ...BridgeOption) *Bridge[V, P] {
	s := bridgeSettings{
		policy: Retain,
		log:    zerolog.Nop(),
		sink:   trace.Nop{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &Bridge[V, P]{
		host:    host,
		factory: factory,
		opts:    s,
		state:   Unattached,
		log:     s.log.With().Str("component", "bridge").Str("key", s.key).Logger(),
	}
}

// State returns the bridge's lifecycle state.
func (b *Bridge[V, P]) State() State { return b.state }

// Container returns the container the bridge currently references, or nil.
func (b *Bridge[V, P]) Container() *presenter.Container[V, P] { return b.container }

// Attach subscribes the host. The container is the bridge's own, else the
// retained one, else a new one restored from saved (which may be nil).
func (b *Bridge[V, P]) Attach(saved bundle.Reader) error {
	switch b.state {
	case Destroyed:
		return ErrDestroyed
	case Attached:
		return ErrInvalidTransition
	}

	c := b.container
	source := "bridge"
	if c == nil {
		c = b.retained()
		source = "retainer"
	}
	if c == nil {
		c = b.factory()
		c.RestoreState(saved)
		source = "factory"
	}
	b.container = c
	if b.opts.retainer != nil {
		b.opts.retainer.Put(b.opts.key, c)
	}

	c.Subscribe(b.host)
	b.state = Attached
	b.log.Debug().Str("source", source).Str("container", c.Identity()).Msg("attached")
	b.emit(trace.EventAttach, map[string]string{"source": source})
	return nil
}

// Detach unsubscribes the host. Under Discard the bridge forgets its
// container, and destroys it when no retainer holds it.
func (b *Bridge[V, P]) Detach() error {
	switch b.state {
	case Destroyed:
		return ErrDestroyed
	case Attached:
	default:
		return ErrInvalidTransition
	}

	b.emit(trace.EventDetach, map[string]string{"policy": b.opts.policy.String()})
	b.container.Unsubscribe(b.host)
	if b.opts.policy == Discard {
		if b.opts.retainer == nil {
			// nothing can reach it again
			b.container.Destroy()
		}
		b.container = nil
	}
	b.state = Detached
	b.log.Debug().Str("policy", b.opts.policy.String()).Msg("detached")
	return nil
}

// Destroy ends the bridge. The container is destroyed and removed from the
// retainer; further calls return ErrDestroyed.
func (b *Bridge[V, P]) Destroy() error {
	if b.state == Destroyed {
		return ErrDestroyed
	}

	c := b.container
	if c == nil {
		c = b.retained()
	}
	if c != nil {
		if b.state == Attached {
			c.Unsubscribe(b.host)
		}
		c.Destroy()
	}
	if b.opts.retainer != nil {
		b.opts.retainer.Remove(b.opts.key)
	}
	if b.removeOwner != nil {
		b.removeOwner()
		b.removeOwner = nil
	}
	b.container = nil
	b.owner = nil
	b.state = Destroyed
	b.log.Debug().Msg("destroyed")
	return nil
}

// Save writes the container's state into out. A detached Discard bridge
// saves through its retainer, or saves nothing if there is none.
func (b *Bridge[V, P]) Save(out bundle.Writer) error {
	switch b.state {
	case Destroyed:
		return ErrDestroyed
	case Unattached:
		return ErrNotAttached
	}
	c := b.container
	if c == nil {
		c = b.retained()
	}
	if c == nil {
		return nil
	}
	return c.SaveInstanceState(out)
}

// AttachTo attaches the bridge and registers it with owner, so that the
// owner's Save and Destroy reach it.
func (b *Bridge[V, P]) AttachTo(owner *Owner, saved bundle.Reader) error {
	if err := b.Attach(saved); err != nil {
		return err
	}
	if b.owner != owner {
		if b.removeOwner != nil {
			b.removeOwner()
		}
		b.owner = owner
		b.removeOwner = owner.Observe(b)
	}
	return nil
}

func (b *Bridge[V, P]) retained() *presenter.Container[V, P] {
	if b.opts.retainer == nil {
		return nil
	}
	v, ok := b.opts.retainer.Get(b.opts.key)
	if !ok {
		return nil
	}
	c, ok := v.(*presenter.Container[V, P])
	if !ok {
		b.log.Warn().Str("type", fmt.Sprintf("%T", v)).Msg("retained container has the wrong type, ignoring")
		return nil
	}
	if c.Destroyed() {
		b.opts.retainer.Remove(b.opts.key)
		return nil
	}
	return c
}

func (b *Bridge[V, P]) emit(typ trace.EventType, attrs map[string]string) {
	ev := trace.Event{
		Type:       typ,
		Name:       b.opts.key,
		Attributes: attrs,
	}
	if b.container != nil {
		ev.Container = b.container.Identity()
		ev.Instance = b.container.InstanceID()
	}
	b.opts.sink.Emit(ev)
}
