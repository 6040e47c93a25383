// Package state defines the capabilities a state snapshot can opt into.
//
// Any Go value can be used as a view state or a presenter state. Behaviour
// beyond "a value" is declared through small interfaces:
//
//   - Persistable: whether a presenter state survives a destroy/recreate cycle
//   - DeliveryAware: hooks that bracket a broadcast of a view state
//   - VolatileResource: the state wraps a handle that cannot be persisted
//
// Embed Base (or Transient) to get the default implementations.
//
// Snapshots are immutable by contract. Containers never copy them, so observers
// must not mutate what they receive.
package state

// Persistable reports whether a snapshot should be kept for persistence.
// Values that do not implement it are persisted.
type Persistable interface {
	NeedsPersistence() bool
}

// DeliveryAware is implemented by view states that want to observe their own
// broadcast. BeforeStateReceived runs once before any observer sees the state,
// AfterStateReceived once after every observer has.
type DeliveryAware interface {
	BeforeStateReceived()
	AfterStateReceived()
}

// VolatileResource is implemented by view states holding a resource that cannot
// be persisted (a live handle, a decoded image, an open stream). After
// recreation the resource may be gone; ResourceEmpty reports that.
type VolatileResource interface {
	ResourceEmpty() bool
}

// Base provides no-op delivery hooks and NeedsPersistence() == true.
//
// Example:
//
//	type Loaded struct {
//	    state.Base
//	    Count int
//	}
type Base struct{}

// BeforeStateReceived is a no-op default.
func (Base) BeforeStateReceived() {}

// AfterStateReceived is a no-op default.
func (Base) AfterStateReceived() {}

// NeedsPersistence returns true.
func (Base) NeedsPersistence() bool { return true }

// Transient is Base for snapshots that must not be persisted, such as one-off
// commands that should not be replayed after process death.
type Transient struct {
	Base
}

// NeedsPersistence returns false.
func (Transient) NeedsPersistence() bool { return false }

var (
	_ Persistable   = Base{}
	_ DeliveryAware = Base{}
	_ Persistable   = Transient{}
)

// NeedsPersistence reports whether v should be persisted. Values that do not
// implement Persistable default to true.
func NeedsPersistence(v any) bool {
	if p, ok := v.(Persistable); ok {
		return p.NeedsPersistence()
	}
	return true
}

// ResourceMissing reports whether v declares a volatile resource that is
// currently empty.
func ResourceMissing(v any) bool {
	r, ok := v.(VolatileResource)
	return ok && r.ResourceEmpty()
}
