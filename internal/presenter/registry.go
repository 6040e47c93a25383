package presenter

import "reflect"

// Observer receives view state snapshots. Observers are held by identity, so
// implementations must be comparable; use pointer receivers. Registry
// refuses observers that are not.
type Observer[V any] interface {
	OnModelUpdated(view V)
}

// Registry is an ordered set of observers. Iteration follows insertion order.
// Not safe for concurrent use.
type Registry[V any] struct {
	order []Observer[V]
	index map[Observer[V]]struct{}
}

// Add inserts o and reports whether it was newly added. Non-comparable
// observers are never added.
func (r *Registry[V]) Add(o Observer[V]) bool {
	if !hashable(o) {
		return false
	}
	if r.index == nil {
		r.index = make(map[Observer[V]]struct{})
	}
	if _, ok := r.index[o]; ok {
		return false
	}
	r.index[o] = struct{}{}
	r.order = append(r.order, o)
	return true
}

// Remove deletes o and reports whether it was present.
func (r *Registry[V]) Remove(o Observer[V]) bool {
	if !hashable(o) {
		return false
	}
	if _, ok := r.index[o]; !ok {
		return false
	}
	delete(r.index, o)
	for i, existing := range r.order {
		if existing == o {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether o is registered.
func (r *Registry[V]) Contains(o Observer[V]) bool {
	if !hashable(o) {
		return false
	}
	_, ok := r.index[o]
	return ok
}

// Len returns the number of registered observers.
func (r *Registry[V]) Len() int {
	return len(r.order)
}

// Snapshot returns a copy of the observers in insertion order. Broadcasts
// iterate a snapshot so observers may (un)subscribe while being notified.
func (r *Registry[V]) Snapshot() []Observer[V] {
	out := make([]Observer[V], len(r.order))
	copy(out, r.order)
	return out
}

// hashable reports whether o can be used as a map key without panicking.
func hashable[V any](o Observer[V]) bool {
	return o != nil && reflect.ValueOf(o).Comparable()
}
