package lifecycle

import (
	"errors"

	"statehost/internal/bundle"
)

// Child is a nested component's lifecycle as seen by its parent host.
type Child interface {
	Save(out bundle.Writer) error
	Destroy() error
}

// Owner is the lifecycle of a parent host. Nested component bridges register
// with it (Bridge.AttachTo) and are saved and destroyed with the parent.
type Owner struct {
	children  []Child
	destroyed bool
}

// NewOwner creates an Owner with no children.
func NewOwner() *Owner {
	return &Owner{}
}

// Observe registers c. Returns a function that removes it again.
// Observing a destroyed owner destroys c right away.
func (o *Owner) Observe(c Child) func() {
	if o.destroyed {
		_ = c.Destroy()
		return func() {}
	}
	o.children = append(o.children, c)
	return func() {
		for i, existing := range o.children {
			if existing == c {
				o.children = append(o.children[:i:i], o.children[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of registered children.
func (o *Owner) Len() int { return len(o.children) }

// Destroyed reports whether Destroy has been called.
func (o *Owner) Destroyed() bool { return o.destroyed }

// Save writes every child's state into out. All children are saved even if
// some fail; the failures are joined.
func (o *Owner) Save(out bundle.Writer) error {
	var errs []error
	for _, c := range o.snapshot() {
		if err := c.Save(out); err != nil && !errors.Is(err, ErrDestroyed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Destroy destroys every child, most recently registered first.
func (o *Owner) Destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	children := o.snapshot()
	for i := len(children) - 1; i >= 0; i-- {
		_ = children[i].Destroy()
	}
	o.children = nil
}

func (o *Owner) snapshot() []Child {
	out := make([]Child, len(o.children))
	copy(out, o.children)
	return out
}
