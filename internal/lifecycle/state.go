// Package lifecycle binds state containers to the lifecycle of the host that
// displays them.
//
// A Bridge follows one host through
//
//	Unattached -> Attached -> [Detached -> Attached]* -> Destroyed
//
// Full-screen hosts keep their container across a detach (Retain). Nested
// components are cheap to rebuild and drop their reference (Discard); their
// container lives on in a Retainer owned by something longer-lived, or is
// rebuilt from the saved bundle.
//
// Owner lets a parent host fan save and destroy signals out to the bridges
// of its nested components.
package lifecycle

import "errors"

var (
	// ErrDestroyed is returned by every Bridge method after Destroy.
	ErrDestroyed = errors.New("lifecycle: bridge destroyed")
	// ErrInvalidTransition is returned for out-of-order lifecycle signals.
	ErrInvalidTransition = errors.New("lifecycle: invalid transition")
	// ErrNotAttached is returned by Save before the first Attach.
	ErrNotAttached = errors.New("lifecycle: bridge not attached")
)

// State is the position of a bridge in its lifecycle.
type State int

const (
	Unattached State = iota
	Attached
	Detached
	Destroyed
)

func (s State) String() string {
	switch s {
	case Unattached:
		return "unattached"
	case Attached:
		return "attached"
	case Detached:
		return "detached"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Policy decides what a bridge does with its container on Detach.
type Policy int

const (
	// Retain keeps the container on the bridge across a detach.
	Retain Policy = iota
	// Discard drops the bridge's reference on detach.
	Discard
)

func (p Policy) String() string {
	switch p {
	case Retain:
		return "retain"
	case Discard:
		return "discard"
	default:
		return "unknown"
	}
}
