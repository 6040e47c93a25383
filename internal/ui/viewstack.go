package ui

import (
	"errors"

	"statehost/internal/bundle"
)

// ScreenStack manages navigation between screens. Only the top screen is
// attached; pushing detaches the screen underneath and popping destroys the
// top and reattaches the one below.
type ScreenStack struct {
	Stack []Screen
}

// Push detaches the current top and attaches s with saved state (may be nil).
func (s *ScreenStack) Push(screen Screen, saved bundle.Reader) error {
	if top := s.Peek(); top != nil {
		if err := top.Detach(); err != nil {
			return err
		}
	}
	if err := screen.Attach(saved); err != nil {
		return err
	}
	s.Stack = append(s.Stack, screen)
	return nil
}

// Pop destroys the top screen and reattaches the one below it.
// Returns nil if the stack is empty.
func (s *ScreenStack) Pop() (Screen, error) {
	if len(s.Stack) == 0 {
		return nil, nil
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	err := top.Destroy()
	if next := s.Peek(); next != nil {
		err = errors.Join(err, next.Attach(nil))
	}
	return top, err
}

// Peek returns the top screen without removing it.
func (s *ScreenStack) Peek() Screen {
	if len(s.Stack) == 0 {
		return nil
	}
	return s.Stack[len(s.Stack)-1]
}

// Len returns the number of screens in the stack.
func (s *ScreenStack) Len() int {
	return len(s.Stack)
}

// IDs returns the screen identities from bottom to top.
func (s *ScreenStack) IDs() []string {
	ids := make([]string, len(s.Stack))
	for i, screen := range s.Stack {
		ids[i] = screen.ID()
	}
	return ids
}

// Save writes every screen's state into out, bottom first.
func (s *ScreenStack) Save(out bundle.Writer) error {
	var errs []error
	for _, screen := range s.Stack {
		if err := screen.Save(out); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DestroyAll destroys every screen, top first, and empties the stack.
func (s *ScreenStack) DestroyAll() error {
	var errs []error
	for i := len(s.Stack) - 1; i >= 0; i-- {
		if err := s.Stack[i].Destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	s.Stack = nil
	return errors.Join(errs...)
}
