package ui

// PushScreenMsg asks the app to open the screen with the given identity.
type PushScreenMsg struct {
	ID string
}

// PopScreenMsg asks the app to close the top screen.
type PopScreenMsg struct{}

// SavedMsg reports the outcome of persisting the session.
type SavedMsg struct {
	Err error
}
