// Package ui hosts the sample screens in a Bubble Tea program.
//
// Core abstractions:
//   - View: a screen or region with its own update and render (Elm-style)
//   - Screen: a View whose state lives in a presenter container, driven
//     through a lifecycle bridge
//   - ScreenStack: push/pop navigation that detaches covered screens and
//     destroys popped ones
//   - Scheduler: runs presenter work as tea.Cmds and applies the results
//     back on the event loop
//
// The whole stack is saved to a store on quit and restored on start.
package ui
