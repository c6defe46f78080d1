// Package ui is crier's terminal interface, built on Bubble Tea.
//
// # Architecture
//
// Board is the engine sink: it stores each window's announcements and is
// written from the feeder goroutine while the engine holds its lock. Model
// reads the board on every tick and re-renders the active window only when
// the board reports a new version for it.
//
// # Windows
//
// Each window shows one engine destination. The configured windows start as
// destinations 0 through n-1. Pressing n opens a window on the lowest free
// destination and X closes the active one:
//
//	open   board.AddWindow(id), then engine.RegisterDestination(id, trim)
//	close  engine.DeregisterDestination(id), then board.RemoveWindow(id)
//
// The order means the engine never routes to a window the board lacks.
// A new window shows nothing until categories are toggled on for it.
//
// # Edits
//
// Category visibility edits, pattern edits and group colors go through one
// engine.EditSession so that "unsaved" in the header reflects exactly what
// s would write. Window titles and the theme are preferences and are saved
// immediately.
//
// # Rendering
//
// The tag prefix is drawn in the theme's text color and the announcement
// body in its group's color. Highlighted words override the body color with
// their own foreground and background.
package ui
