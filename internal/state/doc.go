// Package state shares feeder activity between the feeder goroutine and
// the UI.
//
// The feeder calls Observe for every processed line and ReadResult after
// every poll of the log. The UI reads Snapshot on its own schedule to draw
// the status bar. Snapshots are copies, so the UI may hold one while the
// feeder keeps writing.
//
// A failed read keeps all counters and records the error. After two failed
// reads in a row IsOffline reports true; the next successful read clears it.
//
// The zero Store is ready to use.
package state
