// Package app is the composition root for crier.
//
// # Overview
//
// It loads config.toml, builds the filter store, word table and engine,
// and connects them to a front end: the Bubble Tea UI (Run), a plain
// stream on stdout (Tail), or a bare engine for one-shot classification
// (Classify). Every front end shares the same Runtime.
//
// # Startup
//
//  1. Load ~/.config/crier/config.toml, falling back to defaults
//  2. Resolve the log encoding and the filters, visibility and words files
//  3. Build the engine with one destination per [[window]], limit = trim
//  4. Replay the last load_previous lines of the log
//  5. Start the feeder, the config watcher and the metrics server
//  6. Hand control to the front end until the user quits or ctx ends
//
// # Data Flow
//
//	┌──────────────┐   Poll    ┌──────────┐  Process  ┌──────────┐
//	│ logtail      │ ────────> │ Feeder   │ ────────> │ engine   │
//	│ Follower     │           └────┬─────┘           └────┬─────┘
//	└──────────────┘                │ Observe              │ Append / EvictOldest
//	                                v                      v
//	                     state.Store, metrics      ui.Board or render.Writer
//
// The feeder owns the only goroutine that calls Process. The UI reads
// state snapshots and board entries on its own tick.
//
// # Error Handling
//
// Fatal errors are returned from Run and Tail: an unreadable config file,
// a filters file that does not parse, an unknown log encoding.
//
// Log read failures are recorded in the state store and retried with
// exponential backoff, capped at 30 seconds. Reload failures keep the
// previous model and are reported to the caller and counted in metrics.
//
// # Config Watching
//
// With watch_config on, changes to the filters, visibility or words files
// trigger a reload. The filter store remembers what it last wrote, so the
// UI's own saves do not reload and discard edits made since.
package app
