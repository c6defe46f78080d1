// Package engine wires classification, visibility, highlighting and
// retention into a single line-processing pipeline.
//
// # Overview
//
// An Engine owns the filter model, the destination registry, the word
// highlighter and the retention buffer. Callers feed it one log line at a
// time with Process. Everything that can change what Process does, such as
// pattern edits, visibility toggles, reloads and destination changes, is a
// method on the same Engine.
//
// # Pipeline
//
//	line ─> Classifier ─> Record
//	           │
//	           └─> for each registered destination with the tag visible:
//	                  Highlighter ─> spans (computed once per line)
//	                  Retention.Record ─> optional eviction
//	                  Sink.Append, then Sink.EvictOldest if evicted
//
// The sink always receives the new entry before the eviction, so a window
// with a limit of N briefly holds N+1 entries of that category and never
// fewer than N. A sink error for one destination is logged, joined into
// Result.Err and does not stop routing to the others.
//
// # Destinations
//
// Destinations passed in Options are registered by New. Windows can come
// and go afterwards:
//
//	id := e.NextDestination()          lowest free id
//	e.RegisterDestination(id, limit)   visible nowhere until toggled
//	e.DeregisterDestination(id)        flags and retention counts dropped
//
// A sink that routes by id must learn about a new destination before
// RegisterDestination returns, and may forget one only after
// DeregisterDestination returns.
//
// # Concurrency
//
// Engine guards all state with one mutex. Process holds it for the whole
// line, so configuration edits, destination changes and reloads never
// interleave with a line in flight. Sinks are called with the lock held and
// must not call back into the Engine.
//
// Reload reads from the Loader without the mutex, so lines keep flowing
// while files are parsed. A second mutex serializes reloads, so when two are
// started the later one is the one left in effect.
//
// # Capabilities
//
// Optional behaviour is discovered once in New by type assertion:
//
//   - Loader may also be a PatternSaver and/or VisibilitySaver
//   - Sink may also be a Clearer and/or Colorable
//
// A Loader with neither saver makes the model read-only: Commit returns
// ErrReadOnly for the parts it cannot write. A Sink without Clearer still
// has its retention counts reset by ClearDestination.
//
// # Palette
//
// Colorable sinks receive a Palette whenever group colors or the word table
// change: at New, after Reload and ReloadWords, and after a group color
// edit. The palette carries group colors by name and word colors by color
// name, so a sink can render spans without holding a reference to the
// engine.
//
// # Edits
//
// EditSession replaces process-wide "modified" flags. The caller edits
// through the session, checks Dirty, and calls Commit to save. Saving
// patterns and saving visibility are independent and idempotent. A failed
// save keeps the in-memory edit and leaves that part dirty, so the user can
// retry.
//
// # Reload
//
// Reload always loads the model and then reconciles it with the registered
// destinations, so persisted flags for destinations that no longer exist
// are dropped and new destinations get an explicit false flag. When the
// Loader fails the current model stays in place.
//
// # Usage Example
//
//	e, err := engine.New(ctx, engine.Options{
//		Loader:       store,
//		Words:        table,
//		Sink:         board,
//		Destinations: []engine.Destination{{ID: 0, Limit: 500}},
//	})
//	if err != nil {
//		return err
//	}
//	res := e.Process("Urist hits the goblin")
package engine
