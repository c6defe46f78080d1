// Package filterstore persists the filter model on disk.
//
// # Overview
//
// Store implements the engine's Loader, PatternSaver and VisibilitySaver
// over two files:
//
//	filters file     groups, colors, categories and patterns
//	visibility file  which window shows which category
//
// Keeping the flags apart means toggling a category in one window does not
// rewrite the pattern file, which users often keep under version control.
//
// # Filters File
//
// The filters file is TOML, or YAML when its name ends in .yaml or .yml:
//
//	[[group]]
//	name = "Combat"
//	color = "#FF5555"
//
//	  [[group.category]]
//	  name = "Hit"
//	  patterns = ['hits?\b']
//	  show = { "0" = true }
//
// A missing filters file loads as an empty model and logs a warning, so a
// first run starts without error. Inline show tables are read for
// compatibility but SavePatterns drops them.
//
// # Visibility File
//
// The visibility file is always TOML, keyed by "Group.Category":
//
//	["Combat.Hit"]
//	0 = true
//	1 = false
//
// Flags found here override any inline show table for the same category.
// A missing visibility file leaves the inline flags in place.
//
// # Writes
//
// Saves go through a temporary file in the target directory followed by a
// rename, so a reader never sees a half-written file. Content identical to
// what is already on disk is not rewritten at all, which keeps file
// watchers quiet when nothing changed.
//
// # Change Detection
//
// The store records a SHA-256 of every file it reads or writes. Stale
// reports whether a path now holds something else:
//
//	own save        hash matches   Stale = false, no reload
//	editor save     hash differs   Stale = true,  reload
//	file removed    was known      Stale = true
//
// Watch reports writes, creates and renames of the given files. It watches
// their parent directories so atomic replacement by editors is seen, and
// debounces bursts by 250 ms. The runtime combines the two: Watch says a file
// changed, Stale says whether crier itself changed it.
//
// # Concurrency
//
// Store is safe for concurrent use. The hash table is guarded by a mutex;
// file reads and writes happen outside it.
package filterstore
