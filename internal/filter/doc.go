// Package filter holds the classification model for announcements.
//
// # Overview
//
// A Model is an ordered list of Groups. Each Group has a display color and an
// ordered list of Categories. Each Category owns an ordered list of compiled
// regular expressions and a Visibility map from destination id to a routing
// flag. A Tag names one category as Group.Category and is the key every
// other package uses: the engine routes by it, retention counts by it and
// the visibility file is keyed by its String form.
//
// # Building a Model
//
// NewModel takes plain GroupSpec values, the shape decoded from the filters
// file, and compiles them:
//
//   - group and category names are trimmed and must be non-empty
//   - a group name may appear once, and a category name once per group
//   - a group without a color gets #808080
//   - every pattern must compile, or NewModel fails with ErrInvalidPattern
//   - inline show tables are normalized into a fresh Visibility
//
// Spec reverses the process. NewModel(m.Spec()...) yields an equal model, so
// the store can save whatever the editor produced without a second format.
//
// # Classification
//
// Classifier.Classify walks groups in order, categories in order, and
// patterns in order. The first pattern that matches wins:
//
//	line ─> group 1 ─> category 1 ─> pattern 1, 2, ...
//	                ─> category 2 ─> ...
//	     ─> group 2 ─> ...
//
// A pattern may name a capture group "body"; when it participates in the
// match, its text becomes Record.Body, otherwise Body is the whole line.
// Lines that match nothing are dropped, not reported as errors. The
// classifier keeps no state between lines and reads the model each call, so
// pattern edits apply to the next line.
//
// # Editing
//
// ReplacePattern swaps one pattern by index. The new text is compiled first
// and the old pattern stays when compilation fails, so a typo in the editor
// never leaves a category without its regex. SetGroupColor changes the color
// used for the group's announcements.
//
// # Destinations
//
// Registry owns the live destination set. After every Registry call, each
// category's Visibility map holds exactly one flag per live destination:
//
//	RegisterDestination(3)   adds key 3 (false) where missing
//	DeregisterDestination(3) removes key 3 everywhere
//	Reconcile([0 1 2])       prunes and extends every map to {0,1,2}
//
// Reconcile must follow every reload of the model from disk, since the
// persisted flags can name destinations that no longer exist. It preserves
// the flags of destinations that are still live and is idempotent, so
// repeated reloads never grow the maps. NextDestination returns the lowest
// free id, which lets a closed window's id be reused by the next one opened.
//
// # Normalization
//
// NormalizeVisibility accepts maps decoded from configuration files, where
// keys are strings and values may be "true", "True", "1" or real booleans,
// and returns canonical int keys with bool values. Keys that are not
// non-negative integers are dropped. It always allocates a new map, so no
// two categories share flag storage. Raw converts back to the string-keyed
// form the TOML encoder writes.
//
// # Errors
//
// Failures a caller may act on wrap a sentinel from errors.go, so they can
// be tested with errors.Is:
//
//	ErrInvalidPattern        regex did not compile
//	ErrPatternIndex          index past the category's patterns
//	ErrUnknownGroup          group not in the model
//	ErrUnknownCategory       category not in the model
//	ErrDuplicateGroup        group name reused in a spec
//	ErrDuplicateCategory     category name reused within a group
//	ErrDuplicateDestination  id already registered
//	ErrUnknownDestination    id not registered
//	ErrInvalidDestination    negative id
//
// # Concurrency
//
// Nothing in this package is safe for concurrent use. The engine package
// serializes access with one exclusive section per operation.
//
// # Usage Example
//
//	model, err := filter.NewModel(filter.GroupSpec{
//		Name:  "Combat",
//		Color: "#FF5555",
//		Categories: []filter.CategorySpec{{
//			Name:     "Hit",
//			Patterns: []string{`^(?P<body>.* hits .*)$`},
//			Show:     map[string]any{"0": true},
//		}},
//	})
//	if err != nil {
//		return err
//	}
//	rec, ok := filter.NewClassifier(model).Classify("Urist hits the goblin")
package filter
