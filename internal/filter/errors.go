package filter

import "errors"

var (
	// ErrInvalidPattern reports regex text that failed to compile. The
	// previously compiled pattern is kept.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrPatternIndex reports a pattern index outside a category's list.
	ErrPatternIndex = errors.New("pattern index out of range")

	ErrUnknownGroup         = errors.New("unknown group")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrDuplicateGroup       = errors.New("duplicate group")
	ErrDuplicateCategory    = errors.New("duplicate category")
	ErrDuplicateDestination = errors.New("duplicate destination")
	ErrUnknownDestination   = errors.New("unknown destination")
	ErrInvalidDestination   = errors.New("invalid destination")
)
