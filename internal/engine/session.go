package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/five82/crier/internal/filter"
)

// EditSession tracks unsaved edits made through it. Sessions are not safe
// for concurrent use; the Engine they edit is.
type EditSession struct {
	e               *Engine
	patternsDirty   bool
	visibilityDirty bool
}

// Begin starts an edit session.
func (e *Engine) Begin() *EditSession {
	return &EditSession{e: e}
}

// ReplacePattern replaces one regex of a category. Invalid text returns
// filter.ErrInvalidPattern and leaves both the model and the session as they
// were.
func (s *EditSession) ReplacePattern(tag filter.Tag, index int, text string) error {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	changed, err := s.e.registry.Model().ReplacePattern(tag, index, text)
	if err != nil {
		return err
	}
	if changed {
		s.patternsDirty = true
	}
	return nil
}

// SetVisible sets a visibility flag and marks visibility dirty.
func (s *EditSession) SetVisible(tag filter.Tag, dest int, visible bool) error {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	if err := s.e.registry.SetVisible(tag, dest, visible); err != nil {
		return err
	}
	s.visibilityDirty = true
	return nil
}

// Toggle flips a visibility flag and returns the new value.
func (s *EditSession) Toggle(tag filter.Tag, dest int) (bool, error) {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	current, err := s.e.registry.GetVisible(tag, dest)
	if err != nil {
		return false, err
	}
	if err := s.e.registry.SetVisible(tag, dest, !current); err != nil {
		return current, err
	}
	s.visibilityDirty = true
	return !current, nil
}

// SetGroupColor recolors a group. Colors are saved with the patterns.
func (s *EditSession) SetGroupColor(group, color string) error {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	if err := s.e.registry.Model().SetGroupColor(group, color); err != nil {
		return err
	}
	s.patternsDirty = true
	s.e.publishPalette()
	return nil
}

// Dirty reports which parts have unsaved edits.
func (s *EditSession) Dirty() (patterns, visibility bool) {
	return s.patternsDirty, s.visibilityDirty
}

// Commit saves the dirty parts. Each part is saved independently; a part
// whose save fails stays dirty so Commit can be retried, and the in-memory
// model is never rolled back. Committing with nothing dirty does nothing.
func (s *EditSession) Commit(ctx context.Context) error {
	if !s.patternsDirty && !s.visibilityDirty {
		return nil
	}

	s.e.mu.Lock()
	model := s.e.registry.Model()
	var specs []filter.GroupSpec
	var flags map[string]filter.Visibility
	if s.patternsDirty {
		specs = model.Spec()
	}
	if s.visibilityDirty {
		flags = model.Visibility()
	}
	patterns, visibility := s.e.patterns, s.e.visibility
	s.e.mu.Unlock()

	var errs []error
	if s.patternsDirty {
		switch {
		case patterns == nil:
			errs = append(errs, fmt.Errorf("save patterns: %w", ErrReadOnly))
		default:
			if err := patterns.SavePatterns(ctx, specs); err != nil {
				errs = append(errs, fmt.Errorf("save patterns: %w", err))
			} else {
				s.patternsDirty = false
			}
		}
	}
	if s.visibilityDirty {
		switch {
		case visibility == nil:
			errs = append(errs, fmt.Errorf("save visibility: %w", ErrReadOnly))
		default:
			if err := visibility.SaveVisibility(ctx, flags); err != nil {
				errs = append(errs, fmt.Errorf("save visibility: %w", err))
			} else {
				s.visibilityDirty = false
			}
		}
	}
	return errors.Join(errs...)
}
