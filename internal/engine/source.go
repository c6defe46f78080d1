package engine

import (
	"context"

	"github.com/five82/crier/internal/filter"
)

// Loader reads the pattern model, including persisted visibility flags.
type Loader interface {
	Load(ctx context.Context) (*filter.Model, error)
}

// PatternSaver persists groups, colors and regex patterns.
type PatternSaver interface {
	SavePatterns(ctx context.Context, groups []filter.GroupSpec) error
}

// VisibilitySaver persists visibility flags keyed by tag string.
type VisibilitySaver interface {
	SaveVisibility(ctx context.Context, flags map[string]filter.Visibility) error
}

// Static is a Loader over an in-memory spec. Every Load builds a fresh model.
type Static []filter.GroupSpec

func (s Static) Load(context.Context) (*filter.Model, error) {
	return filter.NewModel(s...)
}
