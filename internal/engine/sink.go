package engine

import (
	"github.com/five82/crier/internal/filter"
	"github.com/five82/crier/internal/wordcolor"
)

// Sink displays routed announcements. The engine calls it while holding its
// lock, so implementations must not call back into the Engine.
type Sink interface {
	// Append adds one announcement to dest. prefix is the "[Group][Category] "
	// label; whether it is shown is up to the sink.
	Append(dest int, tag filter.Tag, spans []wordcolor.Span, prefix string) error
	// EvictOldest removes the oldest announcement with tag from dest.
	EvictOldest(dest int, tag filter.Tag) error
}

// Clearer is implemented by sinks that can drop all content of a destination.
type Clearer interface {
	Clear(dest int) error
}

// Colorable is implemented by sinks that style output. SetPalette is called
// once at construction and again whenever colors may have changed.
type Colorable interface {
	SetPalette(p Palette)
}

// Palette is an immutable snapshot of display colors.
type Palette struct {
	Groups map[string]string
	Colors map[string]wordcolor.Color
}

// GroupColor returns the color for group, or "" when unknown.
func (p Palette) GroupColor(group string) string {
	return p.Groups[group]
}

// WordColor resolves a span color name.
func (p Palette) WordColor(name string) (wordcolor.Color, bool) {
	c, ok := p.Colors[name]
	return c, ok
}

func buildPalette(model *filter.Model, table wordcolor.Table) Palette {
	p := Palette{
		Groups: make(map[string]string),
		Colors: make(map[string]wordcolor.Color, len(table.Colors)),
	}
	if model != nil {
		for _, g := range model.Groups() {
			p.Groups[g.Name] = g.Color
		}
	}
	for name, c := range table.Colors {
		p.Colors[name] = c
	}
	return p
}

// Discard is a Sink that drops everything.
type Discard struct{}

func (Discard) Append(int, filter.Tag, []wordcolor.Span, string) error { return nil }
func (Discard) EvictOldest(int, filter.Tag) error                      { return nil }
