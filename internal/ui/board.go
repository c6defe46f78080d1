package ui

import (
	"errors"
	"fmt"
	"sync"

	"github.com/five82/crier/internal/engine"
	"github.com/five82/crier/internal/filter"
	"github.com/five82/crier/internal/wordcolor"
)

// ErrUnknownWindow is returned for a destination the board has no window for.
var ErrUnknownWindow = errors.New("unknown window")

// Entry is one announcement shown in a window.
type Entry struct {
	Tag    filter.Tag
	Prefix string
	Spans  []wordcolor.Span
}

// Text returns the entry without styling.
func (e Entry) Text() string {
	n := 0
	for _, s := range e.Spans {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range e.Spans {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

type pane struct {
	entries []Entry
	version uint64
}

// Board is the engine sink behind the TUI. It keeps the entries of every
// window; the Model reads them on each tick. Board never calls back into the
// engine.
type Board struct {
	mu      sync.Mutex
	panes   map[int]*pane
	palette engine.Palette
	version uint64
}

// NewBoard creates a board with windows 0 through windows-1.
func NewBoard(windows int) *Board {
	b := &Board{panes: make(map[int]*pane, windows)}
	for i := range windows {
		b.panes[i] = &pane{}
	}
	return b
}

func (b *Board) pane(dest int) (*pane, error) {
	p, ok := b.panes[dest]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWindow, dest)
	}
	return p, nil
}

// AddWindow adds an empty window for dest. It must be called before the
// engine is told about dest so no announcement arrives for a missing window.
func (b *Board) AddWindow(dest int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if dest < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, dest)
	}
	if _, ok := b.panes[dest]; ok {
		return fmt.Errorf("window %d already exists", dest)
	}
	b.version++
	b.panes[dest] = &pane{version: b.version}
	return nil
}

// RemoveWindow drops dest and its entries.
func (b *Board) RemoveWindow(dest int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.pane(dest); err != nil {
		return err
	}
	delete(b.panes, dest)
	return nil
}

func (b *Board) touch(p *pane) {
	b.version++
	p.version = b.version
}

// Append implements engine.Sink.
func (b *Board) Append(dest int, tag filter.Tag, spans []wordcolor.Span, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.pane(dest)
	if err != nil {
		return err
	}
	p.entries = append(p.entries, Entry{Tag: tag, Prefix: prefix, Spans: spans})
	b.touch(p)
	return nil
}

// EvictOldest implements engine.Sink by removing the oldest entry of tag.
func (b *Board) EvictOldest(dest int, tag filter.Tag) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.pane(dest)
	if err != nil {
		return err
	}
	for i, e := range p.entries {
		if e.Tag == tag {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			b.touch(p)
			return nil
		}
	}
	return fmt.Errorf("window %d holds no %s entry", dest, tag)
}

// Clear implements engine.Clearer.
func (b *Board) Clear(dest int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.pane(dest)
	if err != nil {
		return err
	}
	p.entries = nil
	b.touch(p)
	return nil
}

// SetPalette implements engine.Colorable.
func (b *Board) SetPalette(p engine.Palette) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.palette = p
	b.version++
	for _, pn := range b.panes {
		pn.version = b.version
	}
}

// Palette returns the colors last pushed by the engine.
func (b *Board) Palette() engine.Palette {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.palette
}

// Entries returns a copy of a window's entries and its version. The version
// changes whenever the window's content or the palette changes.
func (b *Board) Entries(dest int) ([]Entry, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.pane(dest)
	if err != nil {
		return nil, 0
	}
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out, p.version
}

// Version returns the version of a window without copying its entries.
func (b *Board) Version(dest int) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.pane(dest)
	if err != nil {
		return 0
	}
	return p.version
}
