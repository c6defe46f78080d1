// Package render writes routed announcements to a plain stream, one line
// each, styled with lipgloss when the output supports color.
//
// The tag prefix is bold but uncolored. The body takes its group's color,
// and highlighted words take their own. Tabs in the body are written as
// they arrived.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/crier/internal/engine"
	"github.com/five82/crier/internal/filter"
	"github.com/five82/crier/internal/wordcolor"
)

// Writer is an engine sink that prints announcements for a set of
// destinations. Lines already written cannot be taken back, so EvictOldest
// only counts.
type Writer struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *lipgloss.Renderer
	dests    map[int]struct{}
	showTags bool
	showDest bool
	palette  engine.Palette
	evicted  int
}

// Options configure a Writer.
type Options struct {
	// Destinations limits output to these ids; empty prints every one.
	Destinations []int
	ShowTags     bool
	// ShowDestination prefixes each line with "#id ".
	ShowDestination bool
	// Renderer overrides color detection for out.
	Renderer *lipgloss.Renderer
}

// NewWriter creates a Writer on out.
func NewWriter(out io.Writer, opts Options) *Writer {
	r := opts.Renderer
	if r == nil {
		r = lipgloss.NewRenderer(out)
	}
	w := &Writer{
		out:      out,
		renderer: r,
		showTags: opts.ShowTags,
		showDest: opts.ShowDestination,
	}
	if len(opts.Destinations) > 0 {
		w.dests = make(map[int]struct{}, len(opts.Destinations))
		for _, d := range opts.Destinations {
			w.dests[d] = struct{}{}
		}
	}
	return w
}

func (w *Writer) wants(dest int) bool {
	if w.dests == nil {
		return true
	}
	_, ok := w.dests[dest]
	return ok
}

// Append implements engine.Sink.
func (w *Writer) Append(dest int, tag filter.Tag, spans []wordcolor.Span, prefix string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.wants(dest) {
		return nil
	}
	line := w.format(tag, spans, prefix)
	if w.showDest {
		line = fmt.Sprintf("#%d %s", dest, line)
	}
	if _, err := io.WriteString(w.out, line+"\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}

// EvictOldest implements engine.Sink.
func (w *Writer) EvictOldest(dest int, _ filter.Tag) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.wants(dest) {
		w.evicted++
	}
	return nil
}

// SetPalette implements engine.Colorable.
func (w *Writer) SetPalette(p engine.Palette) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.palette = p
}

// Evicted returns how many printed lines retention has dropped.
func (w *Writer) Evicted() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.evicted
}

// Format renders one announcement the way Append prints it, without the
// destination marker.
func (w *Writer) Format(tag filter.Tag, spans []wordcolor.Span, prefix string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.format(tag, spans, prefix)
}

func (w *Writer) format(tag filter.Tag, spans []wordcolor.Span, prefix string) string {
	var b strings.Builder
	if w.showTags && prefix != "" {
		b.WriteString(w.renderer.NewStyle().Bold(true).Render(prefix))
	}
	body := w.groupStyle(tag.Group)
	for _, s := range spans {
		if s.Color == "" {
			b.WriteString(body.Render(s.Text))
			continue
		}
		c, ok := w.palette.WordColor(s.Color)
		if !ok {
			b.WriteString(body.Render(s.Text))
			continue
		}
		style := body
		if c.FG != "" {
			style = style.Foreground(lipgloss.Color(c.FG))
		}
		if c.BG != "" {
			style = style.Background(lipgloss.Color(c.BG))
		}
		b.WriteString(style.Render(s.Text))
	}
	return b.String()
}

// groupStyle colors announcement bodies; the prefix stays neutral.
func (w *Writer) groupStyle(group string) lipgloss.Style {
	style := w.renderer.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if c := w.palette.GroupColor(group); c != "" {
		style = style.Foreground(lipgloss.Color(c))
	}
	return style
}
