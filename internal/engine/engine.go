package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/five82/crier/internal/filter"
	"github.com/five82/crier/internal/retention"
	"github.com/five82/crier/internal/wordcolor"
)

// ErrReadOnly is returned by Commit when the Loader cannot persist edits.
var ErrReadOnly = errors.New("filter source is read-only")

// Destination describes a display surface registered at startup.
type Destination struct {
	ID    int
	Limit int // retained entries per category; zero keeps everything
}

// Options configure an Engine.
type Options struct {
	Loader             Loader
	Words              wordcolor.Table
	CaseSensitiveWords bool
	Sink               Sink
	Destinations       []Destination
}

// Result describes what happened to one line.
type Result struct {
	Record  filter.Record
	Matched bool
	Routed  []int
	Evicted int
	Err     error // sink failures, joined
}

// Engine classifies lines and routes them to destinations. Every exported
// method runs under one exclusive section, so a line is fully classified,
// highlighted, recorded and handed to the sink before any configuration
// change or the next line is applied.
type Engine struct {
	mu sync.Mutex
	// reloadMu serializes Reload so the last reload started is the one
	// applied. It is taken before mu.
	reloadMu sync.Mutex

	loader     Loader
	patterns   PatternSaver
	visibility VisibilitySaver

	sink      Sink
	clearer   Clearer
	colorable Colorable

	registry    *filter.Registry
	classifier  *filter.Classifier
	highlighter *wordcolor.Highlighter
	retention   *retention.Buffer
	caseSens    bool
}

// New loads the model and registers the initial destinations.
func New(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Loader == nil {
		return nil, fmt.Errorf("engine: loader is required")
	}
	model, err := opts.Loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load filters: %w", err)
	}

	sink := opts.Sink
	if sink == nil {
		sink = Discard{}
	}
	e := &Engine{
		loader:      opts.Loader,
		sink:        sink,
		highlighter: wordcolor.NewHighlighter(opts.Words, opts.CaseSensitiveWords),
		retention:   retention.NewBuffer(),
		caseSens:    opts.CaseSensitiveWords,
	}
	e.patterns, _ = opts.Loader.(PatternSaver)
	e.visibility, _ = opts.Loader.(VisibilitySaver)
	e.clearer, _ = sink.(Clearer)
	e.colorable, _ = sink.(Colorable)

	ids := make([]int, 0, len(opts.Destinations))
	seen := make(map[int]struct{}, len(opts.Destinations))
	for _, d := range opts.Destinations {
		if d.ID < 0 {
			return nil, fmt.Errorf("%w: %d", filter.ErrInvalidDestination, d.ID)
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("%w: %d", filter.ErrDuplicateDestination, d.ID)
		}
		seen[d.ID] = struct{}{}
		ids = append(ids, d.ID)
		e.retention.SetLimit(d.ID, d.Limit)
	}
	e.registry = filter.NewRegistry(model, ids...)
	e.classifier = filter.NewClassifier(model)
	e.publishPalette()
	return e, nil
}

// Process classifies line and routes it to every destination where its
// category is visible. Unmatched lines return a Result with Matched false.
func (e *Engine) Process(line string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.classifier.Classify(line)
	if !ok {
		return Result{}
	}
	res := Result{Record: rec, Matched: true}

	var spans []wordcolor.Span
	var errs []error
	prefix := rec.Tag.Label()
	for _, dest := range e.registry.Destinations() {
		if !e.registry.Visible(rec.Tag, dest) {
			continue
		}
		if spans == nil {
			spans = e.highlighter.Highlight(rec.Tag.Group, rec.Body)
		}
		eviction := e.retention.Record(dest, rec.Tag)
		res.Routed = append(res.Routed, dest)

		if err := e.sink.Append(dest, rec.Tag, spans, prefix); err != nil {
			log.Warn().Err(err).Int("destination", dest).Str("tag", rec.Tag.String()).Msg("sink append failed")
			errs = append(errs, fmt.Errorf("append to %d: %w", dest, err))
		}
		if eviction == nil {
			continue
		}
		res.Evicted++
		if err := e.sink.EvictOldest(dest, rec.Tag); err != nil {
			log.Warn().Err(err).Int("destination", dest).Str("tag", rec.Tag.String()).Uint64("seq", eviction.Seq).Msg("sink evict failed")
			errs = append(errs, fmt.Errorf("evict from %d: %w", dest, err))
		}
	}
	res.Err = errors.Join(errs...)
	return res
}

// Classify runs the classifier and highlighter without routing anything.
func (e *Engine) Classify(line string) (filter.Record, []wordcolor.Span, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.classifier.Classify(line)
	if !ok {
		return filter.Record{}, nil, false
	}
	return rec, e.highlighter.Highlight(rec.Tag.Group, rec.Body), true
}

// Reload re-reads the model from the Loader and reconciles its visibility
// maps with the registered destinations. On failure the current model stays.
// Concurrent reloads run one after another; lines keep flowing while the
// Loader reads.
func (e *Engine) Reload(ctx context.Context) error {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	model, err := e.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload filters: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.registry.SetModel(model)
	e.registry.Reconcile(e.registry.Destinations())
	e.classifier = filter.NewClassifier(model)
	e.publishPalette()
	log.Info().Int("categories", len(model.Tags())).Ints("destinations", e.registry.Destinations()).Msg("filters reloaded")
	return nil
}

// ReloadWords swaps the highlight word table.
func (e *Engine) ReloadWords(table wordcolor.Table) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.highlighter = wordcolor.NewHighlighter(table, e.caseSens)
	e.publishPalette()
}

// RegisterDestination adds a destination with the given retention limit.
func (e *Engine) RegisterDestination(id, limit int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.registry.RegisterDestination(id); err != nil {
		return err
	}
	e.retention.SetLimit(id, limit)
	return nil
}

// DeregisterDestination removes a destination and its retained counts.
func (e *Engine) DeregisterDestination(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.registry.DeregisterDestination(id); err != nil {
		return err
	}
	e.retention.Forget(id)
	return nil
}

// NextDestination returns the lowest unused destination id.
func (e *Engine) NextDestination() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.NextDestination()
}

// Destinations returns the registered destination ids in ascending order.
func (e *Engine) Destinations() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Destinations()
}

// SetVisible sets a visibility flag without edit tracking. Edits meant to
// be saved go through an EditSession.
func (e *Engine) SetVisible(tag filter.Tag, dest int, visible bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.SetVisible(tag, dest, visible)
}

// GetVisible reports whether tag is routed to dest.
func (e *Engine) GetVisible(tag filter.Tag, dest int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.GetVisible(tag, dest)
}

// ClearDestination resets retention counts for dest and, when the sink
// supports it, drops its content.
func (e *Engine) ClearDestination(dest int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.registry.Registered(dest) {
		return fmt.Errorf("%w: %d", filter.ErrUnknownDestination, dest)
	}
	e.retention.Reset(dest)
	if e.clearer != nil {
		return e.clearer.Clear(dest)
	}
	return nil
}

// Held returns the number of retained entries for (dest, tag).
func (e *Engine) Held(dest int, tag filter.Tag) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.retention.Held(dest, tag)
}

// Catalog returns a copy of the model for display.
func (e *Engine) Catalog() []filter.GroupSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Model().Spec()
}

// Palette returns the current display colors.
func (e *Engine) Palette() Palette {
	e.mu.Lock()
	defer e.mu.Unlock()
	return buildPalette(e.registry.Model(), e.highlighter.Table())
}

func (e *Engine) publishPalette() {
	if e.colorable == nil {
		return
	}
	e.colorable.SetPalette(buildPalette(e.registry.Model(), e.highlighter.Table()))
}
