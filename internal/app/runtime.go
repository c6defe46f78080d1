package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/five82/crier/internal/config"
	"github.com/five82/crier/internal/engine"
	"github.com/five82/crier/internal/filterstore"
	"github.com/five82/crier/internal/logtail"
	"github.com/five82/crier/internal/metrics"
	"github.com/five82/crier/internal/state"
	"github.com/five82/crier/internal/wordcolor"
)

// Runtime holds the components shared by every front end.
type Runtime struct {
	Config  config.Config
	Engine  *engine.Engine
	Filters *filterstore.Store
	Store   *state.Store
	Metrics *metrics.Metrics
	Decoder *logtail.Decoder
}

// Setup loads filters and words and builds an engine that routes to sink,
// one destination per configured window.
func Setup(ctx context.Context, cfg config.Config, sink engine.Sink) (*Runtime, error) {
	dec, err := logtail.NewDecoder(cfg.LogEncoding)
	if err != nil {
		return nil, fmt.Errorf("log encoding: %w", err)
	}
	filters, err := filterstore.New(cfg.FiltersPath, cfg.VisibilityPath)
	if err != nil {
		return nil, fmt.Errorf("init filter store: %w", err)
	}
	words, err := wordcolor.Load(cfg.WordsPath)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}

	dests := make([]engine.Destination, len(cfg.Windows))
	for i, w := range cfg.Windows {
		dests[i] = engine.Destination{ID: i, Limit: w.Trim}
	}
	e, err := engine.New(ctx, engine.Options{
		Loader:             filters,
		Words:              words,
		CaseSensitiveWords: cfg.CaseSensitiveWords,
		Sink:               sink,
		Destinations:       dests,
	})
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	m.SetDestinations(len(e.Destinations()))
	log.Info().
		Str("filters", filters.FiltersPath()).
		Int("groups", len(e.Catalog())).
		Int("destinations", len(dests)).
		Msg("engine ready")

	return &Runtime{
		Config:  cfg,
		Engine:  e,
		Filters: filters,
		Store:   &state.Store{},
		Metrics: m,
		Decoder: dec,
	}, nil
}

// ReloadFilters re-reads the filters and visibility files.
func (r *Runtime) ReloadFilters(ctx context.Context) error {
	err := r.Engine.Reload(ctx)
	r.Metrics.Reloaded("filters", err)
	return err
}

// ReloadWords re-reads the word color table.
func (r *Runtime) ReloadWords(context.Context) error {
	table, err := wordcolor.Load(r.Config.WordsPath)
	r.Metrics.Reloaded("words", err)
	if err != nil {
		return fmt.Errorf("reload words: %w", err)
	}
	r.Engine.ReloadWords(table)
	log.Info().Int("colors", len(table.Colors)).Msg("words reloaded")
	return nil
}

// Feeder follows the configured log from its current end.
func (r *Runtime) Feeder() (*Feeder, error) {
	follower, err := logtail.NewFollower(r.Config.LogPath, r.Decoder)
	if err != nil {
		return nil, err
	}
	return NewFeeder(follower, r.Engine, r.Store, r.Metrics, r.Config.PollInterval), nil
}

// Replay routes the last load_previous lines already in the log.
func (r *Runtime) Replay(f *Feeder) (int, error) {
	lines, err := logtail.Read(r.Config.LogPath, r.Config.LoadPrevious, r.Decoder)
	if err != nil {
		return 0, fmt.Errorf("replay log: %w", err)
	}
	for _, line := range lines {
		f.Feed(line)
	}
	return len(lines), nil
}

// Watch reloads filters or words when their files change on disk. Saves
// made by this process are ignored. It blocks until ctx is done.
func (r *Runtime) Watch(ctx context.Context) error {
	wordsPath, err := filepath.Abs(r.Config.WordsPath)
	if err != nil {
		return fmt.Errorf("words path: %w", err)
	}
	paths := []string{r.Filters.FiltersPath(), r.Filters.VisibilityPath(), wordsPath}
	return filterstore.Watch(ctx, paths, func(path string) {
		var err error
		switch {
		case path == wordsPath:
			err = r.ReloadWords(ctx)
		case r.Filters.Stale(path):
			log.Info().Str("path", path).Msg("filter file changed on disk")
			err = r.ReloadFilters(ctx)
		default:
			return
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Str("path", path).Msg("reload after change failed")
		}
	})
}

// ServeMetrics serves Prometheus metrics when metrics_addr is set.
func (r *Runtime) ServeMetrics(ctx context.Context) {
	if r.Config.MetricsAddr == "" {
		return
	}
	go func() {
		if err := r.Metrics.Serve(ctx, r.Config.MetricsAddr); err != nil {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
}
