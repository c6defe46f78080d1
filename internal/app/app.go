package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/five82/crier/internal/config"
	"github.com/five82/crier/internal/engine"
	"github.com/five82/crier/internal/prefs"
	"github.com/five82/crier/internal/render"
	"github.com/five82/crier/internal/ui"
)

// Options configure crier.
type Options struct {
	ConfigPath   string
	PrefsPath    string        // empty uses ~/.config/crier/prefs.toml
	PollInterval time.Duration // zero uses the configured poll_ms
}

// TailOptions select what Tail prints.
type TailOptions struct {
	Destinations    []int // empty prints every window
	ShowTags        bool
	ShowDestination bool
}

// LoadConfig reads the config file and applies command-line overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.PollInterval > 0 {
		cfg.PollInterval = opts.PollInterval
	}
	return cfg, nil
}

// Run boots the TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}
	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	board := ui.NewBoard(len(cfg.Windows))
	rt, err := Setup(ctx, cfg, board)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	done, err := rt.start(ctx)
	if err != nil {
		cancel()
		return err
	}
	defer func() {
		cancel()
		<-done
	}()

	return ui.Run(ui.Options{
		Context:       ctx,
		Engine:        rt.Engine,
		Board:         board,
		Store:         rt.Store,
		Windows:       cfg.Windows,
		LogPath:       cfg.LogPath,
		Prefs:         userPrefs,
		PrefsPath:     opts.PrefsPath,
		ReloadFilters: rt.ReloadFilters,
		ReloadWords:   rt.ReloadWords,
	})
}

// Tail prints routed lines to out until ctx is cancelled.
func Tail(ctx context.Context, opts Options, out io.Writer, tail TailOptions) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}
	for _, id := range tail.Destinations {
		if id < 0 || id >= len(cfg.Windows) {
			return fmt.Errorf("window %d not configured (have %d)", id, len(cfg.Windows))
		}
	}

	writer := render.NewWriter(out, render.Options{
		Destinations:    tail.Destinations,
		ShowTags:        tail.ShowTags,
		ShowDestination: tail.ShowDestination,
	})
	rt, err := Setup(ctx, cfg, writer)
	if err != nil {
		return err
	}

	done, err := rt.start(ctx)
	if err != nil {
		return err
	}
	<-done
	log.Debug().Int("evicted", writer.Evicted()).Msg("tail stopped")
	return nil
}

// Classify builds an engine without destinations for one-shot use. The
// returned writer formats records for out with the loaded colors.
func Classify(ctx context.Context, opts Options, out io.Writer) (*engine.Engine, *render.Writer, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	cfg.Windows = nil
	writer := render.NewWriter(out, render.Options{ShowTags: true})
	rt, err := Setup(ctx, cfg, writer)
	if err != nil {
		return nil, nil, err
	}
	return rt.Engine, writer, nil
}

// start replays history and launches the feeder, watcher and metrics
// server. The returned channel closes when the feeder stops.
func (r *Runtime) start(ctx context.Context) (<-chan struct{}, error) {
	feeder, err := r.Feeder()
	if err != nil {
		return nil, err
	}
	n, err := r.Replay(feeder)
	if err != nil {
		log.Warn().Err(err).Msg("replay failed")
	} else if n > 0 {
		log.Info().Int("lines", n).Msg("replayed previous lines")
	}

	if r.Config.WatchConfig {
		go func() {
			if err := r.Watch(ctx); err != nil {
				log.Warn().Err(err).Msg("config watcher stopped")
			}
		}()
	}
	r.ServeMetrics(ctx)
	log.Info().Str("log", r.Config.LogPath).Str("encoding", r.Decoder.Name()).Msg("following log")
	return StartFeeder(ctx, feeder), nil
}
