package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/five82/crier/internal/engine"
	"github.com/five82/crier/internal/metrics"
	"github.com/five82/crier/internal/state"
)

const maxBackoff = 30 * time.Second

// lineSource yields lines appended to the game log since the last call.
type lineSource interface {
	Poll() ([]string, error)
}

// Feeder moves lines from the log into the engine.
type Feeder struct {
	source   lineSource
	engine   *engine.Engine
	store    *state.Store
	metrics  *metrics.Metrics
	interval time.Duration
}

// NewFeeder builds a feeder. store and m may be nil.
func NewFeeder(source lineSource, e *engine.Engine, store *state.Store, m *metrics.Metrics, interval time.Duration) *Feeder {
	if interval <= 0 {
		interval = time.Second
	}
	return &Feeder{source: source, engine: e, store: store, metrics: m, interval: interval}
}

// StartFeeder runs f in a goroutine. The returned channel closes once the
// feeder has stopped, after the line in flight has been routed.
func StartFeeder(ctx context.Context, f *Feeder) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.Run(ctx)
	}()
	return done
}

// Run polls until ctx is done. Read failures back off exponentially.
func (f *Feeder) Run(ctx context.Context) {
	failures := 0
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := f.poll(ctx); err != nil {
			failures++
			log.Warn().Err(err).Int("failures", failures).Msg("log read failed")
		} else {
			failures = 0
		}
		timer.Reset(calculateBackoff(failures, f.interval))
	}
}

func (f *Feeder) poll(ctx context.Context) error {
	lines, err := f.source.Poll()
	if f.store != nil {
		f.store.ReadResult(err)
	}
	if err != nil {
		return err
	}
	for _, line := range lines {
		if ctx.Err() != nil {
			return nil
		}
		f.Feed(line)
	}
	return nil
}

// Feed routes one line and records the outcome.
func (f *Feeder) Feed(line string) engine.Result {
	res := f.engine.Process(line)
	if f.store != nil {
		f.store.Observe(line, res)
	}
	if f.metrics != nil {
		f.metrics.Observe(res)
	}
	return res
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
