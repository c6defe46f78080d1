// Package metrics exposes routing counters in Prometheus format.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/five82/crier/internal/engine"
)

const namespace = "crier"

// Metrics holds the collectors for one engine. Each Metrics owns its
// registry so tests and multiple engines do not collide.
type Metrics struct {
	registry     *prometheus.Registry
	lines        *prometheus.CounterVec
	routed       *prometheus.CounterVec
	evictions    prometheus.Counter
	sinkErrors   prometheus.Counter
	destinations prometheus.Gauge
	reloads      *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		lines: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Log lines processed, by classification result.",
		}, []string{"result"}),
		routed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routed_total",
			Help:      "Announcements delivered to a destination, by group.",
		}, []string{"group"}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Announcements dropped by retention limits.",
		}),
		sinkErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Lines whose delivery failed for at least one destination.",
		}),
		destinations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "destinations",
			Help:      "Registered destinations.",
		}),
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Configuration reloads, by source and outcome.",
		}, []string{"source", "outcome"}),
	}
}

// Observe records one processed line.
func (m *Metrics) Observe(res engine.Result) {
	if !res.Matched {
		m.lines.WithLabelValues("unmatched").Inc()
		return
	}
	m.lines.WithLabelValues("matched").Inc()
	if n := len(res.Routed); n > 0 {
		m.routed.WithLabelValues(res.Record.Tag.Group).Add(float64(n))
	}
	if res.Evicted > 0 {
		m.evictions.Add(float64(res.Evicted))
	}
	if res.Err != nil {
		m.sinkErrors.Inc()
	}
}

// SetDestinations sets the destination gauge.
func (m *Metrics) SetDestinations(n int) {
	m.destinations.Set(float64(n))
}

// Reloaded counts a reload of source ("filters" or "words").
func (m *Metrics) Reloaded(source string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.reloads.WithLabelValues(source, outcome).Inc()
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve listens on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen metrics: %w", err)
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	}
}
