// Package metrics records build and reload counters with Prometheus.
//
// Collectors live on a private registry so that several engines, or tests,
// never collide on the default registerer.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Metrics = (*Prometheus)(nil)

const (
	namespace = "shade"

	outcomeSuccess = "success"
	outcomeFailure = "failure"

	shutdownTimeout = 5 * time.Second
)

// Prometheus implements ports.Metrics.
type Prometheus struct {
	registry *prometheus.Registry

	// BuildsTotal counts initial builds. Labels: outcome (success, failure).
	BuildsTotal *prometheus.CounterVec
	// ReloadsTotal counts reload attempts. Labels: outcome (applied, unchanged, failed, stale).
	ReloadsTotal *prometheus.CounterVec
	// ReloadDuration observes the time spent per reload attempt.
	ReloadDuration prometheus.Histogram
	// SignalsTotal counts reload signals queued by the poller.
	SignalsTotal prometheus.Counter
}

// New creates the collectors on a fresh registry.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		BuildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Initial artifact builds by outcome.",
		}, []string{"outcome"}),
		ReloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Artifact reload attempts by outcome.",
		}, []string{"outcome"}),
		ReloadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reload_duration_seconds",
			Help:      "Time spent reloading one artifact.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		SignalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_total",
			Help:      "Reload signals queued by the change poller.",
		}),
	}
}

// BuildFinished counts an initial build.
func (p *Prometheus) BuildFinished(err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}
	p.BuildsTotal.WithLabelValues(outcome).Inc()
}

// ReloadFinished counts a reload attempt and observes its duration.
func (p *Prometheus) ReloadFinished(outcome domain.ReloadOutcome, d time.Duration) {
	p.ReloadsTotal.WithLabelValues(string(outcome)).Inc()
	p.ReloadDuration.Observe(d.Seconds())
}

// SignalsQueued counts signals pushed by the poller.
func (p *Prometheus) SignalsQueued(n int) {
	p.SignalsTotal.Add(float64(n))
}

// Registry returns the registry holding the collectors.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler returns an HTTP handler exposing the collectors.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Serve exposes the collectors on addr under /metrics until ctx is canceled.
func (p *Prometheus) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen for metrics"), "addr", addr)
	}
	return p.serve(ctx, ln)
}

func (p *Prometheus) serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.Wrap(err, "metrics server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return zerr.Wrap(err, "failed to shut down metrics server")
		}
		return nil
	}
}
