// Package metrics exposes conversion counters through Prometheus, either
// scraped over HTTP or written to a node-exporter textfile.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances (tests, servers)
// never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	references         *prometheus.CounterVec
	referenceDuration  *prometheus.HistogramVec
	depthExceeded      prometheus.Counter
	conversions        *prometheus.CounterVec
	conversionDuration *prometheus.HistogramVec
	cacheRequests      *prometheus.CounterVec
}

// New registers the svgflat collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		references: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svgflat_references_total",
				Help: "Linked SVG references processed, by outcome",
			},
			[]string{"outcome"},
		),
		referenceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "svgflat_reference_duration_seconds",
				Help:    "Time spent expanding a single reference, nested references included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		depthExceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "svgflat_depth_exceeded_total",
			Help: "Branches cut off by the maximum nesting depth",
		}),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svgflat_conversions_total",
				Help: "Top-level flatten and convert operations, by kind and status",
			},
			[]string{"kind", "status"},
		),
		conversionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "svgflat_conversion_duration_seconds",
				Help:    "Duration of top-level operations",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"kind"},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svgflat_cache_requests_total",
				Help: "Normalization cache lookups, by result",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(
		m.references, m.referenceDuration, m.depthExceeded,
		m.conversions, m.conversionDuration, m.cacheRequests,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Hooks returns inliner hooks that record reference metrics.
func (m *Metrics) Hooks() domain.Hooks {
	observe := func(_ context.Context, e *domain.ReferenceEvent) {
		outcome := string(e.Outcome)
		m.references.WithLabelValues(outcome).Inc()
		m.referenceDuration.WithLabelValues(outcome).Observe(e.Duration.Seconds())
	}
	return domain.Hooks{
		OnReferenceInlined: observe,
		OnReferenceSkipped: observe,
		OnDepthExceeded: func(context.Context, int) {
			m.depthExceeded.Inc()
		},
	}
}

// ObserveConversion records one top-level operation.
func (m *Metrics) ObserveConversion(kind string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.conversions.WithLabelValues(kind, status).Inc()
	m.conversionDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveCache records a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequests.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// WriteTextfile dumps the registry for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
