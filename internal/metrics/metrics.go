// Package metrics exposes build and cache counters on a dedicated
// prometheus registry, served by the development server's /metrics
// endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline's instruments.
type Metrics struct {
	registry *prometheus.Registry

	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	Builds        prometheus.Counter
	BuildFailures prometheus.Counter
	BuildDuration prometheus.Histogram
}

// New creates a Metrics with its own registry, so tests can hold
// several instances without duplicate-registration panics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "assetforge_cache_hits_total",
			Help: "Pack requests satisfied by an existing artifact.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "assetforge_cache_misses_total",
			Help: "Pack requests that had to build a new artifact.",
		}),
		Builds: factory.NewCounter(prometheus.CounterOpts{
			Name: "assetforge_builds_total",
			Help: "Artifact builds started.",
		}),
		BuildFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "assetforge_build_failures_total",
			Help: "Artifact builds aborted by a pipeline failure.",
		}),
		BuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "assetforge_build_duration_seconds",
			Help:    "Wall time spent building one artifact.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// Handler returns the scrape handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
