// Package metrics exposes resolver counters and histograms for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Seed types
const (
	SeedIdentifier = "identifier"
	SeedName       = "name"
)

// Outcomes
const (
	OutcomeMatched = "matched"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// Recorder holds the resolver metrics on its own registry
type Recorder struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	candidates  prometheus.Histogram
	verified    prometheus.Histogram
	rows        prometheus.Histogram
}

// NewRecorder creates a recorder with Go runtime and process collectors registered
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	sizes := prometheus.ExponentialBuckets(1, 4, 8)

	return &Recorder{
		registry: reg,
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resolver_resolutions_total",
			Help: "Resolutions by seed type and outcome.",
		}, []string{"seed", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "resolver_resolution_duration_seconds",
			Help:    "Time spent resolving one seed.",
			Buckets: prometheus.DefBuckets,
		}, []string{"seed"}),
		candidates: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "resolver_candidates",
			Help:    "Candidate rows returned by blocking per resolution.",
			Buckets: sizes,
		}),
		verified: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "resolver_verified",
			Help:    "Candidates accepted by verification per resolution.",
			Buckets: sizes,
		}),
		rows: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "resolver_result_rows",
			Help:    "Rows returned per resolution.",
			Buckets: sizes,
		}),
	}
}

// Observation is the summary of one resolution
type Observation struct {
	Seed       string
	Outcome    string
	Duration   time.Duration
	Candidates int
	Verified   int
	Rows       int
}

// Observe records one resolution
func (r *Recorder) Observe(o Observation) {
	r.resolutions.WithLabelValues(o.Seed, o.Outcome).Inc()
	r.duration.WithLabelValues(o.Seed).Observe(o.Duration.Seconds())
	if o.Outcome == OutcomeError {
		return
	}
	r.candidates.Observe(float64(o.Candidates))
	r.verified.Observe(float64(o.Verified))
	r.rows.Observe(float64(o.Rows))
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
