package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the service collectors. Use New to obtain one registered on
// its own registry so tests can create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	Generations      *prometheus.CounterVec
	GeneratedSamples prometheus.Counter
	Evaluations      *prometheus.CounterVec
	EvalLatency      *prometheus.HistogramVec
	InFlightJobs     prometheus.Gauge
}

// New creates the collectors and registers them, along with the Go runtime
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simrng_generations_total",
				Help: "Number of completed generation requests.",
			},
			[]string{"distribution"},
		),
		GeneratedSamples: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "simrng_generated_samples_total",
				Help: "Number of samples generated across all requests.",
			},
		),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simrng_evaluations_total",
				Help: "Number of chi-squared evaluations by outcome.",
			},
			[]string{"distribution", "outcome"},
		),
		EvalLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "simrng_operation_duration_seconds",
				Help:    "Latency of histogram and statistics operations.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"operation"},
		),
		InFlightJobs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "simrng_jobs_in_flight",
				Help: "Number of generation or evaluation jobs holding a worker slot.",
			},
		),
	}
	m.Registry.MustRegister(m.Collectors()...)
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Collectors returns the service collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Generations,
		m.GeneratedSamples,
		m.Evaluations,
		m.EvalLatency,
		m.InFlightJobs,
	}
}

// Outcome labels for Evaluations.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)
