package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion service.
type Metrics struct {
	RunsTotal         *prometheus.CounterVec   // labels: pipeline={batched,percall}, outcome={success,partial_failure,total_failure}
	RunDuration       *prometheus.HistogramVec // labels: pipeline
	RecordsNormalized prometheus.Counter
	ArtifactsWritten  *prometheus.CounterVec // labels: pipeline
	LocationFailures  *prometheus.CounterVec // labels: pipeline
	SchedulerRunning  prometheus.Gauge

	// Upstream provider metrics.
	UpstreamRequestDuration *prometheus.HistogramVec // labels: provider={openmeteo,openweather}
	CacheLookups            *prometheus.CounterVec   // labels: provider, result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "runs_total",
			Help:      "Pipeline runs by pipeline and outcome.",
		}, []string{"pipeline", "outcome"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_ingest",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-write run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"pipeline"}),
		RecordsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "records_normalized_total",
			Help:      "Total observation records produced by normalization.",
		}),
		ArtifactsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "artifacts_written_total",
			Help:      "Objects written to the sink bucket by pipeline.",
		}, []string{"pipeline"}),
		LocationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "location_failures_total",
			Help:      "Per-location fetch or write failures by pipeline.",
		}, []string{"pipeline"}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_ingest",
			Name:      "scheduler_running",
			Help:      "1 when the scheduler loop is active, 0 when shut down.",
		}),
		UpstreamRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_ingest",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by provider and result.",
		}, []string{"provider", "result"}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.RecordsNormalized,
		m.ArtifactsWritten,
		m.LocationFailures,
		m.SchedulerRunning,
		m.UpstreamRequestDuration,
		m.CacheLookups,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:               prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "runs_total"}, []string{"pipeline", "outcome"}),
		RunDuration:             prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "weather_ingest", Name: "run_duration_seconds"}, []string{"pipeline"}),
		RecordsNormalized:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "records_normalized_total"}),
		ArtifactsWritten:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "artifacts_written_total"}, []string{"pipeline"}),
		LocationFailures:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "location_failures_total"}, []string{"pipeline"}),
		SchedulerRunning:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_ingest", Name: "scheduler_running"}),
		UpstreamRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "weather_ingest", Name: "upstream_request_duration_seconds"}, []string{"provider"}),
		CacheLookups:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "cache_lookups_total"}, []string{"provider", "result"}),
	}
}
