// Package metrics exposes Prometheus metrics for the API, the ad
// generator and the dispatch pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Metrics holds all Prometheus metrics for AdRival
type Metrics struct {
	// Generation counters
	AdsGeneratedTotal *prometheus.CounterVec
	GenerationsTotal  *prometheus.CounterVec
	CacheHitsTotal    prometheus.Counter

	// Dispatch counters
	SendsTotal *prometheus.CounterVec

	// Job counters
	JobsProcessedTotal *prometheus.CounterVec

	// API metrics
	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec
	APIErrorsTotal            *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		AdsGeneratedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adrival_ads_generated_total",
				Help: "Total number of ad variants produced",
			},
			[]string{"source"},
		),
		GenerationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adrival_generations_total",
				Help: "Total number of generation requests",
			},
			[]string{"status"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "adrival_generation_cache_hits_total",
				Help: "Total number of generation requests served from cache",
			},
		),

		SendsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adrival_sends_total",
				Help: "Total number of delivery attempts",
			},
			[]string{"channel", "status"},
		),

		JobsProcessedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adrival_jobs_processed_total",
				Help: "Total number of background jobs processed",
			},
			[]string{"kind", "status"},
		),

		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adrival_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adrival_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		APIErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adrival_api_errors_total",
				Help: "Total number of API errors",
			},
			[]string{"error_type"},
		),

		registry: reg,
	}

	// Register all metrics
	reg.MustRegister(
		m.AdsGeneratedTotal,
		m.GenerationsTotal,
		m.CacheHitsTotal,
		m.SendsTotal,
		m.JobsProcessedTotal,
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
		m.APIErrorsTotal,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetGlobal sets the global metrics instance
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the global metrics instance
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// IncAdsGenerated increments the generated ad counter
func IncAdsGenerated(source string, n int) {
	m := Global()
	if m != nil {
		m.AdsGeneratedTotal.WithLabelValues(source).Add(float64(n))
	}
}

// IncGenerations increments the generation request counter
func IncGenerations(status string) {
	m := Global()
	if m != nil {
		m.GenerationsTotal.WithLabelValues(status).Inc()
	}
}

// IncCacheHits increments the generation cache hit counter
func IncCacheHits() {
	m := Global()
	if m != nil {
		m.CacheHitsTotal.Inc()
	}
}

// IncSends increments the delivery attempt counter
func IncSends(channel, status string) {
	m := Global()
	if m != nil {
		m.SendsTotal.WithLabelValues(channel, status).Inc()
	}
}

// IncJobsProcessed increments the processed job counter
func IncJobsProcessed(kind, status string) {
	m := Global()
	if m != nil {
		m.JobsProcessedTotal.WithLabelValues(kind, status).Inc()
	}
}

// IncAPIErrors increments API error counter
func IncAPIErrors(errorType string) {
	m := Global()
	if m != nil {
		m.APIErrorsTotal.WithLabelValues(errorType).Inc()
	}
}
