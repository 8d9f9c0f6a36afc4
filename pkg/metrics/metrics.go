// Package metrics provides Prometheus metrics for the judging service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Judging pipeline metrics.
	scoresRecorded        prometheus.Counter
	shortlistRuns         *prometheus.CounterVec
	shortlistConflicts    prometheus.Counter
	eligibilityChecks     *prometheus.CounterVec
	consistencyViolations prometheus.Counter
	leaderboardBuildMs    prometheus.Histogram

	// Operational metrics.
	submissionsTracked prometheus.Gauge
	roundsFinalized    prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "judged",
		subsystem:        "judging",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.scoresRecorded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_recorded_total",
		Help:      "Total number of judge scorecards written (creates and overwrites).",
	})
	m.shortlistRuns = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "shortlist_runs_total",
		Help:      "Total number of bulk shortlist runs by policy mode.",
	}, []string{"mode"})
	m.shortlistConflicts = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "shortlist_conflicts_total",
		Help:      "Total number of shortlist runs rejected because another run held the round.",
	})
	m.eligibilityChecks = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "eligibility_checks_total",
		Help:      "Total number of eligibility checks by outcome reason.",
	}, []string{"reason"})
	m.consistencyViolations = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "consistency_violations_total",
		Help:      "Submission status and round progress disagreeing; data-integrity bug.",
	})
	m.leaderboardBuildMs = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_build_duration_ms",
		Help:      "Time spent aggregating and ranking a round's leaderboard.",
		Buckets:   m.histogramBuckets,
	})

	m.submissionsTracked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_tracked",
		Help:      "Current number of submissions in the store.",
	})
	m.roundsFinalized = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_finalized",
		Help:      "Current number of rounds with a finalized shortlist.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordScoreUpsert increments the scorecard write counter.
func RecordScoreUpsert() {
	if globalManager.enabled {
		globalManager.scoresRecorded.Inc()
	}
}

// RecordShortlistRun increments the shortlist run counter for a policy mode.
func RecordShortlistRun(mode string) {
	if globalManager.enabled {
		globalManager.shortlistRuns.WithLabelValues(mode).Inc()
	}
}

// RecordShortlistConflict increments the conflict counter.
func RecordShortlistConflict() {
	if globalManager.enabled {
		globalManager.shortlistConflicts.Inc()
	}
}

// RecordEligibilityCheck increments the eligibility counter for an outcome.
func RecordEligibilityCheck(reason string) {
	if globalManager.enabled {
		globalManager.eligibilityChecks.WithLabelValues(reason).Inc()
	}
}

// RecordConsistencyViolation increments the integrity violation counter.
func RecordConsistencyViolation() {
	if globalManager.enabled {
		globalManager.consistencyViolations.Inc()
	}
}

// RecordLeaderboardBuildDuration records a leaderboard build latency sample.
func RecordLeaderboardBuildDuration(latencyMs float64) {
	if globalManager.enabled {
		globalManager.leaderboardBuildMs.Observe(latencyMs)
	}
}

// UpdateSubmissionsTracked sets the submissions gauge.
func UpdateSubmissionsTracked(count int) {
	if globalManager.enabled {
		globalManager.submissionsTracked.Set(float64(count))
	}
}

// UpdateRoundsFinalized sets the finalized-rounds gauge.
func UpdateRoundsFinalized(count int) {
	if globalManager.enabled {
		globalManager.roundsFinalized.Set(float64(count))
	}
}

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records an HTTP request latency sample.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
