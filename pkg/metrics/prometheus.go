// Package metrics provides Prometheus metrics for the plan matching service.
package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the planmatch service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Matching
	matchesTotal      prometheus.Counter
	matchLatency      prometheus.Histogram
	eligiblePlans     prometheus.Histogram
	planExclusions    *prometheus.CounterVec
	topRankedPlans    *prometheus.CounterVec
	validationErrors  *prometheus.CounterVec
	batchSize         prometheus.Histogram
	displayTransforms prometheus.Counter

	// Catalog and result store
	catalogPlans         prometheus.Gauge
	resultStoreSize      prometheus.Gauge
	resultStoreEvictions prometheus.Counter
	resultLookups        *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "planmatch",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(n, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(n),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(n, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(n),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(n, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(n),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)
	countBuckets := []float64{0, 1, 2, 3, 5, 8, 13, 21}

	m.matchesTotal = auto.NewCounter(m.counterOpts("matches_total",
		"Total number of questionnaire responses matched"))
	m.matchLatency = auto.NewHistogram(m.histogramOpts("match_latency_milliseconds",
		"Filter, score and display latency per match in milliseconds", m.histogramBuckets))
	m.eligiblePlans = auto.NewHistogram(m.histogramOpts("eligible_plans",
		"Number of eligible plans per match", countBuckets))
	m.planExclusions = auto.NewCounterVec(m.counterOpts("plan_exclusions_total",
		"Plans excluded during matching by reason"), []string{"reason"})
	m.topRankedPlans = auto.NewCounterVec(m.counterOpts("top_ranked_total",
		"Times a plan ranked first"), []string{"plan_id"})
	m.validationErrors = auto.NewCounterVec(m.counterOpts("validation_errors_total",
		"Rejected questionnaire responses by field"), []string{"field"})
	m.batchSize = auto.NewHistogram(m.histogramOpts("batch_size",
		"Number of responses per batch match", []float64{1, 5, 10, 25, 50, 100, 250}))
	m.displayTransforms = auto.NewCounter(m.counterOpts("display_transforms_total",
		"Total number of display score conversions"))

	m.catalogPlans = auto.NewGauge(m.gaugeOpts("catalog_plans",
		"Number of plans in the loaded catalog"))
	m.resultStoreSize = auto.NewGauge(m.gaugeOpts("result_store_size",
		"Number of match results held in memory"))
	m.resultStoreEvictions = auto.NewCounter(m.counterOpts("result_store_evictions_total",
		"Match results evicted to respect the store bound"))
	m.resultLookups = auto.NewCounterVec(m.counterOpts("result_lookups_total",
		"Match result lookups by outcome"), []string{"outcome"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Total number of errors by component"), []string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
}

// RecordMatch records a completed match.
func RecordMatch(latencyMs float64, eligible int) {
	globalManager.matchesTotal.Inc()
	globalManager.matchLatency.Observe(latencyMs)
	globalManager.eligiblePlans.Observe(float64(eligible))
}

// RecordPlanExclusion counts a plan dropped by the eligibility filter.
func RecordPlanExclusion(reason string) {
	globalManager.planExclusions.WithLabelValues(reason).Inc()
}

// RecordTopRanked counts the plan that ranked first.
func RecordTopRanked(planID string) {
	globalManager.topRankedPlans.WithLabelValues(planID).Inc()
}

// RecordValidationError counts a rejected response by failing field.
func RecordValidationError(field string) {
	globalManager.validationErrors.WithLabelValues(field).Inc()
}

// RecordBatch records the size of a batch match.
func RecordBatch(size int) {
	globalManager.batchSize.Observe(float64(size))
}

// RecordDisplayTransform counts display score conversions.
func RecordDisplayTransform(n int) {
	globalManager.displayTransforms.Add(float64(n))
}

// UpdateCatalogPlans sets the catalog size.
func UpdateCatalogPlans(count int) {
	globalManager.catalogPlans.Set(float64(count))
}

// UpdateResultStoreSize sets the number of stored results.
func UpdateResultStoreSize(size int64) {
	globalManager.resultStoreSize.Set(float64(size))
}

// RecordResultEviction counts an evicted result.
func RecordResultEviction() {
	globalManager.resultStoreEvictions.Inc()
}

// RecordResultLookup counts a result lookup; outcome is "hit" or "miss".
func RecordResultLookup(outcome string) {
	globalManager.resultLookups.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemStats samples heap usage and goroutine count.
func UpdateSystemStats() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemMemoryUsage.Set(float64(ms.HeapAlloc))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
