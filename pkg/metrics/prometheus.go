// Package metrics provides Prometheus metrics for the web log generator and dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service and the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Generation
	recordsGenerated prometheus.Counter
	batchesGenerated prometheus.Counter
	batchLatency     prometheus.Histogram

	// Store
	storeRecords prometheus.Gauge
	storeTotal   prometheus.Gauge
	storeTrimmed prometheus.Counter

	// Cleaning
	cleanKept    prometheus.Counter
	cleanDropped prometheus.Counter
	cleanLatency prometheus.Histogram

	// Publishing
	publishBatches  *prometheus.CounterVec
	publishQueueLen prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// Dashboard client
	dashboardFetches      *prometheus.CounterVec
	dashboardFetchLatency prometheus.Histogram
	dashboardCacheHits    prometheus.Counter
	dashboardCacheMisses  prometheus.Counter
	dashboardRows         prometheus.Gauge

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "funolympics",
		subsystem:        "weblogs",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		customLabels:     make(map[string]string),
		metricPrefix:     "",
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

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	counter := func(name, help string) prometheus.Counter {
		return auto.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: constLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return auto.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: constLabels,
		})
	}
	histogram := func(name, help string) prometheus.Histogram {
		return auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: constLabels,
			Buckets: m.histogramBuckets,
		})
	}

	m.recordsGenerated = counter("records_generated_total", "Total number of synthetic log records generated")
	m.batchesGenerated = counter("batches_generated_total", "Total number of generation batches appended to the store")
	m.batchLatency = histogram("batch_latency_milliseconds", "Time to generate and append one batch in milliseconds")

	m.storeRecords = gauge("store_records", "Records currently held by the log store")
	m.storeTotal = gauge("store_appended_records", "Records ever appended to the log store")
	m.storeTrimmed = counter("store_trimmed_total", "Records removed by the retention policy")

	m.cleanKept = counter("clean_kept_total", "Records that passed cleaning")
	m.cleanDropped = counter("clean_dropped_total", "Records dropped by cleaning because a numeric field could not be coerced")
	m.cleanLatency = histogram("clean_latency_milliseconds", "Time to clean a full snapshot in milliseconds")

	m.publishBatches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("publish_batches_total"),
		Help: "Generated batches handed to the publisher by outcome", ConstLabels: constLabels,
	}, []string{"result"})
	m.publishQueueLen = gauge("publish_queue_length", "Batches waiting to be published")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("http_requests_total"),
		Help: "Total number of HTTP requests by endpoint and method", ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("http_request_duration_milliseconds"),
		Help: "HTTP request duration in milliseconds", ConstLabels: constLabels, Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("errors_by_endpoint_total"),
		Help: "Total number of errors by endpoint", ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("errors_by_type_total"),
		Help: "Total number of errors by type", ConstLabels: constLabels,
	}, []string{"error_type", "severity"})

	m.dashboardFetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("dashboard_fetches_total"),
		Help: "Dashboard fetches of cleaned logs by result", ConstLabels: constLabels,
	}, []string{"result"})
	m.dashboardFetchLatency = histogram("dashboard_fetch_latency_milliseconds", "Dashboard fetch round trip in milliseconds")
	m.dashboardCacheHits = counter("dashboard_cache_hits_total", "Dashboard fetches served from the TTL cache")
	m.dashboardCacheMisses = counter("dashboard_cache_misses_total", "Dashboard fetches that went to the network")
	m.dashboardRows = gauge("dashboard_rows", "Rows in the most recent dashboard frame")

	m.systemMemoryUsage = gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = gauge("system_goroutine_count", "Number of goroutines")
}

// RecordBatchGenerated records one appended batch of n records.
func RecordBatchGenerated(n int, latencyMs float64) {
	globalManager.batchesGenerated.Inc()
	globalManager.recordsGenerated.Add(float64(n))
	globalManager.batchLatency.Observe(latencyMs)
}

// UpdateStoreSize sets the current and lifetime store sizes.
func UpdateStoreSize(current int, total int64) {
	globalManager.storeRecords.Set(float64(current))
	globalManager.storeTotal.Set(float64(total))
}

// RecordStoreTrimmed counts records evicted by retention.
func RecordStoreTrimmed(n int) {
	globalManager.storeTrimmed.Add(float64(n))
}

// RecordClean records the outcome of one cleaning pass.
func RecordClean(kept, dropped int, latencyMs float64) {
	globalManager.cleanKept.Add(float64(kept))
	globalManager.cleanDropped.Add(float64(dropped))
	globalManager.cleanLatency.Observe(latencyMs)
}

// RecordPublish counts a batch by publish outcome: queued, dropped, sent, failed.
func RecordPublish(result string) {
	globalManager.publishBatches.WithLabelValues(result).Inc()
}

// UpdatePublishQueueLength sets the number of batches waiting to be published.
func UpdatePublishQueueLength(n int) {
	globalManager.publishQueueLen.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordDashboardFetch records a network fetch by result: ok, connection_error, status_error, decode_error.
func RecordDashboardFetch(result string, latencyMs float64) {
	globalManager.dashboardFetches.WithLabelValues(result).Inc()
	globalManager.dashboardFetchLatency.Observe(latencyMs)
}

// RecordDashboardCache records whether a fetch was served from cache.
func RecordDashboardCache(hit bool) {
	if hit {
		globalManager.dashboardCacheHits.Inc()
		return
	}
	globalManager.dashboardCacheMisses.Inc()
}

// UpdateDashboardRows sets the row count of the latest frame.
func UpdateDashboardRows(n int) {
	globalManager.dashboardRows.Set(float64(n))
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
