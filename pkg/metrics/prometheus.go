// Package metrics provides Prometheus metrics for the skipcheck service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultLatencyBucketsMs covers a fast local call up to a slow remote judge.
var defaultLatencyBucketsMs = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // immutable defaults

// Manager manages all Prometheus metrics for the skipcheck service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Analysis metrics
	analysesTotal         *prometheus.CounterVec
	analysisLatency       prometheus.Histogram
	suspiciousAccounts    prometheus.Counter
	submissionsInspected  prometheus.Counter
	suspiciousSubmissions prometheus.Counter

	// Remote platform metrics
	remoteCalls   *prometheus.CounterVec
	remoteLatency *prometheus.HistogramVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init rebuilds the global manager from opts on a fresh registry. It must run
// before any handler captures GetRegistry, i.e. once at startup.
func Init(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(customRegistry))...)
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skipcheck",
		subsystem:        "analysis",
		histogramBuckets: defaultLatencyBucketsMs,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.analysesTotal = auto.NewCounterVec(
		m.counterOpts("analyses_total", "Total number of handle analyses by outcome"),
		[]string{"outcome"},
	)
	m.analysisLatency = auto.NewHistogram(
		m.histogramOpts("analysis_latency_milliseconds", "End-to-end analysis latency in milliseconds"),
	)
	m.suspiciousAccounts = auto.NewCounter(
		m.counterOpts("suspicious_accounts_total", "Analyses that found at least one skipped submission"),
	)
	m.submissionsInspected = auto.NewCounter(
		m.counterOpts("submissions_inspected_total", "Submissions classified across all analyses"),
	)
	m.suspiciousSubmissions = auto.NewCounter(
		m.counterOpts("suspicious_submissions_total", "Skipped submissions found across all analyses"),
	)

	m.remoteCalls = auto.NewCounterVec(
		m.counterOpts("remote_calls_total", "Calls to the remote judging platform by endpoint and outcome"),
		[]string{"endpoint", "outcome"},
	)
	m.remoteLatency = auto.NewHistogramVec(
		m.histogramOpts("remote_latency_milliseconds", "Remote platform call latency in milliseconds"),
		[]string{"endpoint"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by HTTP endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that ended in an error"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutines", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds"),
	)
}

// Analysis Metrics Functions.

// RecordAnalysis counts one finished analysis and its latency.
func RecordAnalysis(outcome string, latencyMs float64) {
	globalManager.RecordAnalysis(outcome, latencyMs)
}

// RecordAnalysis counts one finished analysis and its latency.
func (m *Manager) RecordAnalysis(outcome string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.analysesTotal.WithLabelValues(outcome).Inc()
	m.analysisLatency.Observe(latencyMs)
}

// RecordClassification records the totals of one successful analysis.
func RecordClassification(total, suspicious int) {
	globalManager.RecordClassification(total, suspicious)
}

// RecordClassification records the totals of one successful analysis.
func (m *Manager) RecordClassification(total, suspicious int) {
	if !m.enabled {
		return
	}
	m.submissionsInspected.Add(float64(total))
	m.suspiciousSubmissions.Add(float64(suspicious))
	if suspicious > 0 {
		m.suspiciousAccounts.Inc()
	}
}

// Remote Platform Metrics Functions.

// RecordRemoteCall counts one remote call and observes its latency.
func RecordRemoteCall(endpoint, outcome string, latencyMs float64) {
	globalManager.RecordRemoteCall(endpoint, outcome, latencyMs)
}

// RecordRemoteCall counts one remote call and observes its latency.
func (m *Manager) RecordRemoteCall(endpoint, outcome string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.remoteCalls.WithLabelValues(endpoint, outcome).Inc()
	m.remoteLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
