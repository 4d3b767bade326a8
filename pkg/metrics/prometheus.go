// Package metrics provides Prometheus metrics for the reputation service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Score histogram buckets on the canonical [0,1000] scale.
var scoreBuckets = prometheus.LinearBuckets(0, 100, 11) //nolint:gochecknoglobals // constant bucket layout

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Analysis
	analyses         *prometheus.CounterVec
	analysisFailures *prometheus.CounterVec
	analysisLatency  *prometheus.HistogramVec
	scores           *prometheus.HistogramVec

	// Ingestion
	transactionsRecorded  prometheus.Counter
	transactionsDuplicate prometheus.Counter
	transactionsRejected  prometheus.Counter

	// NFTs
	nftsMinted *prometheus.CounterVec

	// Queue and workers
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDropped       prometheus.Counter
	workerCount        prometheus.Gauge
	workerBusy         prometheus.Gauge
	workerJobLatency   prometheus.Histogram
	workerErrors       prometheus.Counter
	leaderboardWallets prometheus.Gauge
	leaderboardUpdates prometheus.Counter
	wsClients          prometheus.Gauge
	wsBroadcasts       prometheus.Counter

	// Store
	storeLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
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

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "reputation",
		latencyBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.analyses = auto.NewCounterVec(m.counterOpts("analyses_total", "Completed wallet analyses by pipeline variant"), []string{"variant"})
	m.analysisFailures = auto.NewCounterVec(m.counterOpts("analysis_failures_total", "Wallet analyses that failed by pipeline variant"), []string{"variant"})
	m.analysisLatency = auto.NewHistogramVec(m.histogramOpts("analysis_latency_milliseconds", "Wallet analysis latency in milliseconds", m.latencyBuckets), []string{"variant"})
	m.scores = auto.NewHistogramVec(m.histogramOpts("score_canonical", "Distribution of canonical reputation scores", scoreBuckets), []string{"variant"})

	m.transactionsRecorded = auto.NewCounter(m.counterOpts("transactions_recorded_total", "Transactions accepted into the feed"))
	m.transactionsDuplicate = auto.NewCounter(m.counterOpts("transactions_duplicate_total", "Transactions dropped as duplicates"))
	m.transactionsRejected = auto.NewCounter(m.counterOpts("transactions_rejected_total", "Transactions rejected by validation"))
	m.nftsMinted = auto.NewCounterVec(m.counterOpts("nfts_minted_total", "Soulbound NFTs issued by level"), []string{"level"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Re-analysis jobs waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum re-analysis queue capacity"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total", "Re-analysis jobs enqueued"))
	m.queueDropped = auto.NewCounter(m.counterOpts("queue_dropped_total", "Re-analysis jobs refused because the queue was full or closed"))
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured analysis workers"))
	m.workerBusy = auto.NewGauge(m.gaugeOpts("worker_busy", "Workers currently running a job"))
	m.workerJobLatency = auto.NewHistogram(m.histogramOpts("worker_job_latency_milliseconds", "End-to-end job latency from enqueue to publish", m.latencyBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Jobs that failed in a worker"))
	m.leaderboardWallets = auto.NewGauge(m.gaugeOpts("leaderboard_wallets", "Wallets ranked on the leaderboard"))
	m.leaderboardUpdates = auto.NewCounter(m.counterOpts("leaderboard_updates_total", "Leaderboard score upserts"))
	m.wsClients = auto.NewGauge(m.gaugeOpts("ws_clients", "Connected websocket subscribers"))
	m.wsBroadcasts = auto.NewCounter(m.counterOpts("ws_broadcasts_total", "Score updates broadcast to subscribers"))

	m.storeLatency = auto.NewHistogramVec(m.histogramOpts("store_latency_milliseconds", "Store operation latency in milliseconds", m.latencyBuckets), []string{"backend", "operation"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.latencyBuckets), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component and type"), []string{"component", "error_type"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Errors by endpoint"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordAnalysis records a completed analysis, its latency and its canonical score.
func RecordAnalysis(variant string, latencyMs float64, canonicalScore int) {
	globalManager.analyses.WithLabelValues(variant).Inc()
	globalManager.analysisLatency.WithLabelValues(variant).Observe(latencyMs)
	globalManager.scores.WithLabelValues(variant).Observe(float64(canonicalScore))
}

// RecordAnalysisFailure increments the failure counter of variant.
func RecordAnalysisFailure(variant string) {
	globalManager.analysisFailures.WithLabelValues(variant).Inc()
}

// RecordTransaction increments the accepted transactions counter.
func RecordTransaction() {
	globalManager.transactionsRecorded.Inc()
}

// RecordTransactionDuplicate increments the duplicate transactions counter.
func RecordTransactionDuplicate() {
	globalManager.transactionsDuplicate.Inc()
}

// RecordTransactionRejected increments the rejected transactions counter.
func RecordTransactionRejected() {
	globalManager.transactionsRejected.Inc()
}

// RecordNFTMinted counts an issued NFT of the given level.
func RecordNFTMinted(level int) {
	globalManager.nftsMinted.WithLabelValues(strconv.Itoa(level)).Inc()
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueued jobs counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDropped increments the refused jobs counter.
func RecordQueueDropped() {
	globalManager.queueDropped.Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// WorkerBusy adjusts the busy workers gauge by delta.
func WorkerBusy(delta int) {
	globalManager.workerBusy.Add(float64(delta))
}

// RecordWorkerJobLatency records end-to-end job latency.
func RecordWorkerJobLatency(latencyMs float64) {
	globalManager.workerJobLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// UpdateLeaderboardWallets sets the number of ranked wallets.
func UpdateLeaderboardWallets(count int) {
	globalManager.leaderboardWallets.Set(float64(count))
}

// RecordLeaderboardUpdate increments the leaderboard upsert counter.
func RecordLeaderboardUpdate() {
	globalManager.leaderboardUpdates.Inc()
}

// UpdateWSClients sets the number of websocket subscribers.
func UpdateWSClients(count int) {
	globalManager.wsClients.Set(float64(count))
}

// RecordWSBroadcast increments the broadcast counter.
func RecordWSBroadcast() {
	globalManager.wsBroadcasts.Inc()
}

// RecordStoreLatency records a store operation latency.
func RecordStoreLatency(backend, operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(backend, operation).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
