// Package metrics provides Prometheus metrics for the stroke pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Pipeline metrics
	framesProcessed  prometheus.Counter
	framesDropped    prometheus.Counter
	posesDetected    prometheus.Counter
	framesNoPose     prometheus.Counter
	strokesDetected  *prometheus.CounterVec
	duplicateStrokes prometheus.Counter
	frameLatency     prometheus.Histogram
	estimatorLatency prometheus.Histogram

	// Buffer and queue metrics
	bufferFill       prometheus.Gauge
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueDrops       prometheus.Counter

	// Session metrics
	sessionActive prometheus.Gauge
	strokeRate    prometheus.Gauge
	strokeCount   prometheus.Gauge
	snapshotReads prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go collector noise.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "strokecore",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.framesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "frames_processed_total",
		Help: "Total number of frames run through the pipeline",
	})
	m.framesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "frames_dropped_total",
		Help: "Total number of frames dropped because the pipeline was busy",
	})
	m.posesDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "poses_detected_total",
		Help: "Total number of frames with a pose detection",
	})
	m.framesNoPose = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "frames_no_pose_total",
		Help: "Total number of frames with no pose detection",
	})
	m.strokesDetected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "strokes_detected_total",
		Help: "Total number of registered stroke events",
	}, []string{"limb"})
	m.duplicateStrokes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "strokes_duplicate_total",
		Help: "Total number of stroke registrations rejected as duplicates",
	})
	m.frameLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "frame_latency_milliseconds",
		Help:    "Histogram of per-frame processing latency in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.estimatorLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "estimator_latency_milliseconds",
		Help:    "Histogram of pose estimator latency in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.bufferFill = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "buffer_fill",
		Help: "Current number of frames retained in the landmark buffer",
	})
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Current size of the frame queue",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Configured capacity of the frame queue",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization",
		Help: "Frame queue fill ratio (0-1)",
	})
	m.queueDrops = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_drops_total",
		Help: "Total number of frames rejected by a full queue",
	})

	m.sessionActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "session_active",
		Help: "1 while a session is active, 0 otherwise",
	})
	m.strokeRate = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "stroke_rate",
		Help: "Current strokes-per-minute over the rolling window",
	})
	m.strokeCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "stroke_count",
		Help: "Cumulative stroke count of the active session",
	})
	m.snapshotReads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshot_reads_total",
		Help: "Total number of session snapshot reads",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "Total HTTP requests by endpoint and status",
	}, []string{"endpoint", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_milliseconds",
		Help:    "Histogram of HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "errors_total",
		Help: "Total errors by component and kind",
	}, []string{"component", "kind"})
}

// Handler returns an HTTP handler serving the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// Package-level helpers against the global manager.

func RecordFrameProcessed()  { globalManager.framesProcessed.Inc() }
func RecordFrameDropped()    { globalManager.framesDropped.Inc() }
func RecordPoseDetected()    { globalManager.posesDetected.Inc() }
func RecordFrameNoPose()     { globalManager.framesNoPose.Inc() }
func RecordSnapshotRead()    { globalManager.snapshotReads.Inc() }
func RecordQueueDrop()       { globalManager.queueDrops.Inc() }
func RecordDuplicateStroke() { globalManager.duplicateStrokes.Inc() }

func RecordStrokeDetected(limb string) {
	globalManager.strokesDetected.WithLabelValues(limb).Inc()
}

func RecordFrameLatency(ms float64)     { globalManager.frameLatency.Observe(ms) }
func RecordEstimatorLatency(ms float64) { globalManager.estimatorLatency.Observe(ms) }

func UpdateBufferFill(n int)             { globalManager.bufferFill.Set(float64(n)) }
func UpdateQueueSize(n int)              { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int)          { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(f float64)   { globalManager.queueUtilization.Set(f) }
func UpdateStrokeRate(rate float64)      { globalManager.strokeRate.Set(rate) }
func UpdateStrokeCount(n int)            { globalManager.strokeCount.Set(float64(n)) }

func UpdateSessionActive(active bool) {
	if active {
		globalManager.sessionActive.Set(1)
		return
	}
	globalManager.sessionActive.Set(0)
}

func RecordHTTPRequest(endpoint, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, status).Inc()
}

func RecordHTTPRequestDuration(endpoint string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint).Observe(ms)
}

func RecordErrorByComponent(component, kind string) {
	globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
}
