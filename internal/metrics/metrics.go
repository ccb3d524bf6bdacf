// Package metrics defines the Prometheus instrumentation exposed by
// "voxtrace serve": build timings for the SVO/BVH construction path
// and per-frame render statistics, grounded on the teacher's
// promauto-based daemon metrics (internal/daemon/metrics.go).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector this engine registers.
// Construct exactly one with New and thread it through the build and
// serve commands; promauto registers each collector with the default
// registry at construction, so a second Metrics in the same process
// would panic on duplicate registration.
type Metrics struct {
	svoBuildDuration prometheus.Histogram
	svoNodeCount     prometheus.Gauge
	bvhBuildDuration prometheus.Histogram
	bvhNodeCount     prometheus.Gauge

	framesRendered  prometheus.Counter
	frameDuration   prometheus.Histogram
	raysTraced      prometheus.Counter
	framesDropped   prometheus.Counter

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates and registers every metric under the "voxtrace"
// namespace.
func New() *Metrics {
	const namespace = "voxtrace"

	return &Metrics{
		svoBuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "svo_duration_seconds",
			Help:      "Time taken to construct an SVO node pool from a voxel grid.",
			Buckets:   prometheus.DefBuckets,
		}),
		svoNodeCount: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "svo_nodes",
			Help:      "Number of nodes in the most recently built SVO node pool.",
		}),
		bvhBuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "bvh_duration_seconds",
			Help:      "Time taken to construct a BVH over scene instances.",
			Buckets:   prometheus.DefBuckets,
		}),
		bvhNodeCount: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "bvh_nodes",
			Help:      "Number of nodes in the most recently built BVH.",
		}),

		framesRendered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "frames_total",
			Help:      "Total number of frames rendered.",
		}),
		frameDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "frame_duration_seconds",
			Help:      "Wall-clock time to render one frame across all workers.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}),
		raysTraced: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "rays_total",
			Help:      "Total number of primary and shadow rays traced.",
		}),
		framesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "frames_dropped_total",
			Help:      "Frames skipped after a transient error (§7 KindTransient).",
		}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Frame cache hits.",
		}),
		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Frame cache misses.",
		}),

		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, labeled by route and status class.",
		}, []string{"route", "status"}),
		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, labeled by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// RecordSVOBuild records an SVO construction pass.
func (m *Metrics) RecordSVOBuild(d time.Duration, nodeCount int) {
	m.svoBuildDuration.Observe(d.Seconds())
	m.svoNodeCount.Set(float64(nodeCount))
}

// RecordBVHBuild records a BVH construction pass.
func (m *Metrics) RecordBVHBuild(d time.Duration, nodeCount int) {
	m.bvhBuildDuration.Observe(d.Seconds())
	m.bvhNodeCount.Set(float64(nodeCount))
}

// RecordFrame records one rendered frame and the rays it traced.
func (m *Metrics) RecordFrame(d time.Duration, rays int64) {
	m.framesRendered.Inc()
	m.frameDuration.Observe(d.Seconds())
	m.raysTraced.Add(float64(rays))
}

// RecordFrameDropped records a transient per-frame failure (§7).
func (m *Metrics) RecordFrameDropped() {
	m.framesDropped.Inc()
}

// RecordCacheResult records a frame-cache lookup outcome.
func (m *Metrics) RecordCacheResult(hit bool) {
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

// RecordHTTPRequest records one served HTTP request for the gin
// access-log middleware (internal/streamserver).
func (m *Metrics) RecordHTTPRequest(route, status string, d time.Duration) {
	m.httpRequests.WithLabelValues(route, status).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}
