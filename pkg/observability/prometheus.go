package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusHooks implements DilationHooks, CacheHooks and HTTPHooks by
// updating Prometheus collectors.
type PrometheusHooks struct {
	gatherer prometheus.Gatherer

	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
	vertices     prometheus.Histogram
	filled       prometheus.Counter
	unassigned   prometheus.Counter
	cacheOps     *prometheus.CounterVec
	cacheBytes   prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// If reg is also a Gatherer (as *prometheus.Registry is), Handler serves
// from it; otherwise Handler serves the default gatherer.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		gatherer: prometheus.DefaultGatherer,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "surflabel_dilations_total",
			Help: "Dilation runs by outcome",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "surflabel_dilation_duration_seconds",
			Help:    "Wall time of dilation runs",
			Buckets: prometheus.DefBuckets,
		}),
		vertices: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "surflabel_dilation_vertices",
			Help:    "Surface vertex count per dilation run",
			Buckets: prometheus.ExponentialBuckets(1000, 4, 8),
		}),
		filled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "surflabel_vertices_filled_total",
			Help: "Vertices that gained a label through dilation",
		}),
		unassigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "surflabel_vertices_unassigned_total",
			Help: "Vertices left unassigned after dilation",
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "surflabel_cache_operations_total",
			Help: "Cache lookups and writes",
		}, []string{"key_type", "op"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "surflabel_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "surflabel_http_requests_total",
			Help: "API requests by route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "surflabel_http_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		h.gatherer = g
	}
	reg.MustRegister(
		h.runs, h.runDuration, h.vertices, h.filled, h.unassigned,
		h.cacheOps, h.cacheBytes, h.httpRequests, h.httpLatency,
	)
	return h
}

// Handler returns an http.Handler exposing the metrics.
func (h *PrometheusHooks) Handler() http.Handler {
	return promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})
}

func (h *PrometheusHooks) OnDilateStart(_ context.Context, vertices, _ int) {
	h.vertices.Observe(float64(vertices))
}

func (h *PrometheusHooks) OnColumnComplete(_ context.Context, _ string, filled, unassigned int) {
	h.filled.Add(float64(filled))
	h.unassigned.Add(float64(unassigned))
}

func (h *PrometheusHooks) OnDilateComplete(_ context.Context, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	h.runs.WithLabelValues(status).Inc()
	h.runDuration.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}

// OnRequest is a no-op; requests are counted when the response is recorded.
func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ DilationHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
