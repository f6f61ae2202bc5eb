package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks implements [PipelineHooks], [CacheHooks], and [HTTPHooks]
// with Prometheus metrics. Register it for the hook categories a process
// needs; the serve command wires all three and exposes /metrics.
type PrometheusHooks struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	graphSize     prometheus.Histogram

	cacheOps *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPrometheusHooks creates hooks with all metrics registered on reg.
// Pass prometheus.DefaultRegisterer to use the default registry.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "trellis_pipeline_stage_duration_seconds",
				Help: "Duration of pipeline stages",
			},
			[]string{"stage"},
		),
		stageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trellis_pipeline_stage_errors_total",
				Help: "Total pipeline stage failures",
			},
			[]string{"stage"},
		),
		graphSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trellis_graph_nodes",
				Help:    "Node counts of built graphs",
				Buckets: prometheus.ExponentialBuckets(4, 4, 8),
			},
		),
		cacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trellis_cache_operations_total",
				Help: "Cache operations by key type and result",
			},
			[]string{"key_type", "result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trellis_http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "trellis_http_request_duration_seconds",
				Help: "HTTP request latency by route",
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(
		h.stageDuration, h.stageErrors, h.graphSize,
		h.cacheOps,
		h.httpRequests, h.httpDuration,
	)
	return h
}

// OnBuildStart does nothing; builds are measured on completion.
func (h *PrometheusHooks) OnBuildStart(context.Context, int, int) {}

// OnBuildComplete records build duration, graph size, and failures.
func (h *PrometheusHooks) OnBuildComplete(_ context.Context, states, layers int, d time.Duration, err error) {
	h.stageDuration.WithLabelValues("build").Observe(d.Seconds())
	if err != nil {
		h.stageErrors.WithLabelValues("build").Inc()
		return
	}
	h.graphSize.Observe(float64(states * layers))
}

// OnLayoutStart does nothing; layouts are measured on completion.
func (h *PrometheusHooks) OnLayoutStart(context.Context, int) {}

// OnLayoutComplete records layout duration and failures.
func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	h.stageDuration.WithLabelValues("layout").Observe(d.Seconds())
	if err != nil {
		h.stageErrors.WithLabelValues("layout").Inc()
	}
}

// OnRenderStart does nothing; renders are measured on completion.
func (h *PrometheusHooks) OnRenderStart(context.Context, []string) {}

// OnRenderComplete records render duration and failures.
func (h *PrometheusHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.stageDuration.WithLabelValues("render").Observe(d.Seconds())
	if err != nil {
		h.stageErrors.WithLabelValues("render").Inc()
	}
}

// OnCacheHit counts a hit for the key type.
func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss counts a miss for the key type.
func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet counts a write for the key type.
func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
}

// OnRequest does nothing; requests are counted on response.
func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

// OnResponse counts the request and records its latency. route should be
// the route pattern, not the raw URL, to keep label cardinality bounded.
func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
