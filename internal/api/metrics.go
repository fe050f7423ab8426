package api

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/phylo/pkg/observability"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phylo_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "phylo_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "phylo_http_requests_in_flight",
		Help: "HTTP requests currently being served",
	})

	parseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phylo_parse_total",
		Help: "Parse calls by input format and result",
	}, []string{"format", "result"})

	parseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "phylo_parse_duration_seconds",
		Help:    "Time spent parsing input",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"format"})

	treesParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phylo_trees_parsed_total",
		Help: "Trees read from successful parses",
	})

	editTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phylo_edit_total",
		Help: "Edit operations by operation and result",
	}, []string{"op", "result"})

	editDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "phylo_edit_duration_seconds",
		Help:    "Time spent per edit operation",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{"op"})

	analyzeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "phylo_analyze_duration_seconds",
		Help:    "Time spent computing tree summaries",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	cacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "phylo_cache_events_total",
		Help: "Cache hits, misses and writes by key type",
	}, []string{"key_type", "event"})

	cacheSetBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phylo_cache_set_bytes_total",
		Help: "Bytes written to the cache",
	})
)

// promHooks records observability events as Prometheus metrics.
type promHooks struct{}

// RegisterMetrics routes pipeline, cache and HTTP events to the Prometheus
// collectors served on /metrics.
func RegisterMetrics() {
	h := promHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (promHooks) OnParseStart(context.Context, string) {}

func (promHooks) OnParseComplete(_ context.Context, format string, treeCount int, d time.Duration, err error) {
	parseTotal.WithLabelValues(format, result(err)).Inc()
	parseDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		treesParsed.Add(float64(treeCount))
	}
}

func (promHooks) OnEditComplete(_ context.Context, op string, d time.Duration, err error) {
	editTotal.WithLabelValues(op, result(err)).Inc()
	editDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (promHooks) OnAnalyzeStart(context.Context, int) {}

func (promHooks) OnAnalyzeComplete(_ context.Context, _ int, d time.Duration, _ error) {
	analyzeDuration.Observe(d.Seconds())
}

func (promHooks) OnCacheHit(_ context.Context, keyType string) {
	cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (promHooks) OnCacheMiss(_ context.Context, keyType string) {
	cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (promHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	cacheEvents.WithLabelValues(keyType, "set").Inc()
	cacheSetBytes.Add(float64(size))
}

func (promHooks) OnRequest(context.Context, string, string) {
	httpInFlight.Inc()
}

func (promHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	httpInFlight.Dec()
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
