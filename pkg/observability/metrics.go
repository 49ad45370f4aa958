package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/phylolane/pkg/errors"
)

// Metrics implements every hook interface with Prometheus collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	treeNodes     prometheus.Histogram
	lanesInUse    prometheus.Histogram
	exhaustions   prometheus.Counter
	indexPairs    prometheus.Gauge
	cacheEvents   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	httpInFlight  prometheus.Gauge
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewMetrics registers the phylolane collectors with reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		stageTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "phylolane_stage_total",
			Help: "Pipeline stages run, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "phylolane_stage_duration_seconds",
			Help:    "Duration of pipeline stages.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage"}),
		treeNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "phylolane_tree_nodes",
			Help:    "Number of lineages per built tree.",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
		lanesInUse: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "phylolane_lanes_in_use",
			Help:    "Distinct lanes used per allocated tree.",
			Buckets: prometheus.LinearBuckets(1, 2, 11),
		}),
		exhaustions: f.NewCounter(prometheus.CounterOpts{
			Name: "phylolane_lane_exhaustions_total",
			Help: "Lane allocations that ran out of lanes.",
		}),
		indexPairs: f.NewGauge(prometheus.GaugeOpts{
			Name: "phylolane_index_pairs",
			Help: "Pairs held by the most recently built index.",
		}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "phylolane_cache_events_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "phylolane_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "phylolane_http_requests_in_flight",
			Help: "HTTP requests being served.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "phylolane_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "phylolane_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.stageTotal.WithLabelValues(name, outcome(err)).Inc()
	m.stageDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (m *Metrics) OnBuildStart(context.Context, string, int) {}

func (m *Metrics) OnBuildComplete(_ context.Context, _ string, nodes int, d time.Duration, err error) {
	m.stage("build", d, err)
	if err == nil {
		m.treeNodes.Observe(float64(nodes))
	}
}

func (m *Metrics) OnAllocateComplete(_ context.Context, _ string, lanes int, d time.Duration, err error) {
	m.stage("allocate", d, err)
	if errors.Is(err, errors.ErrCodeLaneExhaustion) {
		m.exhaustions.Inc()
	}
	if err == nil {
		m.lanesInUse.Observe(float64(lanes))
	}
}

func (m *Metrics) OnIndexComplete(_ context.Context, _, pairs int, d time.Duration, err error) {
	m.stage("index", d, err)
	if err == nil {
		m.indexPairs.Set(float64(pairs))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
