package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/phylolane/pkg/errors"
)

func TestMetricsPipeline(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnBuildComplete(ctx, "t", 12, time.Millisecond, nil)
	m.OnAllocateComplete(ctx, "t", 3, time.Millisecond, nil)
	m.OnAllocateComplete(ctx, "t", 0, time.Millisecond, &errors.LaneExhaustionError{NodeID: "x"})
	m.OnIndexComplete(ctx, 10, 5, time.Millisecond, nil)

	if got := testutil.ToFloat64(m.stageTotal.WithLabelValues("allocate", "ok")); got != 1 {
		t.Errorf("allocate ok = %g, want 1", got)
	}
	if got := testutil.ToFloat64(m.stageTotal.WithLabelValues("allocate", "error")); got != 1 {
		t.Errorf("allocate error = %g, want 1", got)
	}
	if got := testutil.ToFloat64(m.exhaustions); got != 1 {
		t.Errorf("exhaustions = %g, want 1", got)
	}
	if got := testutil.ToFloat64(m.indexPairs); got != 5 {
		t.Errorf("index pairs = %g, want 5", got)
	}
}

func TestMetricsCacheAndHTTP(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnCacheMiss(ctx, "layout")
	m.OnCacheSet(ctx, "layout", 100)
	m.OnCacheHit(ctx, "layout")
	m.OnCacheHit(ctx, "layout")
	if got := testutil.ToFloat64(m.cacheEvents.WithLabelValues("layout", "hit")); got != 2 {
		t.Errorf("hits = %g, want 2", got)
	}
	if got := testutil.ToFloat64(m.cacheBytes.WithLabelValues("layout")); got != 100 {
		t.Errorf("bytes = %g, want 100", got)
	}

	m.OnRequest(ctx, "GET", "/healthz")
	if got := testutil.ToFloat64(m.httpInFlight); got != 1 {
		t.Errorf("in flight = %g, want 1", got)
	}
	m.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/healthz", "200")); got != 1 {
		t.Errorf("requests = %g, want 1", got)
	}
	if got := testutil.ToFloat64(m.httpInFlight); got != 0 {
		t.Errorf("in flight = %g, want 0", got)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.OnCacheMiss(context.Background(), "index")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `phylolane_cache_events_total{event="miss",key_type="index"} 1`) {
		t.Errorf("exposition missing cache counter:\n%s", body)
	}
}
