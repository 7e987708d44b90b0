package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientMetrics_Records(t *testing.T) {
	m := NewClientMetrics()

	m.ObserveRequest("list_documents", "success", 120*time.Millisecond)
	m.ObserveRequest("list_documents", "success", 80*time.Millisecond)
	m.ObserveRequest("get_document", "transport_error", time.Second)
	m.RecordCacheEvent(CacheHit)
	m.SetBreakerOpen("reads", true)

	assert.InDelta(t, 2, testutil.ToFloat64(m.requestsTotal.WithLabelValues("list_documents", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requestsTotal.WithLabelValues("get_document", "transport_error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.cacheEvents.WithLabelValues(CacheHit)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.breakerState.WithLabelValues("reads")), 0)
}

func TestClientMetrics_NilIsNoop(t *testing.T) {
	var m *ClientMetrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("x", "success", time.Second)
		m.RecordCacheEvent(CacheMiss)
		m.SetBreakerOpen("reads", false)
	})
}

func TestClientMetrics_Handler(t *testing.T) {
	m := NewClientMetrics()
	m.RecordCacheEvent(CacheDedupe)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `meddoc_query_cache_events_total{event="dedupe"} 1`)
}
