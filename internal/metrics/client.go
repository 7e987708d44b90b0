// Package metrics exposes prometheus counters for API calls and the query cache.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache events recorded by the query cache.
const (
	CacheHit        = "hit"
	CacheMiss       = "miss"
	CacheDedupe     = "dedupe"
	CacheSuperseded = "superseded"
)

// ClientMetrics holds the client-side collectors. A nil *ClientMetrics records nothing.
type ClientMetrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheEvents     *prometheus.CounterVec
	breakerState    *prometheus.GaugeVec
}

// NewClientMetrics builds a private registry with all collectors registered.
func NewClientMetrics() *ClientMetrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meddoc",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total backend requests by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "meddoc",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend request duration in seconds by operation.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"operation"},
	)
	cacheEvents := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meddoc",
			Subsystem: "query",
			Name:      "cache_events_total",
			Help:      "Query cache hits, misses, joined in-flight calls and discarded resolutions.",
		},
		[]string{"event"},
	)
	breakerState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "meddoc",
			Subsystem: "api",
			Name:      "circuit_open",
			Help:      "1 while the named circuit breaker is open.",
		},
		[]string{"breaker"},
	)

	registry.MustRegister(requestsTotal, requestDuration, cacheEvents, breakerState)

	return &ClientMetrics{
		registry:        registry,
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
		cacheEvents:     cacheEvents,
		breakerState:    breakerState,
	}
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *ClientMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *ClientMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished backend request.
func (m *ClientMetrics) ObserveRequest(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(operation, outcome).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCacheEvent counts one query cache event.
func (m *ClientMetrics) RecordCacheEvent(event string) {
	if m == nil {
		return
	}
	m.cacheEvents.WithLabelValues(event).Inc()
}

// SetBreakerOpen flips the open gauge for a breaker.
func (m *ClientMetrics) SetBreakerOpen(name string, open bool) {
	if m == nil {
		return
	}
	value := 0.0
	if open {
		value = 1
	}
	m.breakerState.WithLabelValues(name).Set(value)
}

// Serve exposes /metrics on addr until ctx ends.
func (m *ClientMetrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Metrics server shutdown failed", "error", err)
		}
	}()

	slog.Debug("Serving metrics", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
