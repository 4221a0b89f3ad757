// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns a private registry. A nil *Manager records nothing.
type Manager struct {
	Registry        *prometheus.Registry
	HTTPRequests    *prometheus.CounterVec
	HTTPLatency     *prometheus.HistogramVec
	CartOperations  *prometheus.CounterVec
	SideChannelErrs *prometheus.CounterVec
}

func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_operations_total",
		Help:      "Cart operations by kind and outcome.",
	}, []string{"op", "outcome"})

	sideErrs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "side_channel_errors_total",
		Help:      "Failures of best-effort dependencies (cache, search, queue, storage).",
	}, []string{"channel"})

	registry.MustRegister(
		httpRequests,
		httpLatency,
		cartOps,
		sideErrs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:        registry,
		HTTPRequests:    httpRequests,
		HTTPLatency:     httpLatency,
		CartOperations:  cartOps,
		SideChannelErrs: sideErrs,
	}
}

func (m *Manager) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// CartOp records one cart operation; outcome is "ok" or a short error kind.
func (m *Manager) CartOp(op, outcome string) {
	if m == nil {
		return
	}
	m.CartOperations.WithLabelValues(op, outcome).Inc()
}

func (m *Manager) SideChannelError(channel string) {
	if m == nil {
		return
	}
	m.SideChannelErrs.WithLabelValues(channel).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
