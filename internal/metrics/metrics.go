// Package metrics holds the prometheus collectors for stock operations and HTTP traffic.
//
// Collectors are registered on an injected prometheus.Registerer so tests can use a
// private registry. A nil *Stock or *HTTP records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "socks"

// Stock records ledger mutations.
type Stock struct {
	operations *prometheus.CounterVec
	units      *prometheus.CounterVec
}

// NewStock registers the stock collectors on reg.
func NewStock(reg prometheus.Registerer) *Stock {
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_operations_total",
		Help:      "Stock operations by kind (income, outcome, delete_all) and result.",
	}, []string{"operation", "result"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_units_total",
		Help:      "Pairs of socks moved in or out of stock.",
	}, []string{"operation"})
	reg.MustRegister(operations, units)
	return &Stock{operations: operations, units: units}
}

// Observe counts one operation; units are added only on success.
func (s *Stock) Observe(operation string, units int64, err error) {
	if s == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.operations.WithLabelValues(operation, result).Inc()
	if err == nil && units > 0 {
		s.units.WithLabelValues(operation).Add(float64(units))
	}
}

// HTTP records request counts and latencies per route.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP registers the HTTP collectors on reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, duration)
	return &HTTP{requests: requests, duration: duration}
}

// Observe records a finished request.
func (h *HTTP) Observe(method, route, status string, elapsed time.Duration) {
	if h == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	h.requests.WithLabelValues(method, route, status).Inc()
	h.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
