// Package metrics defines prometheus collectors for the HTTP surface and the
// vault operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gemini_vault_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gemini_vault_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by route",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route"},
	)

	// VaultOpsTotal counts vault operations by op and outcome.
	VaultOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gemini_vault_operations_total",
			Help: "Token vault operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)
