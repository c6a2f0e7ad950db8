// ABOUTME: Prometheus metrics for the session lifecycle and HTTP surface
// ABOUTME: Exposed on /metrics via promhttp

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshTotal counts token refresh attempts by outcome:
	// success, failure, stale (response discarded after logout raced it).
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tranquil",
			Subsystem: "session",
			Name:      "token_refresh_total",
			Help:      "Token refresh attempts by outcome",
		},
		[]string{"outcome"},
	)

	// SessionsActive tracks the number of live sessions in the registry.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tranquil",
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of live sessions",
		},
	)

	// LoginTotal counts login attempts by outcome: success, failure, unverified.
	LoginTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tranquil",
			Subsystem: "auth",
			Name:      "login_total",
			Help:      "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// RequestDuration observes gateway request latency by method and status.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tranquil",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Gateway request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)
