// Package metrics declares the Prometheus collectors shared across layers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	FriendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_requests_total",
			Help: "Friend request operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	IdentitySyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_identity_sync_total",
			Help: "Remote chat identity upserts by result",
		},
		[]string{"result"},
	)

	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "side_effect_failures_total",
			Help: "Best-effort side effects that failed and were swallowed",
		},
		[]string{"kind"},
	)
)
