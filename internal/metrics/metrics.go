// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmorate_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmorate_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// Domain
	FriendshipTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_friendship_transitions_total",
			Help: "Friendship state changes",
		},
		[]string{"transition"}, // "requested", "confirmed", "removed", "downgraded"
	)

	LikeChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_like_changes_total",
			Help: "Film likes added and removed",
		},
		[]string{"action"}, // "added", "removed"
	)

	// Activity events
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_activity_events_total",
			Help: "Activity events handed to the broker, by result",
		},
		[]string{"type", "result"}, // result: "sent", "dropped", "failed"
	)
)

// Transition labels.
const (
	TransitionRequested  = "requested"
	TransitionConfirmed  = "confirmed"
	TransitionRemoved    = "removed"
	TransitionDowngraded = "downgraded"
)
