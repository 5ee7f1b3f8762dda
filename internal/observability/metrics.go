package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	RecordsValidatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "message_records_validated_total",
			Help: "Raw message records processed by the validator",
		},
		[]string{"result"},
	)

	AggregationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thread_aggregations_total",
			Help: "Conversation list aggregations performed",
		},
	)

	DeliveryTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_transitions_total",
			Help: "Delivery status transitions applied",
		},
		[]string{"to"},
	)

	HeartbeatsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "presence_heartbeats_total",
			Help: "Presence heartbeats recorded",
		},
	)

	NudgesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nudges_total",
			Help: "Nudge attempts by outcome",
		},
		[]string{"outcome"},
	)

	WebSocketConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_connections_total",
			Help: "Websocket connections accepted",
		},
		[]string{"service"},
	)
)
