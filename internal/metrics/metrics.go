// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons used as the "reason" label of WebhookRejections.
const (
	ReasonAuth       = "auth"
	ReasonValidation = "validation"
	ReasonPlatform   = "platform"
	ReasonTimestamp  = "timestamp"
	ReasonTooLarge   = "too_large"
	ReasonParse      = "parse"
	ReasonStore      = "store"
	ReasonInternal   = "internal"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmhook_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dmhook_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Webhook metrics
	DMsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmhook_dms_received_total",
			Help: "Total DMs accepted and stored",
		},
		[]string{"platform"},
	)

	WebhookRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmhook_webhook_rejections_total",
			Help: "Total webhook calls that did not store a DM",
		},
		[]string{"reason"},
	)

	// Store metrics
	StoreInsertDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dmhook_store_insert_duration_seconds",
			Help:    "Datastore insert latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"driver"},
	)
)
