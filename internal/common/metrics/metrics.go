// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "path"},
	)

	AICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_calls_total",
			Help: "Total number of chat-completion calls by flow and outcome",
		},
		[]string{"flow", "outcome"},
	)

	AIFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_fallbacks_total",
			Help: "Total number of fallback substitutions for unparsable AI output",
		},
		[]string{"flow"},
	)

	// Incremented when the parsed explanation count differs from the ranked
	// candidate count; positional binding then leaves entries unexplained.
	ExplanationCountMismatch = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_explanation_count_mismatch_total",
			Help: "Total recommendations where explanation count != ranked count",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of booking notifications sent by channel and status",
		},
		[]string{"channel", "status"},
	)
)
