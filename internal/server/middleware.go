package server

import (
	"net/http"
	"strconv"
	"time"

	"skillconnect/internal/common/logger"
	"skillconnect/internal/common/metrics"
	"skillconnect/internal/common/observability"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogging logs each request with its status and duration and feeds
// the prometheus and otel request metrics.
func RequestLogging(log logger.Logger, obs *observability.Observability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)
			route := r.URL.Path
			status := strconv.Itoa(recorder.status)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())
			if obs != nil {
				obs.RecordRequest(r.Context(), route, status)
				obs.RecordRequestDuration(r.Context(), duration, route)
			}

			log.Info("request", map[string]interface{}{
				"method":   r.Method,
				"path":     route,
				"status":   recorder.status,
				"duration": duration.String(),
			})
		})
	}
}
