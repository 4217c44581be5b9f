package web

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"solana-token-desk/internal/observability"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMiddleware wraps the mux with request logging and metrics.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		observability.DefaultMetrics.HTTPInflight.Inc()
		next.ServeHTTP(rec, r)
		observability.DefaultMetrics.HTTPInflight.Dec()

		elapsed := time.Since(start)
		route := r.URL.Path
		if pattern := r.Pattern; pattern != "" {
			route = pattern
		}
		observability.RecordHTTPRequest(route, strconv.Itoa(rec.status), elapsed.Seconds())

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", elapsed))
	})
}
