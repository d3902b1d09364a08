package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"
)

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestMiddleware attaches request and correlation ids, applies the
// per-request deadline and logs each request.
func requestMiddleware(next http.Handler, timeout time.Duration, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := observability.NewRequestContext(r.Context(), r.Header.Get(headerCorrelationID))
		if id := r.Header.Get(headerRequestID); id != "" {
			ctx = observability.WithRequestID(ctx, id)
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		w.Header().Set(headerRequestID, observability.RequestIDFromContext(ctx))
		w.Header().Set(headerCorrelationID, observability.CorrelationIDFromContext(ctx))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		reqLogger := logger.With(
			observability.RequestIDKey, observability.RequestIDFromContext(ctx),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
		)
		observability.LogDuration(reqLogger, "http_request", start)
	})
}
