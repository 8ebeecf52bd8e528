package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/metrics"
)

// AccessLog logs one line per request and records request latency by route
// pattern.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	log = logger.ForComponent(log, "http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			metrics.HTTPRequestDuration.WithLabelValues(route, r.Method, strconv.Itoa(status)).Observe(elapsed.Seconds())

			fields := map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     status,
				"bytes":      ww.BytesWritten(),
				"durationMs": elapsed.Milliseconds(),
				"requestId":  chimw.GetReqID(r.Context()),
				"remoteAddr": r.RemoteAddr,
			}
			if status >= http.StatusInternalServerError {
				log.Error("request completed", fields)
			} else {
				log.Info("request completed", fields)
			}
		})
	}
}
