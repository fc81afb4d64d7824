package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/MFahim14/test-assignment/internal/metrics"
)

// statusClientClosed labels requests whose client went away before anything was written.
const statusClientClosed = 499

// accessLog logs one line per request and records request metrics. The route label is the
// chi pattern, resolved after routing, to keep metric cardinality low.
func accessLog(logger *zap.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
				if ww.BytesWritten() == 0 && r.Context().Err() != nil {
					status = statusClientClosed
				}
			}
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)

			if m != nil {
				m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
				m.Durations.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
			}
			logger.Info("http_request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", elapsed),
			)
		})
	}
}

// recoverJSON converts a panic into a JSON 500 so a faulty handler never takes the
// server down or leaves the client without a response body.
func recoverJSON(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic",
						zap.String("request_id", middleware.GetReqID(r.Context())),
						zap.Any("recovered", rec),
					)
					writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
