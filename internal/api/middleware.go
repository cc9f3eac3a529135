package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"express-ledger-service/internal/platform/logging"
	"express-ledger-service/internal/platform/metrics"
	"express-ledger-service/internal/platform/obs"
)

const requestIDHeader = "X-Request-ID"

// statusWriter captures the final HTTP status code and number of bytes written.
// This helps distinguish "handler returned 200" from "client received a response".
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware tags each request with an id, then logs and counts it by
// its matched route pattern once the handler returns.
func loggingMiddleware(log logging.Logger, m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		sw := &statusWriter{ResponseWriter: w}
		// The mux records the matched pattern on the request it is handed.
		req := r.WithContext(obs.WithRequestID(r.Context(), reqID))

		next.ServeHTTP(sw, req)

		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		route := req.Pattern
		if route == "" {
			route = "unmatched"
		}
		d := time.Since(start)
		m.ObserveRequest(r.Method, route, sw.status, d)

		fields := []logging.Field{
			logging.String("req_id", reqID),
			logging.String("method", r.Method),
			logging.String("path", r.URL.RequestURI()),
			logging.String("route", route),
			logging.Int("status", sw.status),
			logging.Int("bytes", sw.bytes),
			logging.Int64("dur_ms", d.Milliseconds()),
		}
		switch {
		case sw.status >= 500:
			log.Error("request failed", fields...)
		case sw.status >= 400:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request", fields...)
		}
	})
}

// recoverMiddleware turns a handler panic into a 500 response.
func recoverMiddleware(log logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				log.Error("handler panic",
					logging.String("req_id", obs.RequestID(r.Context())),
					logging.String("path", r.URL.Path),
					logging.Any("panic", v),
				)
				http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
