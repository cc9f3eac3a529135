package obs

import (
	"context"
	"time"

	"express-ledger-service/internal/platform/logging"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID returns a context carrying id for Time to log.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of an operation. Use as
//
//	defer obs.Time(ctx, log, "express.Import")(&err)
func Time(ctx context.Context, log logging.Logger, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		fields := []logging.Field{
			logging.String("req_id", reqID),
			logging.String("op", name),
			logging.Int64("dur_ms", time.Since(start).Milliseconds()),
		}

		if errp != nil && *errp != nil {
			log.Warn("op failed", append(fields, logging.Err(*errp))...)
			return
		}
		log.Debug("op done", fields...)
	}
}
