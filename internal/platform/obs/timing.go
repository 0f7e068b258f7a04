package obs

import (
	"context"
	"time"

	"transport-route-service/internal/platform/logger"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// RequestID returns the request id stored by the HTTP middleware, if any.
func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}

// Time logs the duration of an operation once the returned func is deferred
// with a pointer to the operation's named error result.
func Time(ctx context.Context, log logger.Logger, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Error("operation failed", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds(), "err", *errp)
			return
		}
		log.Info("operation finished", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds())
	}
}
