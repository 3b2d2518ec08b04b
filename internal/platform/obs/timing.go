package obs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Logger is the process-wide structured logger. Configured once in main.
var Logger = logrus.New()

// Time logs the duration and outcome of an operation when the returned
// function runs. Use with defer and a pointer to the named error return:
//
//	defer obs.Time(ctx, "scoreRoute")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		entry := Logger.WithFields(logrus.Fields{
			"req_id": reqID,
			"op":     name,
			"dur_ms": time.Since(start).Milliseconds(),
		})

		if errp != nil && *errp != nil {
			entry.WithError(*errp).Warn("operation failed")
			return
		}
		entry.Info("operation complete")
	}
}
