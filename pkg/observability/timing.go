package observability

import (
	"context"
	"log/slog"
	"time"
)

// TimeOperationResult runs fn and records its duration, a call count and, on
// failure, an error count, all tagged with the operation name. Failures are
// logged at warn: callers decide whether an error is theirs to escalate.
func TimeOperationResult[T any](ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	recordOperation(ctx, logger, metrics, operation, time.Since(start), err)
	return result, err
}

func recordOperation(ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, elapsed time.Duration, err error) {
	if metrics != nil {
		tag := T(OperationKey, operation)
		metrics.Timing(MetricOperationDuration, elapsed, tag)
		metrics.Counter(MetricOperationTotal, 1, tag)
		if err != nil {
			metrics.Counter(MetricOperationErrors, 1, tag)
		}
	}

	if logger == nil {
		return
	}
	if err != nil {
		logger.WarnContext(ctx, "operation failed", DurationKey, elapsed.Milliseconds(), ErrorKey, err)
		return
	}
	logger.InfoContext(ctx, "operation completed", DurationKey, elapsed.Milliseconds())
}
