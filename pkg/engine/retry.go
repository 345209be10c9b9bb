package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type retrying struct {
	next     Engine
	attempts int
	backoff  time.Duration
	logger   *zap.Logger
}

// WithRetry retries calls that fail with ErrUnavailable up to retries more
// times, waiting backoff*n before attempt n+1. Timeouts and cancellations
// are returned at once, as is any failure after ctx is done.
func WithRetry(next Engine, retries int, backoff time.Duration, logger *zap.Logger) Engine {
	if retries <= 0 {
		return next
	}
	return &retrying{next: next, attempts: retries + 1, backoff: backoff, logger: logger}
}

func (r *retrying) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		var out string
		out, err = r.next.Generate(ctx, prompt, params)
		if err == nil {
			return out, nil
		}

		err = Classify(err)
		if !errors.Is(err, ErrUnavailable) || attempt == r.attempts {
			break
		}
		if ctx.Err() != nil {
			return "", Classify(ctx.Err())
		}

		r.logger.Warn("engine call failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.attempts),
			zap.Error(err),
		)

		if r.backoff > 0 {
			timer := time.NewTimer(r.backoff * time.Duration(attempt))
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return "", Classify(ctx.Err())
			}
		}
	}
	return "", err
}
