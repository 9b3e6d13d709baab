package retry

import (
	"context"
	"log/slog"
	"time"

	retrygo "github.com/avast/retry-go"
)

type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool // Exponential backoff
}

// Permanent marks err so WithRetry stops immediately and returns it.
func Permanent(err error) error {
	return retrygo.Unrecoverable(err)
}

// WithRetry calls fn until it succeeds, returns a permanent error or runs out
// of attempts. The last error is returned as is so callers can errors.As it.
func WithRetry(ctx context.Context, config RetryConfig, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delayType := retrygo.FixedDelay
	if config.Backoff {
		delayType = retrygo.BackOffDelay
	}

	return retrygo.Do(
		fn,
		retrygo.Context(ctx),
		retrygo.Attempts(uint(attempts)),
		retrygo.Delay(config.Delay),
		retrygo.DelayType(delayType),
		retrygo.LastErrorOnly(true),
		retrygo.OnRetry(func(n uint, err error) {
			slog.Default().Debug("retrying",
				"attempt", n+1,
				"max_attempts", attempts,
				"error", err)
		}),
	)
}
