package sdconnector

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig configures the backoff applied to failed calls.
type RetryConfig struct {
	// MaxAttempts is the total number of tries, first call included.
	// Values below 1 mean a single attempt.
	MaxAttempts int

	// InitialBackoff is the wait before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between retries.
	MaxBackoff time.Duration

	// BackoffFactor is the multiplier for exponential backoff.
	BackoffFactor float64

	// RetryIf decides whether an error should be retried. Nil means
	// IsRetryable.
	RetryIf func(error) bool
}

// DefaultRetryConfig mirrors the policy the SD integrations have always
// used: seven attempts, one second doubling between them.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    7,
		InitialBackoff: time.Second,
		MaxBackoff:     64 * time.Second,
		BackoffFactor:  2.0,
		RetryIf:        IsRetryable,
	}
}

// retryWithBackoff runs fn until it succeeds, returns a non-retryable
// error, or the attempt budget is spent. The last error is returned as is.
func retryWithBackoff[T any](ctx context.Context, cfg RetryConfig, logger *logrus.Logger, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryIf := cfg.RetryIf
	if retryIf == nil {
		retryIf = IsRetryable
	}

	backoff := cfg.InitialBackoff
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryIf(err) || attempt == attempts {
			break
		}

		logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"backoff": backoff,
			"error":   err,
		}).Warn("retrying")

		select {
		case <-ctx.Done():
			return zero, lastErr
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * cfg.BackoffFactor)
		if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}
	return zero, lastErr
}
