package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "ttscraper/pkg/errors"
	"ttscraper/pkg/logger"
)

// Operation is a function that performs an operation that might need retrying.
type Operation func() error

// OperationWithResult is a function that returns a result and might need retrying.
type OperationWithResult[T any] func() (T, error)

// Config holds retry configuration.
type Config struct {
	// MaxAttempts is the maximum number of attempts (0 means unlimited)
	MaxAttempts int
	// Backoff strategy to use
	Backoff BackoffStrategy
	// RetryIf determines if an error should be retried
	RetryIf func(error) bool
	// Context for cancellation
	Context context.Context
	// Logger for retry attempts
	Logger logger.Logger
}

// DefaultConfig returns a retry configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		Backoff:     DefaultExponentialBackoff(),
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.GetLogger(),
	}
}

// DefaultRetryIf retries network and rate-limit errors plus retryable
// HTTP statuses. Extraction failures (no embedded state, metadata not
// found) never retry: re-fetching the same blocked page wastes the
// request budget.
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *errs.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code != 0 {
			return errs.IsRetryableStatusCode(apiErr.Code)
		}
		return errs.IsRetryable(apiErr.Type)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return false
}

// Do executes an operation with retry logic.
func Do(op Operation, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var lastErr error
	attempt := 0

	for {
		attempt++

		if cfg.MaxAttempts > 0 && attempt > cfg.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
		}

		err := op()
		if err == nil {
			if attempt > 1 && cfg.Logger != nil {
				cfg.Logger.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return nil
		}

		lastErr = err

		if !cfg.RetryIf(err) {
			return err
		}

		delay := cfg.Backoff.NextDelay(attempt)

		if cfg.Logger != nil {
			cfg.Logger.WarnWithFields("retrying operation", map[string]interface{}{
				"attempt":      attempt,
				"error":        err.Error(),
				"delay_ms":     delay.Milliseconds(),
				"max_attempts": cfg.MaxAttempts,
			})
		}

		if err := Wait(cfg.Context, delay); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
	}
}

// DoWithResult executes an operation that returns a result with retry logic.
func DoWithResult[T any](op OperationWithResult[T], cfg *Config) (T, error) {
	var result T

	err := Do(func() error {
		var opErr error
		result, opErr = op()
		return opErr
	}, cfg)

	return result, err
}

// Fixed returns a config retrying transient errors a fixed number of
// times with a constant delay. Used by the discovery engine for search
// requests.
func Fixed(maxAttempts int, delay time.Duration, log logger.Logger) *Config {
	return &Config{
		MaxAttempts: maxAttempts,
		Backoff:     &FixedBackoff{Delay: delay},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      log,
	}
}
