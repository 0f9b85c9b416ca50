package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/learnapp/learn-client/pkg/logger"
	"go.uber.org/zap"
)

// Config holds retry configuration
type Config struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration
	// MaxDelay is the maximum delay between retries
	MaxDelay time.Duration
	// Multiplier is the factor by which delay increases
	Multiplier float64
	// Jitter adds randomness to delays to prevent thundering herd
	Jitter bool
	// RetryableErrors is a function to determine if an error should be retried
	RetryableErrors func(error) bool
}

// DefaultConfig returns sensible retry defaults
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
		RetryableErrors: func(err error) bool {
			return true
		},
	}
}

// CatalogConfig returns retry config used for activity catalog refreshes
func CatalogConfig() Config {
	config := DefaultConfig()
	config.MaxRetries = 3
	config.InitialDelay = 500 * time.Millisecond
	config.MaxDelay = 10 * time.Second
	return config
}

// Do executes the function with retry logic
func Do(ctx context.Context, config Config, operation string, fn func() error) error {
	_, err := DoWithResult(ctx, config, operation, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult executes the function with retry logic and returns a result
func DoWithResult[T any](ctx context.Context, config Config, operation string, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		res, err := fn()
		if err == nil {
			if attempt > 0 {
				logger.Info("Operation succeeded after retry",
					zap.String("operation", operation),
					zap.Int("attempt", attempt))
			}
			return res, nil
		}

		lastErr = err

		if !config.RetryableErrors(err) {
			logger.Warn("Non-retryable error encountered",
				zap.String("operation", operation),
				zap.Error(err))
			return result, err
		}

		// Don't sleep after the last attempt
		if attempt == config.MaxRetries {
			break
		}

		delay := calculateDelay(attempt, config)

		logger.Warn("Operation failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", config.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(delay):
		}
	}

	logger.Error("Operation failed after all retries",
		zap.String("operation", operation),
		zap.Int("max_retries", config.MaxRetries),
		zap.Error(lastErr))

	return result, fmt.Errorf("operation failed after %d retries: %w", config.MaxRetries, lastErr)
}

// calculateDelay calculates the delay for the next retry using exponential backoff
func calculateDelay(attempt int, config Config) time.Duration {
	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt))

	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	// ±25% randomness
	if config.Jitter {
		jitterRange := delay * 0.25
		//nolint:gosec // G404: math/rand is sufficient for retry jitter, crypto/rand not needed
		jitter := (rand.Float64() * 2 * jitterRange) - jitterRange
		delay += jitter
	}

	return time.Duration(delay)
}
