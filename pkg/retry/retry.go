package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxAttempts = 3
	DefaultInterval    = 500 * time.Millisecond
)

type Operation func() error

type ExponentialConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	// MaxAttempts counts the first call too. Zero means only MaxElapsedTime
	// limits the loop.
	MaxAttempts uint64
	OnRetry     func(error, time.Duration)
}

// Permanent wraps err so Exponential stops retrying immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Exponential retries fn with exponential backoff until it succeeds, returns a
// Permanent error, the limits are hit or ctx is done.
func Exponential(ctx context.Context, fn Operation, cfg ExponentialConfig) error {
	if cfg.InitialInterval <= 0 {
		return errors.New("initial interval must be > 0")
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = cfg.InitialInterval
	if cfg.MaxInterval > 0 {
		eb.MaxInterval = cfg.MaxInterval
	}
	if cfg.MaxElapsedTime > 0 {
		eb.MaxElapsedTime = cfg.MaxElapsedTime
	}

	var bo backoff.BackOff = eb
	if cfg.MaxAttempts > 0 {
		bo = backoff.WithMaxRetries(bo, cfg.MaxAttempts-1)
	}
	if ctx != nil {
		bo = backoff.WithContext(bo, ctx)
	}

	return backoff.RetryNotify(backoff.Operation(fn), bo, func(err error, next time.Duration) {
		if cfg.OnRetry != nil {
			cfg.OnRetry(err, next)
		}
	})
}

func Constant(ctx context.Context, fn Operation, interval time.Duration, attempts int) error {
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}
