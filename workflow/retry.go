// Copyright (c) Microsoft. All rights reserved.

package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// retryConfig holds resolved options for [Retry].
type retryConfig struct {
	reset           func(context.Context) error
	initialInterval time.Duration
	multiplier      float64
	maxInterval     time.Duration
}

// RetryOption configures [Retry].
type RetryOption func(*retryConfig)

// WithReset installs a hook invoked after each failed attempt except the
// last, before the next attempt starts. Use it to restore state the failed
// attempt may have corrupted. A reset failure aborts the retry loop.
func WithReset(fn func(context.Context) error) RetryOption {
	return func(c *retryConfig) { c.reset = fn }
}

// WithBackoff enables an exponentially growing delay between attempts,
// starting at initial, multiplied by multiplier after each failure, and
// capped at max. Without this option attempts run back to back.
func WithBackoff(initial time.Duration, multiplier float64, max time.Duration) RetryOption {
	return func(c *retryConfig) {
		c.initialInterval = initial
		c.multiplier = multiplier
		c.maxInterval = max
	}
}

// Retry runs op up to attempts times, stopping at the first success.
// After exhausting all attempts it returns the last attempt's error
// unchanged.
//
// Retry gives up immediately, without further attempts or reset calls, when
// the error is ErrNotImplemented (a deliberate fatal marker) or when ctx is
// done.
func Retry(ctx context.Context, attempts int, op func(context.Context) error, opts ...RetryOption) error {
	if attempts < 1 {
		return fmt.Errorf("%w: retry attempts must be >= 1, got %d", ErrWorkflow, attempts)
	}

	cfg := &retryConfig{multiplier: 1}
	for _, opt := range opts {
		opt(cfg)
	}

	interval := cfg.initialInterval
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrNotImplemented) || ctx.Err() != nil {
			return err
		}
		if attempt == attempts {
			break
		}

		slog.DebugContext(ctx, "retrying after failure",
			"attempt", attempt,
			"attempts", attempts,
			"error", err,
		)

		if cfg.reset != nil {
			if resetErr := cfg.reset(ctx); resetErr != nil {
				return fmt.Errorf("%w: reset after attempt %d: %w", ErrWorkflow, attempt, resetErr)
			}
		}

		if interval > 0 {
			timer := time.NewTimer(interval)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
			interval = time.Duration(float64(interval) * cfg.multiplier)
			if cfg.maxInterval > 0 && interval > cfg.maxInterval {
				interval = cfg.maxInterval
			}
		}
	}
	return err
}
