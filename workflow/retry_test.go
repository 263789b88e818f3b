// Copyright (c) Microsoft. All rights reserved.

package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/microsoft/agent-workflow/go/workflow"
)

func TestRetry_SucceedsOnThirdAttempt(t *testing.T) {
	attempts := 0
	resets := 0

	err := workflow.Retry(context.Background(), 3,
		func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return fmt.Errorf("attempt %d failed", attempts)
			}
			return nil
		},
		workflow.WithReset(func(ctx context.Context) error {
			resets++
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	// Reset runs between attempts, so twice for three attempts.
	if resets != 2 {
		t.Errorf("resets = %d, want 2", resets)
	}
}

func TestRetry_ExhaustedReturnsLastError(t *testing.T) {
	attempts := 0
	resets := 0
	lastErr := errors.New("third failure")

	err := workflow.Retry(context.Background(), 3,
		func(ctx context.Context) error {
			attempts++
			if attempts == 3 {
				return lastErr
			}
			return fmt.Errorf("failure %d", attempts)
		},
		workflow.WithReset(func(ctx context.Context) error {
			resets++
			return nil
		}),
	)

	// The last error comes back unchanged; no reset follows the final attempt.
	if !errors.Is(err, lastErr) {
		t.Errorf("err = %v", err)
	}
	if attempts != 3 || resets != 2 {
		t.Errorf("attempts = %d, resets = %d", attempts, resets)
	}
}

func TestRetry_NotImplementedIsFatal(t *testing.T) {
	attempts := 0
	resets := 0

	err := workflow.Retry(context.Background(), 5,
		func(ctx context.Context) error {
			attempts++
			return fmt.Errorf("op: %w", workflow.ErrNotImplemented)
		},
		workflow.WithReset(func(ctx context.Context) error {
			resets++
			return nil
		}),
	)

	if !errors.Is(err, workflow.ErrNotImplemented) {
		t.Errorf("err = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if resets != 0 {
		t.Errorf("resets = %d, want 0", resets)
	}
}

func TestRetry_ResetFailureAborts(t *testing.T) {
	attempts := 0
	resetErr := errors.New("state unrecoverable")

	err := workflow.Retry(context.Background(), 3,
		func(ctx context.Context) error {
			attempts++
			return errors.New("fail")
		},
		workflow.WithReset(func(ctx context.Context) error {
			return resetErr
		}),
	)

	if !errors.Is(err, resetErr) {
		t.Errorf("err = %v", err)
	}
	if !errors.Is(err, workflow.ErrWorkflow) {
		t.Error("reset failure should carry ErrWorkflow")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_InvalidAttempts(t *testing.T) {
	err := workflow.Retry(context.Background(), 0, func(ctx context.Context) error { return nil })
	if !errors.Is(err, workflow.ErrWorkflow) {
		t.Errorf("err = %v", err)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := workflow.Retry(ctx, 10, func(ctx context.Context) error {
		attempts++
		cancel()
		return errors.New("fail")
	})

	if !errors.Is(err, context.Canceled) && err.Error() != "fail" {
		t.Errorf("err = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_Backoff(t *testing.T) {
	attempts := 0
	start := time.Now()

	err := workflow.Retry(context.Background(), 3,
		func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("fail")
			}
			return nil
		},
		workflow.WithBackoff(10*time.Millisecond, 2, 100*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}

	// Two waits: 10ms then 20ms.
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("elapsed = %v, expected at least 30ms of backoff", elapsed)
	}
}
