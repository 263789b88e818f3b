// Copyright (c) Microsoft. All rights reserved.

package workflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/microsoft/agent-workflow/go/workflow"
)

func TestRegisterHandler_Duplicate(t *testing.T) {
	e := workflow.NewExecutor("upper")

	err := workflow.RegisterHandler(e, func(ctx context.Context, s string, wc *workflow.Context[string]) error {
		return wc.Send(ctx, strings.ToUpper(s))
	})
	if err != nil {
		t.Fatalf("first registration: %v", err)
	}

	// Same input type again, even with a different output type.
	err = workflow.RegisterHandler(e, func(ctx context.Context, s string, wc *workflow.Context[int]) error {
		return wc.Send(ctx, len(s))
	})
	if !errors.Is(err, workflow.ErrDuplicateHandler) {
		t.Errorf("duplicate registration: %v", err)
	}
	if !errors.Is(err, workflow.ErrWorkflow) {
		t.Error("should unwrap to ErrWorkflow")
	}

	// A different input type is fine.
	err = workflow.RegisterHandler(e, func(ctx context.Context, n int, wc *workflow.Context[string]) error {
		return nil
	})
	if err != nil {
		t.Errorf("distinct input type: %v", err)
	}
}

func TestMustRegisterHandler_PanicsOnDuplicate(t *testing.T) {
	e := workflow.NewExecutorFunc("id", func(ctx context.Context, s string, wc *workflow.Context[string]) error {
		return wc.Send(ctx, s)
	})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	workflow.MustRegisterHandler(e, func(ctx context.Context, s string, wc *workflow.Context[string]) error {
		return nil
	})
}

func TestExecutor_CanHandle(t *testing.T) {
	e := workflow.NewExecutor("multi")
	workflow.MustRegisterHandler(e, func(ctx context.Context, s string, wc *workflow.Context[string]) error { return nil })
	workflow.MustRegisterHandler(e, func(ctx context.Context, n int, wc *workflow.Context[string]) error { return nil })

	if !e.CanHandle("text") {
		t.Error("should handle string")
	}
	if !e.CanHandle(7) {
		t.Error("should handle int")
	}
	if e.CanHandle(3.14) {
		t.Error("should not handle float64")
	}
	if e.CanHandle(nil) {
		t.Error("should not handle nil")
	}

	if got := len(e.InputTypes()); got != 2 {
		t.Errorf("InputTypes len = %d, want 2", got)
	}
	if e.ID() != "multi" {
		t.Errorf("ID = %q", e.ID())
	}
}

func TestExecutorFunc_Uppercase(t *testing.T) {
	upper := workflow.NewExecutorFunc("upper",
		func(ctx context.Context, s string, wc *workflow.Context[string]) error {
			return wc.Send(ctx, strings.ToUpper(s))
		})

	w, err := workflow.NewBuilder("uppercase").SetStart(upper).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	result, err := w.Run(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Outputs) != 1 || result.Outputs[0] != "HELLO WORLD" {
		t.Errorf("Outputs = %v", result.Outputs)
	}
	if result.Supersteps != 1 {
		t.Errorf("Supersteps = %d", result.Supersteps)
	}
}
