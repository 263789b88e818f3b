// Copyright (c) Microsoft. All rights reserved.

package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrWorkflow is the base error for workflow failures.
	ErrWorkflow = errors.New("workflow error")

	// ErrDuplicateHandler is returned when a second handler is registered
	// for an input type an executor already handles.
	ErrDuplicateHandler = fmt.Errorf("%w: duplicate handler", ErrWorkflow)

	// ErrNoHandler is returned when a message is delivered to an executor
	// that has no handler for its type.
	ErrNoHandler = fmt.Errorf("%w: no handler for input type", ErrWorkflow)

	// ErrContextClosed is returned by Context.Send after the owning
	// invocation has completed. A Context must not outlive its invocation.
	ErrContextClosed = fmt.Errorf("%w: context used after invocation completed", ErrWorkflow)

	// ErrGraph indicates an invalid workflow graph definition.
	ErrGraph = fmt.Errorf("%w: graph definition", ErrWorkflow)

	// ErrDefinition indicates an invalid declarative workflow document.
	ErrDefinition = fmt.Errorf("%w: definition", ErrWorkflow)

	// ErrNotImplemented marks a deliberately unimplemented path. It is a
	// fatal condition, distinct from transient failures: [Retry] does not
	// retry it, and callers should not either.
	ErrNotImplemented = errors.New("not implemented")
)

// InvocationError reports a handler failure during a workflow run.
// Use errors.As to extract it; Unwrap exposes the handler's own error.
type InvocationError struct {
	ExecutorID string
	Superstep  int
	Err        error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("executor %q (superstep %d): %v", e.ExecutorID, e.Superstep, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }
