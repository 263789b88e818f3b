// Copyright (c) Microsoft. All rights reserved.

package workflow

// Event is a sealed interface over the observations a running workflow
// emits. Consume events with [Workflow.RunStream]; use a type switch to
// inspect the concrete type.
type Event interface {
	event()
}

type baseEvent struct{}

func (baseEvent) event() {}

// StartedEvent is emitted once, before the first superstep.
type StartedEvent struct {
	baseEvent
	WorkflowName string
	Input        any
}

// InvokedEvent is emitted when an executor invocation begins.
type InvokedEvent struct {
	baseEvent
	ExecutorID string
	Superstep  int
}

// CompletedEvent is emitted when an executor invocation completes
// successfully. MessageCount is the number of messages it sent.
type CompletedEvent struct {
	baseEvent
	ExecutorID   string
	Superstep    int
	MessageCount int
}

// FailedEvent is emitted when an executor invocation fails. The run stops
// after the current superstep and the error propagates to the caller.
type FailedEvent struct {
	baseEvent
	ExecutorID string
	Superstep  int
	Err        error
}

// OutputEvent is emitted when a terminal executor (no outgoing edges)
// sends a message; the message becomes a workflow output.
type OutputEvent struct {
	baseEvent
	SourceID string
	Output   any
}

// FinishedEvent is emitted once after the final superstep of a successful
// run.
type FinishedEvent struct {
	baseEvent
	Supersteps int
	Outputs    int
}
