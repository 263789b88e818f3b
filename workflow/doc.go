// Copyright (c) Microsoft. All rights reserved.

// Package workflow provides typed, graph-based orchestration of multi-step
// agent pipelines.
//
// A workflow is a directed graph of executors. An [Executor] receives one
// typed input message and forwards zero or more typed output messages through
// a [Context] instead of returning them. Handlers are registered per input
// type at construction time; registering two handlers for the same input type
// on one executor is rejected immediately.
//
//	upper := workflow.NewExecutorFunc("upper",
//	    func(ctx context.Context, s string, wc *workflow.Context[string]) error {
//	        return wc.Send(ctx, strings.ToUpper(s))
//	    })
//
//	reverse := workflow.NewExecutorFunc("reverse",
//	    func(ctx context.Context, s string, wc *workflow.Context[string]) error {
//	        return wc.Send(ctx, reverseString(s))
//	    })
//
//	wf, err := workflow.NewBuilder("pipeline").
//	    SetStart(upper).
//	    AddEdge(upper, reverse).
//	    Build()
//
//	result, err := wf.Run(ctx, "hello world")
//
// # Execution model
//
// Run advances in supersteps. Each superstep invokes every executor that has
// a pending message; invocations within a superstep run concurrently, and the
// superstep completes when all of them have. Messages sent by one invocation
// preserve their send order when delivered downstream. Messages route along
// graph edges to every successor with a handler for the message type; a
// message from an executor with no outgoing edges becomes a workflow output.
//
// A handler failure fails the run: its buffered messages are discarded (never
// observed downstream) and the error propagates to the caller unchanged,
// wrapped in an [*InvocationError]. The runner performs no retries; callers
// that want them can wrap an operation with [Retry].
//
// Workflow state is in-memory only. Persistence and replay are the concern of
// a hosting engine, not this package.
//
// [NewAgentExecutor] adapts a chat.Agent into an executor so conversational
// agents can participate in pipelines. Workflows can also be declared in YAML
// and built against a [Registry] of executor factories; see [LoadWorkflow].
package workflow
