// Copyright (c) Microsoft. All rights reserved.

package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"golang.org/x/sync/errgroup"

	"github.com/microsoft/agent-workflow/go/chat"
)

// RunResult is the outcome of a successful workflow run.
type RunResult struct {
	// Outputs are the messages emitted by terminal executors, in delivery
	// order.
	Outputs []any

	// Supersteps is the number of supersteps the run took.
	Supersteps int
}

// delivery is one pending message addressed to one executor.
type delivery struct {
	target  *Executor
	message any
}

// Run executes the workflow to completion and returns its outputs.
// It drains the event stream internally; use [Workflow.RunStream] to observe
// events as they happen.
func (w *Workflow) Run(ctx context.Context, input any) (*RunResult, error) {
	stream := w.RunStream(ctx, input)
	defer stream.Close()

	result := &RunResult{}
	for {
		ev, ok, err := stream.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return result, nil
		}
		switch e := ev.(type) {
		case *OutputEvent:
			result.Outputs = append(result.Outputs, e.Output)
		case *FinishedEvent:
			result.Supersteps = e.Supersteps
		}
	}
}

// RunStream executes the workflow and returns a stream of [Event] values.
// The stream ends after a [FinishedEvent] on success, or with the run's
// error on failure. Closing the stream cancels the run.
func (w *Workflow) RunStream(ctx context.Context, input any) *chat.Stream[Event] {
	return chat.NewStream(ctx, func(ctx context.Context, ch chan<- Event) error {
		return w.run(ctx, input, ch)
	})
}

func (w *Workflow) run(ctx context.Context, input any, ch chan<- Event) error {
	start := w.executors[w.start]
	if !start.CanHandle(input) {
		return fmt.Errorf("%w: start executor %q cannot handle %T", ErrNoHandler, w.start, input)
	}

	if err := emit(ctx, ch, &StartedEvent{WorkflowName: w.name, Input: input}); err != nil {
		return err
	}

	pending := []delivery{{target: start, message: input}}
	superstep := 0
	outputs := 0

	for len(pending) > 0 {
		superstep++

		slog.DebugContext(ctx, "superstep",
			"workflow", w.name,
			"superstep", superstep,
			"deliveries", len(pending),
		)

		// Invoke every pending delivery concurrently. Per-invocation sends
		// are kept in per-slot order so routing stays deterministic.
		sent := make([][]any, len(pending))
		g, gctx := errgroup.WithContext(ctx)
		for i, d := range pending {
			g.Go(func() error {
				if err := emit(gctx, ch, &InvokedEvent{ExecutorID: d.target.id, Superstep: superstep}); err != nil {
					return err
				}
				s := newSink()
				err := d.target.invoke(gctx, d.message, s)
				msgs := s.seal()
				if err != nil {
					// Discard everything this invocation sent: a failed
					// invocation delivers nothing downstream.
					_ = emit(gctx, ch, &FailedEvent{ExecutorID: d.target.id, Superstep: superstep, Err: err})
					return &InvocationError{ExecutorID: d.target.id, Superstep: superstep, Err: err}
				}
				sent[i] = msgs
				return emit(gctx, ch, &CompletedEvent{ExecutorID: d.target.id, Superstep: superstep, MessageCount: len(msgs)})
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		// Route sent messages along edges; terminal sends become outputs.
		var next []delivery
		for i, d := range pending {
			succs := w.edges[d.target.id]
			for _, msg := range sent[i] {
				if len(succs) == 0 {
					outputs++
					if err := emit(ctx, ch, &OutputEvent{SourceID: d.target.id, Output: msg}); err != nil {
						return err
					}
					continue
				}
				routed := false
				for _, succID := range succs {
					succ := w.executors[succID]
					if succ.handlesType(reflect.TypeOf(msg)) {
						next = append(next, delivery{target: succ, message: msg})
						routed = true
					}
				}
				if !routed {
					slog.WarnContext(ctx, "message dropped: no successor handles type",
						"workflow", w.name,
						"from", d.target.id,
						"type", fmt.Sprintf("%T", msg),
					)
				}
			}
		}
		pending = next
	}

	return emit(ctx, ch, &FinishedEvent{Supersteps: superstep, Outputs: outputs})
}

func emit(ctx context.Context, ch chan<- Event, ev Event) error {
	select {
	case ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
