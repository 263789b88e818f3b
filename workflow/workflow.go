// Copyright (c) Microsoft. All rights reserved.

package workflow

import (
	"fmt"
)

// Workflow is an immutable directed graph of executors. Build one with a
// [Builder]; run it with [Workflow.Run] or [Workflow.RunStream].
type Workflow struct {
	name      string
	start     string
	executors map[string]*Executor
	edges     map[string][]string
}

// Name returns the workflow's display name.
func (w *Workflow) Name() string { return w.name }

// Builder assembles a [Workflow]. Methods return the builder for chaining;
// errors are accumulated and reported by [Builder.Build].
type Builder struct {
	name      string
	start     string
	executors map[string]*Executor
	edges     map[string][]string
	errs      []error
}

// NewBuilder creates a Builder for a workflow with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:      name,
		executors: make(map[string]*Executor),
		edges:     make(map[string][]string),
	}
}

// SetStart designates the executor that receives the run input.
func (b *Builder) SetStart(e *Executor) *Builder {
	if e == nil {
		b.errs = append(b.errs, fmt.Errorf("%w: nil start executor", ErrGraph))
		return b
	}
	b.register(e)
	b.start = e.id
	return b
}

// AddEdge adds a directed edge from one executor to another. Messages sent
// by from route to to when to has a handler for the message type. Both
// executors are registered in the graph if they are not already.
func (b *Builder) AddEdge(from, to *Executor) *Builder {
	if from == nil || to == nil {
		b.errs = append(b.errs, fmt.Errorf("%w: nil executor in edge", ErrGraph))
		return b
	}
	b.register(from)
	b.register(to)
	for _, existing := range b.edges[from.id] {
		if existing == to.id {
			b.errs = append(b.errs, fmt.Errorf("%w: duplicate edge %q -> %q", ErrGraph, from.id, to.id))
			return b
		}
	}
	b.edges[from.id] = append(b.edges[from.id], to.id)
	return b
}

// AddExecutor registers an executor in the graph without adding edges.
// Executors referenced by [Builder.SetStart] or [Builder.AddEdge] are
// registered automatically; AddExecutor exists for callers that declare
// nodes before wiring them, so a node left unwired still fails Build's
// reachability check instead of vanishing from the graph.
func (b *Builder) AddExecutor(e *Executor) *Builder {
	if e == nil {
		b.errs = append(b.errs, fmt.Errorf("%w: nil executor", ErrGraph))
		return b
	}
	b.register(e)
	return b
}

// AddFanOut adds edges from one executor to several successors.
func (b *Builder) AddFanOut(from *Executor, to ...*Executor) *Builder {
	for _, t := range to {
		b.AddEdge(from, t)
	}
	return b
}

func (b *Builder) register(e *Executor) {
	if existing, ok := b.executors[e.id]; ok {
		if existing != e {
			b.errs = append(b.errs, fmt.Errorf("%w: two executors share id %q", ErrGraph, e.id))
		}
		return
	}
	if len(e.handlers) == 0 {
		b.errs = append(b.errs, fmt.Errorf("%w: executor %q has no handlers", ErrGraph, e.id))
		return
	}
	b.executors[e.id] = e
}

// Build validates the graph and returns the immutable [Workflow].
// It fails if no start executor is set, any accumulated definition error
// exists, or an executor is unreachable from the start.
func (b *Builder) Build() (*Workflow, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if b.start == "" {
		return nil, fmt.Errorf("%w: no start executor", ErrGraph)
	}

	// Reachability from start: an unreachable executor is a definition
	// mistake, not a runtime condition.
	reached := map[string]bool{b.start: true}
	frontier := []string{b.start}
	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		for _, succ := range b.edges[id] {
			if !reached[succ] {
				reached[succ] = true
				frontier = append(frontier, succ)
			}
		}
	}
	for id := range b.executors {
		if !reached[id] {
			return nil, fmt.Errorf("%w: executor %q unreachable from start %q", ErrGraph, id, b.start)
		}
	}

	executors := make(map[string]*Executor, len(b.executors))
	for id, e := range b.executors {
		executors[id] = e
	}
	edges := make(map[string][]string, len(b.edges))
	for id, succs := range b.edges {
		edges[id] = append([]string(nil), succs...)
	}

	return &Workflow{
		name:      b.name,
		start:     b.start,
		executors: executors,
		edges:     edges,
	}, nil
}
