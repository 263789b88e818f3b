// Copyright (c) Microsoft. All rights reserved.

package workflow

import (
	"context"
	"fmt"
	"reflect"
	"sort"
)

// Executor is a unit of work in a workflow: it accepts one typed input
// message and forwards zero or more typed output messages through a
// [Context]. Executors are created once and may be invoked many times.
//
// Handlers are registered per input type with [RegisterHandler] (or
// [NewExecutorFunc] for the common single-handler case). The registry is
// fixed once the executor is placed in a workflow.
type Executor struct {
	id       string
	handlers map[reflect.Type]rawHandler
}

// rawHandler is the type-erased form a registered handler is stored in.
// The sink collects everything the handler sends.
type rawHandler func(ctx context.Context, input any, s *sink) error

// NewExecutor creates an executor with the given identifier and no handlers.
// Register handlers with [RegisterHandler] before using it in a workflow.
func NewExecutor(id string) *Executor {
	return &Executor{
		id:       id,
		handlers: make(map[reflect.Type]rawHandler),
	}
}

// NewExecutorFunc creates an executor with a single handler. It is the
// convenient form for transform steps:
//
//	upper := workflow.NewExecutorFunc("upper",
//	    func(ctx context.Context, s string, wc *workflow.Context[string]) error {
//	        return wc.Send(ctx, strings.ToUpper(s))
//	    })
func NewExecutorFunc[In, Out any](id string, fn func(ctx context.Context, input In, wc *Context[Out]) error) *Executor {
	e := NewExecutor(id)
	// A fresh executor cannot have a conflicting registration.
	_ = RegisterHandler(e, fn)
	return e
}

// RegisterHandler binds fn as the handler for input type In on e.
// Exactly one handler per input type is allowed; registering a second
// handler for the same type fails immediately with ErrDuplicateHandler
// rather than surfacing at dispatch time.
func RegisterHandler[In, Out any](e *Executor, fn func(ctx context.Context, input In, wc *Context[Out]) error) error {
	inType := reflect.TypeOf((*In)(nil)).Elem()
	if _, exists := e.handlers[inType]; exists {
		return fmt.Errorf("%w: executor %q already handles %s", ErrDuplicateHandler, e.id, inType)
	}
	e.handlers[inType] = func(ctx context.Context, input any, s *sink) error {
		in, ok := input.(In)
		if !ok {
			return fmt.Errorf("%w: executor %q: %T is not %s", ErrNoHandler, e.id, input, inType)
		}
		return fn(ctx, in, &Context[Out]{sink: s})
	}
	return nil
}

// MustRegisterHandler is like [RegisterHandler] but panics on conflict.
// Use it for static executor definitions where a duplicate is a programming
// error.
func MustRegisterHandler[In, Out any](e *Executor, fn func(ctx context.Context, input In, wc *Context[Out]) error) {
	if err := RegisterHandler(e, fn); err != nil {
		panic(err)
	}
}

// ID returns the executor's stable identifier.
func (e *Executor) ID() string { return e.id }

// CanHandle reports whether e has a handler for messages of msg's type.
func (e *Executor) CanHandle(msg any) bool {
	if msg == nil {
		return false
	}
	return e.handlesType(reflect.TypeOf(msg))
}

// InputTypes returns the input types e handles, in a stable order.
func (e *Executor) InputTypes() []reflect.Type {
	types := make([]reflect.Type, 0, len(e.handlers))
	for t := range e.handlers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
	return types
}

func (e *Executor) handlesType(t reflect.Type) bool {
	_, ok := e.handlers[t]
	return ok
}

// invoke dispatches input to the matching handler, collecting sent messages
// into s. The caller owns s and seals it when the invocation completes.
func (e *Executor) invoke(ctx context.Context, input any, s *sink) error {
	if input == nil {
		return fmt.Errorf("%w: executor %q: nil input", ErrNoHandler, e.id)
	}
	h, ok := e.handlers[reflect.TypeOf(input)]
	if !ok {
		return fmt.Errorf("%w: executor %q cannot handle %T", ErrNoHandler, e.id, input)
	}
	return h(ctx, input, s)
}
