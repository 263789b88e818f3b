// Copyright (c) Microsoft. All rights reserved.

package workflow

import (
	"context"
	"sync"
)

// Context is the write-only conduit an executor invocation uses to emit
// output messages. The runner constructs a fresh Context for every
// invocation and seals it when the invocation completes; it must not be
// shared with or retained by other invocations.
//
// The type parameter T is the message type this invocation may forward.
type Context[T any] struct {
	sink *sink
}

// Send forwards a message for downstream delivery. Messages are delivered
// in send order, without deduplication. Delivery is deferred: downstream
// executors are not invoked from within Send.
//
// Send fails if ctx is done or if the owning invocation has already
// completed (ErrContextClosed).
func (c *Context[T]) Send(ctx context.Context, msg T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.sink.append(msg)
}

// sink is the ordered per-invocation message buffer behind a [Context].
// The mutex admits handlers that send from spawned goroutines.
type sink struct {
	mu       sync.Mutex
	messages []any
	sealed   bool
}

func newSink() *sink {
	return &sink{}
}

func (s *sink) append(msg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return ErrContextClosed
	}
	s.messages = append(s.messages, msg)
	return nil
}

// seal closes the sink and returns the buffered messages in send order.
// Subsequent appends fail with ErrContextClosed.
func (s *sink) seal() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sealed = true
	return s.messages
}
