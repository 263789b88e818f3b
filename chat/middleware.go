// Copyright (c) Microsoft. All rights reserved.

package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// AgentHandler is the function signature for processing an agent run.
type AgentHandler func(ctx context.Context, req *AgentRequest) (*AgentResponse, error)

// AgentRequest carries the inputs for an agent run through the middleware pipeline.
type AgentRequest struct {
	Messages []Message
	Session  *Session
	Options  *Options
}

// AgentMiddleware wraps an [AgentHandler] to add cross-cutting behavior.
// Middleware should call next to continue the chain, or return early to short-circuit.
type AgentMiddleware func(next AgentHandler) AgentHandler

// ChatHandler is the function signature for processing a model request.
type ChatHandler func(ctx context.Context, messages []Message, opts *Options) (*Response, error)

// ChatMiddleware wraps a [ChatHandler] to add cross-cutting behavior.
type ChatMiddleware func(next ChatHandler) ChatHandler

// FunctionHandler is the function signature for invoking a tool.
type FunctionHandler func(ctx context.Context, tool Tool, args json.RawMessage) (any, error)

// FunctionMiddleware wraps a [FunctionHandler] to add cross-cutting behavior.
type FunctionMiddleware func(next FunctionHandler) FunctionHandler

// chainAgentMiddleware applies middleware in order (first in list = outermost wrapper).
func chainAgentMiddleware(handler AgentHandler, mws ...AgentMiddleware) AgentHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}

// chainChatMiddleware applies middleware in order.
func chainChatMiddleware(handler ChatHandler, mws ...ChatMiddleware) ChatHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}

// middlewareClient wraps a [Client] so chat middleware runs on every
// non-streaming request, including each round-trip of the function calling
// loop. Streaming requests pass through to the inner client.
type middlewareClient struct {
	inner   Client
	handler ChatHandler
}

func (c *middlewareClient) Response(ctx context.Context, messages []Message, opts *Options) (*Response, error) {
	return c.handler(ctx, messages, opts)
}

func (c *middlewareClient) StreamResponse(ctx context.Context, messages []Message, opts *Options) (*Stream[ResponseUpdate], error) {
	return c.inner.StreamResponse(ctx, messages, opts)
}

// chainFunctionMiddleware applies middleware in order.
func chainFunctionMiddleware(handler FunctionHandler, mws ...FunctionMiddleware) FunctionHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}

// LoggingMiddleware returns an [AgentMiddleware] that logs agent runs using slog.
func LoggingMiddleware(logger *slog.Logger) AgentMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next AgentHandler) AgentHandler {
		return func(ctx context.Context, req *AgentRequest) (*AgentResponse, error) {
			start := time.Now()
			logger.InfoContext(ctx, "agent run started",
				"message_count", len(req.Messages),
			)

			resp, err := next(ctx, req)

			duration := time.Since(start)
			if err != nil {
				logger.ErrorContext(ctx, "agent run failed",
					"duration", duration,
					"error", err,
				)
				return nil, err
			}

			logger.InfoContext(ctx, "agent run completed",
				"duration", duration,
				"response_messages", len(resp.Messages),
				"input_tokens", resp.Usage.InputTokens,
				"output_tokens", resp.Usage.OutputTokens,
			)
			return resp, nil
		}
	}
}
