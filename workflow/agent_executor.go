// Copyright (c) Microsoft. All rights reserved.

package workflow

import (
	"context"

	"github.com/microsoft/agent-workflow/go/chat"
)

// agentExecutorConfig holds resolved options for [NewAgentExecutor].
type agentExecutorConfig struct {
	session *chat.Session
}

// AgentExecutorOption configures [NewAgentExecutor].
type AgentExecutorOption func(*agentExecutorConfig)

// WithAgentSession runs every invocation of the executor in the given
// session, so the agent keeps conversation state across invocations.
// Without it each invocation is an independent single-turn run.
func WithAgentSession(s *chat.Session) AgentExecutorOption {
	return func(c *agentExecutorConfig) { c.session = s }
}

// NewAgentExecutor adapts a [chat.Agent] into a workflow [Executor].
//
// The executor accepts a string prompt, a []chat.Message transcript, or the
// *chat.AgentResponse of an upstream agent (its text becomes the prompt), so
// agent executors chain directly. Each invocation runs the agent and sends
// the resulting *chat.AgentResponse downstream.
func NewAgentExecutor(id string, agent *chat.Agent, opts ...AgentExecutorOption) *Executor {
	cfg := &agentExecutorConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	run := func(ctx context.Context, messages []chat.Message, wc *Context[*chat.AgentResponse]) error {
		var runOpts []chat.RunOption
		if cfg.session != nil {
			runOpts = append(runOpts, chat.WithSession(cfg.session))
		}
		resp, err := agent.Run(ctx, messages, runOpts...)
		if err != nil {
			return err
		}
		return wc.Send(ctx, resp)
	}

	e := NewExecutor(id)
	MustRegisterHandler(e, func(ctx context.Context, prompt string, wc *Context[*chat.AgentResponse]) error {
		return run(ctx, []chat.Message{chat.NewUserMessage(prompt)}, wc)
	})
	MustRegisterHandler(e, func(ctx context.Context, messages []chat.Message, wc *Context[*chat.AgentResponse]) error {
		return run(ctx, messages, wc)
	})
	MustRegisterHandler(e, func(ctx context.Context, prev *chat.AgentResponse, wc *Context[*chat.AgentResponse]) error {
		return run(ctx, []chat.Message{chat.NewUserMessage(prev.Text())}, wc)
	})
	return e
}
