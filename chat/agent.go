// Copyright (c) Microsoft. All rights reserved.

package chat

import (
	"context"
	"fmt"
	"log/slog"
)

// Agent is the top-level conversational agent. It composes a [Client] with
// tools, middleware, session management, guardrails, and context providers.
//
// Create one with [NewAgent] and functional options:
//
//	agent := chat.NewAgent(client,
//	    chat.WithName("assistant"),
//	    chat.WithInstructions("You are helpful."),
//	    chat.WithTools(weatherTool),
//	)
type Agent struct {
	id                  string
	name                string
	description         string
	client              Client
	instructions        string
	tools               []Tool
	defaultOptions      *Options
	messageStoreFactory func() MessageStore
	contextProvider     ContextProvider
	agentMiddleware     []AgentMiddleware
	chatMiddleware      []ChatMiddleware
	functionMiddleware  []FunctionMiddleware
	inputGuardrails     []InputGuardrail
	outputGuardrails    []OutputGuardrail
	invocationConfig    InvocationConfig
}

// AgentOption configures an [Agent] via [NewAgent].
type AgentOption func(*Agent)

// WithName sets the agent's display name.
func WithName(name string) AgentOption {
	return func(a *Agent) { a.name = name }
}

// WithDescription sets the agent's description.
func WithDescription(desc string) AgentOption {
	return func(a *Agent) { a.description = desc }
}

// WithInstructions sets the system instructions for the agent.
func WithInstructions(instructions string) AgentOption {
	return func(a *Agent) { a.instructions = instructions }
}

// WithTools adds tools to the agent's default tool set.
func WithTools(tools ...Tool) AgentOption {
	return func(a *Agent) { a.tools = append(a.tools, tools...) }
}

// WithDefaultOptions sets default [Options] for all requests.
func WithDefaultOptions(opts *Options) AgentOption {
	return func(a *Agent) { a.defaultOptions = opts }
}

// WithMessageStoreFactory sets a factory for creating message stores
// when a session is initialized in local mode.
func WithMessageStoreFactory(f func() MessageStore) AgentOption {
	return func(a *Agent) { a.messageStoreFactory = f }
}

// WithContextProvider attaches a [ContextProvider] for dynamic context injection.
func WithContextProvider(cp ContextProvider) AgentOption {
	return func(a *Agent) { a.contextProvider = cp }
}

// WithAgentMiddleware adds [AgentMiddleware] to the agent pipeline.
func WithAgentMiddleware(mws ...AgentMiddleware) AgentOption {
	return func(a *Agent) { a.agentMiddleware = append(a.agentMiddleware, mws...) }
}

// WithChatMiddleware adds [ChatMiddleware] around every model request the
// agent makes, including each round-trip of the function calling loop.
func WithChatMiddleware(mws ...ChatMiddleware) AgentOption {
	return func(a *Agent) { a.chatMiddleware = append(a.chatMiddleware, mws...) }
}

// WithFunctionMiddleware adds [FunctionMiddleware] to the tool invocation pipeline.
func WithFunctionMiddleware(mws ...FunctionMiddleware) AgentOption {
	return func(a *Agent) { a.functionMiddleware = append(a.functionMiddleware, mws...) }
}

// WithInputGuardrails registers input guardrails on the agent.
// Guardrail enforcement is not yet defined; registered guardrails are
// recorded and reported via [Agent.InputGuardrails].
func WithInputGuardrails(gs ...InputGuardrail) AgentOption {
	return func(a *Agent) { a.inputGuardrails = append(a.inputGuardrails, gs...) }
}

// WithOutputGuardrails registers output guardrails on the agent.
func WithOutputGuardrails(gs ...OutputGuardrail) AgentOption {
	return func(a *Agent) { a.outputGuardrails = append(a.outputGuardrails, gs...) }
}

// WithInvocationConfig overrides the default [InvocationConfig] for the
// function calling loop.
func WithInvocationConfig(cfg InvocationConfig) AgentOption {
	return func(a *Agent) { a.invocationConfig = cfg }
}

// NewAgent creates an Agent with the given [Client] and options.
func NewAgent(client Client, opts ...AgentOption) *Agent {
	a := &Agent{
		id:               newUUID(),
		client:           client,
		invocationConfig: DefaultInvocationConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() string { return a.id }

// Name returns the agent's display name.
func (a *Agent) Name() string { return a.name }

// Description returns the agent's description.
func (a *Agent) Description() string { return a.description }

// InputGuardrails returns the registered input guardrails.
func (a *Agent) InputGuardrails() []InputGuardrail { return a.inputGuardrails }

// OutputGuardrails returns the registered output guardrails.
func (a *Agent) OutputGuardrails() []OutputGuardrail { return a.outputGuardrails }

// RunOption configures a single [Agent.Run] or [Agent.RunStream] call.
type RunOption func(*runConfig)

type runConfig struct {
	session *Session
	tools   []Tool
	options *Options
}

// WithSession attaches a [Session] for multi-turn conversation.
func WithSession(s *Session) RunOption {
	return func(c *runConfig) { c.session = s }
}

// WithRunTools provides per-call tool overrides (merged with agent defaults).
func WithRunTools(tools ...Tool) RunOption {
	return func(c *runConfig) { c.tools = tools }
}

// WithRunOptions provides per-call [Options] overrides.
func WithRunOptions(opts *Options) RunOption {
	return func(c *runConfig) { c.options = opts }
}

// Run sends messages to the agent and returns a complete response.
func (a *Agent) Run(ctx context.Context, messages []Message, opts ...RunOption) (*AgentResponse, error) {
	cfg := buildRunConfig(opts)

	handler := chainAgentMiddleware(a.buildHandler(cfg), a.agentMiddleware...)

	req := &AgentRequest{
		Messages: messages,
		Session:  cfg.session,
		Options:  cfg.options,
	}

	return handler(ctx, req)
}

// RunStream sends messages to the agent and returns a streaming response.
func (a *Agent) RunStream(ctx context.Context, messages []Message, opts ...RunOption) (*AgentStream, error) {
	cfg := buildRunConfig(opts)

	chatOpts := a.prepareOptions(cfg)
	allMessages, err := a.prepareMessages(ctx, messages, cfg, chatOpts)
	if err != nil {
		return nil, err
	}

	stream, err := a.client.StreamResponse(ctx, allMessages, chatOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecution, err)
	}

	// Map ResponseUpdate → AgentResponseUpdate
	agentStream := MapStream(ctx, stream, func(u ResponseUpdate) AgentResponseUpdate {
		return AgentResponseUpdate{
			Contents:   u.Contents,
			Role:       u.Role,
			AgentID:    a.id,
			ResponseID: u.ResponseID,
			Usage:      u.Usage,
			Raw:        u.Raw,
		}
	})

	return NewAgentStream(agentStream), nil
}

// NewSession creates a new [Session] pre-configured for this agent.
func (a *Agent) NewSession() *Session {
	var store MessageStore
	if a.messageStoreFactory != nil {
		store = a.messageStoreFactory()
	} else {
		store = NewInMemoryStore()
	}
	return NewSession(
		WithSessionStore(store),
		WithSessionContextProvider(a.contextProvider),
	)
}

// chatClient returns the agent's client with chat middleware applied.
func (a *Agent) chatClient() Client {
	if len(a.chatMiddleware) == 0 {
		return a.client
	}
	return &middlewareClient{
		inner: a.client,
		handler: chainChatMiddleware(
			func(ctx context.Context, messages []Message, opts *Options) (*Response, error) {
				return a.client.Response(ctx, messages, opts)
			},
			a.chatMiddleware...,
		),
	}
}

func buildRunConfig(opts []RunOption) *runConfig {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (a *Agent) prepareOptions(cfg *runConfig) *Options {
	opts := MergeOptions(a.defaultOptions, cfg.options)

	// Tools: agent defaults + per-call overrides
	allTools := make([]Tool, 0, len(a.tools)+len(cfg.tools))
	allTools = append(allTools, a.tools...)
	allTools = append(allTools, cfg.tools...)
	if len(allTools) > 0 {
		opts.Tools = allTools
	}

	if a.instructions != "" {
		if opts.Instructions != "" {
			opts.Instructions = a.instructions + "\n" + opts.Instructions
		} else {
			opts.Instructions = a.instructions
		}
	}

	return opts
}

func (a *Agent) prepareMessages(ctx context.Context, messages []Message, cfg *runConfig, opts *Options) ([]Message, error) {
	var allMessages []Message

	// Load history from the session store
	if cfg.session != nil {
		if store := cfg.session.Store(); store != nil {
			history, err := store.ListMessages(ctx)
			if err != nil {
				return nil, fmt.Errorf("load session history: %w", err)
			}
			allMessages = append(allMessages, history...)
		}
		if sid := cfg.session.ServiceID(); sid != "" {
			opts.ConversationID = sid
		}
	}

	allMessages = append(allMessages, messages...)

	// Apply context provider (session provider wins over agent provider)
	cp := a.contextProvider
	if cfg.session != nil && cfg.session.ContextProvider() != nil {
		cp = cfg.session.ContextProvider()
	}
	if cp != nil {
		invCtx, err := cp.Invoking(ctx, allMessages)
		if err != nil {
			return nil, fmt.Errorf("context provider: %w", err)
		}
		if invCtx != nil {
			if invCtx.Instructions != "" {
				if opts.Instructions != "" {
					opts.Instructions += "\n" + invCtx.Instructions
				} else {
					opts.Instructions = invCtx.Instructions
				}
			}
			if len(invCtx.Messages) > 0 {
				allMessages = append(invCtx.Messages, allMessages...)
			}
			if len(invCtx.Tools) > 0 {
				opts.Tools = append(opts.Tools, invCtx.Tools...)
			}
		}
	}

	return PrependInstructions(allMessages, opts.Instructions), nil
}

func (a *Agent) buildHandler(cfg *runConfig) AgentHandler {
	return func(ctx context.Context, req *AgentRequest) (*AgentResponse, error) {
		chatOpts := a.prepareOptions(cfg)
		allMessages, err := a.prepareMessages(ctx, req.Messages, cfg, chatOpts)
		if err != nil {
			return nil, err
		}

		slog.DebugContext(ctx, "agent run",
			"agent_id", a.id,
			"agent_name", a.name,
			"message_count", len(allMessages),
			"tool_count", len(chatOpts.Tools),
			"input_guardrails", len(a.inputGuardrails),
			"output_guardrails", len(a.outputGuardrails),
		)

		// With tools present, drive the function invocation loop
		client := a.chatClient()
		var resp *Response
		if len(chatOpts.Tools) > 0 {
			resp, err = invokeFunctions(ctx, client, allMessages, chatOpts, a.invocationConfig, a.functionMiddleware)
		} else {
			resp, err = client.Response(ctx, allMessages, chatOpts)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExecution, err)
		}

		if cfg.session != nil {
			if err := a.updateSession(ctx, cfg.session, req.Messages, resp); err != nil {
				slog.WarnContext(ctx, "failed to update session", "error", err)
			}
		}

		cp := a.contextProvider
		if cfg.session != nil && cfg.session.ContextProvider() != nil {
			cp = cfg.session.ContextProvider()
		}
		if cp != nil {
			if err := cp.Invoked(ctx, req.Messages, resp.Messages); err != nil {
				slog.WarnContext(ctx, "context provider invoked hook failed", "error", err)
			}
		}

		return &AgentResponse{
			Messages:   resp.Messages,
			ResponseID: resp.ResponseID,
			AgentID:    a.id,
			Usage:      resp.Usage,
			Extra:      resp.Extra,
			Raw:        resp.Raw,
		}, nil
	}
}

func (a *Agent) updateSession(ctx context.Context, session *Session, request []Message, resp *Response) error {
	store := session.Store()
	if store == nil {
		// A conversation ID in the response switches the session to service mode
		if resp.ConversationID != "" {
			return session.SetServiceID(resp.ConversationID)
		}
		if a.messageStoreFactory != nil {
			store = a.messageStoreFactory()
		} else {
			store = NewInMemoryStore()
		}
		if err := session.SetStore(store); err != nil {
			return err
		}
	}

	if err := store.AddMessages(ctx, request); err != nil {
		return err
	}
	return store.AddMessages(ctx, resp.Messages)
}
