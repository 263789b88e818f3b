// Copyright (c) Microsoft. All rights reserved.

package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/microsoft/agent-workflow/go/chat"
)

func TestAgentMiddleware_Order(t *testing.T) {
	var trace []string

	mw := func(name string) chat.AgentMiddleware {
		return func(next chat.AgentHandler) chat.AgentHandler {
			return func(ctx context.Context, req *chat.AgentRequest) (*chat.AgentResponse, error) {
				trace = append(trace, name+"-before")
				resp, err := next(ctx, req)
				trace = append(trace, name+"-after")
				return resp, err
			}
		}
	}

	client := &mockClient{
		responseFn: func(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Response, error) {
			trace = append(trace, "client")
			return &chat.Response{Messages: []chat.Message{chat.NewAssistantMessage("ok")}}, nil
		},
	}

	agent := chat.NewAgent(client, chat.WithAgentMiddleware(mw("outer"), mw("inner")))
	if _, err := agent.Run(context.Background(), []chat.Message{chat.NewUserMessage("hi")}); err != nil {
		t.Fatal(err)
	}

	want := []string{"outer-before", "inner-before", "client", "inner-after", "outer-after"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v", trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Errorf("trace[%d] = %q, want %q", i, trace[i], want[i])
		}
	}
}

func TestAgentMiddleware_ShortCircuit(t *testing.T) {
	blocked := errors.New("blocked by policy")
	client := &mockClient{
		responseFn: func(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Response, error) {
			t.Fatal("client should not be reached")
			return nil, nil
		},
	}

	agent := chat.NewAgent(client, chat.WithAgentMiddleware(
		func(next chat.AgentHandler) chat.AgentHandler {
			return func(ctx context.Context, req *chat.AgentRequest) (*chat.AgentResponse, error) {
				return nil, blocked
			}
		},
	))

	_, err := agent.Run(context.Background(), []chat.Message{chat.NewUserMessage("hi")})
	if !errors.Is(err, blocked) {
		t.Errorf("err = %v", err)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	client := &mockClient{
		responseFn: func(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Response, error) {
			return &chat.Response{Messages: []chat.Message{chat.NewAssistantMessage("ok")}}, nil
		},
	}

	// Exercise the middleware with a discard logger; it must pass results through.
	logger := slog.New(slog.DiscardHandler)
	agent := chat.NewAgent(client, chat.WithAgentMiddleware(chat.LoggingMiddleware(logger)))

	resp, err := agent.Run(context.Background(), []chat.Message{chat.NewUserMessage("hi")})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text() != "ok" {
		t.Errorf("Text = %q", resp.Text())
	}
}

func TestChatMiddleware_WrapsEveryModelCall(t *testing.T) {
	tool := chat.NewTypedTool("lookup", "Looks things up",
		func(ctx context.Context, args struct {
			Key string `json:"key"`
		}) (any, error) {
			return "found", nil
		},
	)

	callCount := 0
	client := &mockClient{
		responseFn: func(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Response, error) {
			callCount++
			if callCount == 1 {
				return &chat.Response{
					Messages: []chat.Message{{
						Role: chat.RoleAssistant,
						Contents: chat.Contents{
							&chat.FunctionCallContent{CallID: "c1", Name: "lookup", Arguments: `{"key":"a"}`},
						},
					}},
				}, nil
			}
			return &chat.Response{Messages: []chat.Message{chat.NewAssistantMessage("done")}}, nil
		},
	}

	observed := 0
	var lastModel string
	agent := chat.NewAgent(client,
		chat.WithTools(tool),
		chat.WithChatMiddleware(func(next chat.ChatHandler) chat.ChatHandler {
			return func(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Response, error) {
				observed++
				if opts != nil {
					lastModel = opts.ModelID
				}
				return next(ctx, msgs, opts)
			}
		}),
	)

	resp, err := agent.Run(context.Background(),
		[]chat.Message{chat.NewUserMessage("go")},
		chat.WithRunOptions(&chat.Options{ModelID: "gpt-4o-mini"}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text() != "done" {
		t.Errorf("Text = %q", resp.Text())
	}

	// Both round-trips of the tool loop pass through the chat middleware.
	if observed != 2 || callCount != 2 {
		t.Errorf("observed = %d, client calls = %d, want 2 and 2", observed, callCount)
	}
	if lastModel != "gpt-4o-mini" {
		t.Errorf("middleware saw model %q", lastModel)
	}
}

func TestChatMiddleware_ShortCircuit(t *testing.T) {
	client := &mockClient{
		responseFn: func(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Response, error) {
			t.Fatal("client should not be reached")
			return nil, nil
		},
	}

	agent := chat.NewAgent(client, chat.WithChatMiddleware(
		func(next chat.ChatHandler) chat.ChatHandler {
			return func(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Response, error) {
				return &chat.Response{Messages: []chat.Message{chat.NewAssistantMessage("cached")}}, nil
			}
		},
	))

	resp, err := agent.Run(context.Background(), []chat.Message{chat.NewUserMessage("hi")})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text() != "cached" {
		t.Errorf("Text = %q", resp.Text())
	}
}

func TestFunctionMiddleware(t *testing.T) {
	tool := chat.NewTypedTool("lookup", "Looks things up",
		func(ctx context.Context, args struct {
			Key string `json:"key"`
		}) (any, error) {
			return "value-" + args.Key, nil
		},
	)

	var invokedTools []string
	fnMW := func(next chat.FunctionHandler) chat.FunctionHandler {
		return func(ctx context.Context, tool chat.Tool, args json.RawMessage) (any, error) {
			invokedTools = append(invokedTools, tool.Name())
			return next(ctx, tool, args)
		}
	}

	callCount := 0
	client := &mockClient{
		responseFn: func(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Response, error) {
			callCount++
			if callCount == 1 {
				return &chat.Response{
					Messages: []chat.Message{{
						Role: chat.RoleAssistant,
						Contents: chat.Contents{
							&chat.FunctionCallContent{CallID: "c1", Name: "lookup", Arguments: `{"key":"a"}`},
						},
					}},
				}, nil
			}
			return &chat.Response{Messages: []chat.Message{chat.NewAssistantMessage("done")}}, nil
		},
	}

	agent := chat.NewAgent(client,
		chat.WithTools(tool),
		chat.WithFunctionMiddleware(fnMW),
	)

	if _, err := agent.Run(context.Background(), []chat.Message{chat.NewUserMessage("go")}); err != nil {
		t.Fatal(err)
	}
	if len(invokedTools) != 1 || invokedTools[0] != "lookup" {
		t.Errorf("invoked tools = %v", invokedTools)
	}
}
