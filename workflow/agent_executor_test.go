// Copyright (c) Microsoft. All rights reserved.

package workflow_test

import (
	"context"
	"strings"
	"testing"

	"github.com/microsoft/agent-workflow/go/chat"
	"github.com/microsoft/agent-workflow/go/workflow"
)

// scriptedClient is a chat.Client that answers from a fixed function.
type scriptedClient struct {
	reply func(msgs []chat.Message) string
}

func (c *scriptedClient) Response(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Response, error) {
	return &chat.Response{
		Messages: []chat.Message{chat.NewAssistantMessage(c.reply(msgs))},
	}, nil
}

func (c *scriptedClient) StreamResponse(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Stream[chat.ResponseUpdate], error) {
	return chat.NewStream(ctx, func(ctx context.Context, ch chan<- chat.ResponseUpdate) error {
		ch <- chat.ResponseUpdate{
			Role:     chat.RoleAssistant,
			Contents: chat.Contents{&chat.TextContent{Text: c.reply(msgs)}},
		}
		return nil
	}), nil
}

func TestAgentExecutor_StringPrompt(t *testing.T) {
	client := &scriptedClient{reply: func(msgs []chat.Message) string {
		return "echo: " + chat.MessagesText(msgs)
	}}
	agent := chat.NewAgent(client, chat.WithName("echoer"))

	exec := workflow.NewAgentExecutor("echoer", agent)
	w, err := workflow.NewBuilder("single").SetStart(exec).Build()
	if err != nil {
		t.Fatal(err)
	}

	result, err := w.Run(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Outputs) != 1 {
		t.Fatalf("Outputs = %v", result.Outputs)
	}
	resp, ok := result.Outputs[0].(*chat.AgentResponse)
	if !ok {
		t.Fatalf("output type = %T", result.Outputs[0])
	}
	if resp.Text() != "echo: hello" {
		t.Errorf("Text = %q", resp.Text())
	}
}

func TestAgentExecutor_Chaining(t *testing.T) {
	writer := chat.NewAgent(&scriptedClient{reply: func(msgs []chat.Message) string {
		return "draft about " + chat.MessagesText(msgs)
	}}, chat.WithName("writer"))

	editor := chat.NewAgent(&scriptedClient{reply: func(msgs []chat.Message) string {
		return "polished: " + chat.MessagesText(msgs)
	}}, chat.WithName("editor"))

	writeExec := workflow.NewAgentExecutor("writer", writer)
	editExec := workflow.NewAgentExecutor("editor", editor)

	w, err := workflow.NewBuilder("write-then-edit").
		SetStart(writeExec).
		AddEdge(writeExec, editExec).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	result, err := w.Run(context.Background(), "gophers")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Outputs) != 1 {
		t.Fatalf("Outputs = %v", result.Outputs)
	}
	resp := result.Outputs[0].(*chat.AgentResponse)
	// The editor sees the writer's text as its prompt.
	if resp.Text() != "polished: draft about gophers" {
		t.Errorf("Text = %q", resp.Text())
	}
	if result.Supersteps != 2 {
		t.Errorf("Supersteps = %d", result.Supersteps)
	}
}

func TestAgentExecutor_MessageListInput(t *testing.T) {
	client := &scriptedClient{reply: func(msgs []chat.Message) string {
		return "saw " + chat.MessagesText(msgs)
	}}
	agent := chat.NewAgent(client)

	exec := workflow.NewAgentExecutor("a", agent)
	if !exec.CanHandle([]chat.Message{}) {
		t.Error("should handle []chat.Message")
	}
	if !exec.CanHandle("prompt") {
		t.Error("should handle string")
	}
	if !exec.CanHandle((*chat.AgentResponse)(nil)) {
		t.Error("should handle *chat.AgentResponse")
	}

	w, err := workflow.NewBuilder("msgs").SetStart(exec).Build()
	if err != nil {
		t.Fatal(err)
	}
	result, err := w.Run(context.Background(), []chat.Message{
		chat.NewUserMessage("one"),
		chat.NewUserMessage("two"),
	})
	if err != nil {
		t.Fatal(err)
	}
	resp := result.Outputs[0].(*chat.AgentResponse)
	if resp.Text() != "saw onetwo" {
		t.Errorf("Text = %q", resp.Text())
	}
}

func TestAgentExecutor_SessionAcrossInvocations(t *testing.T) {
	client := &scriptedClient{reply: func(msgs []chat.Message) string {
		// Replies with the number of user messages it can see.
		n := 0
		for _, m := range msgs {
			if m.Role == chat.RoleUser {
				n++
			}
		}
		return strings.Repeat("*", n)
	}}
	agent := chat.NewAgent(client)
	session := agent.NewSession()

	exec := workflow.NewAgentExecutor("counter", agent, workflow.WithAgentSession(session))
	w, err := workflow.NewBuilder("session").SetStart(exec).Build()
	if err != nil {
		t.Fatal(err)
	}

	first, err := w.Run(context.Background(), "q1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.Run(context.Background(), "q2")
	if err != nil {
		t.Fatal(err)
	}

	if got := first.Outputs[0].(*chat.AgentResponse).Text(); got != "*" {
		t.Errorf("first = %q", got)
	}
	// The second run sees the first run's user message from the session.
	if got := second.Outputs[0].(*chat.AgentResponse).Text(); got != "**" {
		t.Errorf("second = %q", got)
	}
}
