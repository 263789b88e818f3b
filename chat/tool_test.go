// Copyright (c) Microsoft. All rights reserved.

package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/microsoft/agent-workflow/go/chat"
)

func TestNewTool(t *testing.T) {
	params := json.RawMessage(`{"type":"object","properties":{"x":{"type":"number"}}}`)
	tool := chat.NewTool("square", "Squares a number", params,
		func(ctx context.Context, args json.RawMessage) (any, error) {
			var in struct {
				X float64 `json:"x"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, err
			}
			return in.X * in.X, nil
		},
	)

	if tool.Name() != "square" || tool.Description() != "Squares a number" {
		t.Errorf("metadata = %q %q", tool.Name(), tool.Description())
	}

	result, err := tool.Invoke(context.Background(), json.RawMessage(`{"x":3}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if result != float64(9) {
		t.Errorf("result = %v", result)
	}
}

func TestNewTypedTool(t *testing.T) {
	type args struct {
		City string `json:"city" jsonschema:"description=City name,required"`
		Days int    `json:"days"`
	}

	tool := chat.NewTypedTool("forecast", "Gets a weather forecast",
		func(ctx context.Context, a args) (any, error) {
			return fmt.Sprintf("%s:%d", a.City, a.Days), nil
		},
	)

	schema := string(tool.Parameters())
	for _, want := range []string{`"city"`, `"days"`, `"required"`, "City name"} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema missing %s: %s", want, schema)
		}
	}

	result, err := tool.Invoke(context.Background(), json.RawMessage(`{"city":"Oslo","days":3}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if result != "Oslo:3" {
		t.Errorf("result = %v", result)
	}
}

func TestTypedTool_InvalidArguments(t *testing.T) {
	tool := chat.NewTypedTool("echo", "Echoes",
		func(ctx context.Context, a struct {
			Text string `json:"text"`
		}) (any, error) {
			return a.Text, nil
		},
	)

	_, err := tool.Invoke(context.Background(), json.RawMessage(`not json`))
	if err == nil {
		t.Fatal("expected error for malformed arguments")
	}
	var toolErr *chat.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error type = %T", err)
	}
	if toolErr.ToolName != "echo" {
		t.Errorf("ToolName = %q", toolErr.ToolName)
	}
	if !errors.Is(err, chat.ErrToolExecution) {
		t.Error("should unwrap to ErrToolExecution")
	}
	if !errors.Is(err, chat.ErrTool) {
		t.Error("should unwrap to ErrTool")
	}
}

func TestTool_NoHandler(t *testing.T) {
	tool := chat.NewTool("empty", "No handler", nil, nil)
	_, err := tool.Invoke(context.Background(), nil)
	if !errors.Is(err, chat.ErrToolExecution) {
		t.Errorf("err = %v", err)
	}
}
