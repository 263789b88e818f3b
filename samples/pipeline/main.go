// Copyright (c) Microsoft. All rights reserved.

// Command pipeline runs a two-agent writer/editor workflow and prints the
// events as they happen.
//
// Usage:
//
//	export OPENAI_API_KEY=sk-...
//	go run . "a haiku about goroutines"
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/microsoft/agent-workflow/go/chat"
	"github.com/microsoft/agent-workflow/go/openai"
	"github.com/microsoft/agent-workflow/go/workflow"
)

func main() {
	_ = godotenv.Load()

	if os.Getenv("DEBUG") != "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("Set OPENAI_API_KEY")
	}
	client := openai.New(apiKey, openai.WithModel("gpt-4o-mini"))

	topic := "a haiku about goroutines"
	if len(os.Args) > 1 {
		topic = os.Args[1]
	}

	writer := chat.NewAgent(client,
		chat.WithName("writer"),
		chat.WithInstructions("Write a first draft for the requested piece. Output only the draft."),
	)
	editor := chat.NewAgent(client,
		chat.WithName("editor"),
		chat.WithInstructions("Polish the draft you are given. Fix wording and rhythm; keep the author's intent. Output only the final text."),
	)

	writeStep := workflow.NewAgentExecutor("writer", writer)
	editStep := workflow.NewAgentExecutor("editor", editor)

	w, err := workflow.NewBuilder("write-then-edit").
		SetStart(writeStep).
		AddEdge(writeStep, editStep).
		Build()
	if err != nil {
		log.Fatalf("build workflow: %v", err)
	}

	ctx := context.Background()
	stream := w.RunStream(ctx, topic)
	defer stream.Close()

	for {
		ev, ok, err := stream.Next(ctx)
		if err != nil {
			log.Fatalf("run: %v", err)
		}
		if !ok {
			break
		}

		switch e := ev.(type) {
		case *workflow.StartedEvent:
			fmt.Printf("-- %s started\n", e.WorkflowName)
		case *workflow.InvokedEvent:
			fmt.Printf("-- [%d] %s running\n", e.Superstep, e.ExecutorID)
		case *workflow.CompletedEvent:
			fmt.Printf("-- [%d] %s done (%d message(s))\n", e.Superstep, e.ExecutorID, e.MessageCount)
		case *workflow.OutputEvent:
			if resp, ok := e.Output.(*chat.AgentResponse); ok {
				fmt.Printf("\n%s\n\n", resp.Text())
			}
		case *workflow.FinishedEvent:
			fmt.Printf("-- finished in %d supersteps\n", e.Supersteps)
		}
	}
}
