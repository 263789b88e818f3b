// Copyright (c) Microsoft. All rights reserved.

// Command chat is an interactive conversational agent with tool use.
//
// It works with both direct OpenAI and Azure OpenAI endpoints.
//
// Usage with OpenAI:
//
//	export OPENAI_API_KEY=sk-...
//	go run .
//
// Usage with Azure OpenAI:
//
//	export AZURE_OPENAI_ENDPOINT=https://<resource>.openai.azure.com/openai/deployments/<deployment>
//	export AZURE_OPENAI_KEY=<your-key>         # omit to use Azure AD (az login etc.)
//	export AZURE_OPENAI_MODEL=gpt-4o           # optional, defaults to gpt-4o
//	go run .
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/joho/godotenv"

	"github.com/microsoft/agent-workflow/go/chat"
	"github.com/microsoft/agent-workflow/go/openai"
)

func main() {
	// Load .env if present (ignored when missing).
	_ = godotenv.Load()

	if os.Getenv("DEBUG") != "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	client := newChatClient()

	weatherTool := chat.NewTypedTool("get_weather",
		"Get the current weather for a location.",
		func(ctx context.Context, args struct {
			Location string `json:"location" jsonschema:"description=City name or location,required"`
			Unit     string `json:"unit"     jsonschema:"description=Temperature unit,enum=celsius|fahrenheit"`
		}) (any, error) {
			// Simulated weather API
			unit := args.Unit
			if unit == "" {
				unit = "celsius"
			}
			temp := 21
			if unit == "fahrenheit" {
				temp = 70
			}
			return map[string]any{
				"location":    args.Location,
				"temperature": temp,
				"unit":        unit,
				"condition":   "partly cloudy",
			}, nil
		},
	)

	timeTool := chat.NewTypedTool("get_time",
		"Get the current UTC time.",
		func(ctx context.Context, args struct{}) (any, error) {
			return time.Now().UTC().Format(time.RFC3339), nil
		},
	)

	agent := chat.NewAgent(client,
		chat.WithName("assistant"),
		chat.WithInstructions("You are a helpful assistant. Use get_weather for weather questions and get_time for time questions. Keep responses concise."),
		chat.WithTools(weatherTool, timeTool),
		chat.WithAgentMiddleware(chat.LoggingMiddleware(slog.Default())),
	)

	session := agent.NewSession()

	fmt.Println("Chat with the assistant (type 'quit' to exit, 'stream ' prefix for streaming)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			break
		}

		ctx := context.Background()

		if rest, ok := strings.CutPrefix(input, "stream "); ok {
			stream, err := agent.RunStream(ctx,
				[]chat.Message{chat.NewUserMessage(rest)},
				chat.WithSession(session),
			)
			if err != nil {
				log.Printf("Error: %v", err)
				continue
			}

			fmt.Print("Assistant: ")
			for {
				update, ok, err := stream.Next(ctx)
				if err != nil {
					log.Printf("\nStream error: %v", err)
					break
				}
				if !ok {
					break
				}
				fmt.Print(update.Text())
			}
			fmt.Println()
			stream.Close()
			fmt.Println()
			continue
		}

		resp, err := agent.Run(ctx,
			[]chat.Message{chat.NewUserMessage(input)},
			chat.WithSession(session),
		)
		if err != nil {
			log.Printf("Error: %v", err)
			continue
		}

		fmt.Printf("Assistant: %s\n", resp.Text())
		if resp.Usage.TotalTokens > 0 {
			fmt.Printf("  [tokens: %d in, %d out]\n",
				resp.Usage.InputTokens, resp.Usage.OutputTokens)
		}
		fmt.Println()
	}
}

// newChatClient creates an OpenAI-compatible client, choosing between Azure
// OpenAI and direct OpenAI based on which environment variables are set.
func newChatClient() *openai.Client {
	if endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT"); endpoint != "" {
		model := os.Getenv("AZURE_OPENAI_MODEL")
		if model == "" {
			model = "gpt-4o"
		}

		if key := os.Getenv("AZURE_OPENAI_KEY"); key != "" {
			// Azure uses the api-key header instead of a Bearer token.
			return openai.New(key,
				openai.WithBaseURL(endpoint),
				openai.WithModel(model),
				openai.WithHeaders(map[string]string{"api-key": key}),
			)
		}

		// No key: Azure AD via DefaultAzureCredential (env vars, managed
		// identity, az login).
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			log.Fatalf("create Azure credential: %v", err)
		}
		return openai.New("",
			openai.WithBaseURL(endpoint),
			openai.WithModel(model),
			openai.WithAzureCredential(cred),
		)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("Set OPENAI_API_KEY or AZURE_OPENAI_ENDPOINT")
	}
	return openai.New(apiKey, openai.WithModel("gpt-4o"))
}
