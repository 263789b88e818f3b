// Copyright (c) Microsoft. All rights reserved.

// Package chat provides the conversational primitives the workflow layer is
// built on: messages with typed content parts, the [Client] interface for
// model backends, streaming via [Stream], tools with generated JSON Schemas,
// sessions, middleware, and guardrail markers.
//
// # Quick Start
//
// Create a [Client] (e.g., from the openai package) and build an [Agent]:
//
//	client := openai.New(os.Getenv("OPENAI_API_KEY"), openai.WithModel("gpt-4o"))
//
//	agent := chat.NewAgent(client,
//	    chat.WithName("assistant"),
//	    chat.WithInstructions("You are helpful."),
//	)
//
//	resp, err := agent.Run(ctx, []chat.Message{chat.NewUserMessage("Hello!")})
//
// # Architecture
//
//   - [Agent]: composes a client with tools, middleware, and sessions.
//   - [Client]: interface for model backends (implemented by provider packages).
//   - [Tool]: callable functions exposed to the model via function calling.
//   - [Content]: sealed interface of typed message parts.
//   - [Session]: multi-turn conversation state (service-managed or local).
//   - [Stream]: generic pull-based iterator for streaming responses.
//   - [InputGuardrail], [OutputGuardrail]: markers for validation steps.
//
// Agents can be lifted into multi-step pipelines with the workflow package;
// see workflow.NewAgentExecutor.
package chat
