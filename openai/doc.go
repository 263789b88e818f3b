// Copyright (c) Microsoft. All rights reserved.

// Package openai provides a [chat.Client] implementation for the OpenAI
// Chat Completions API, including Azure OpenAI endpoints.
//
// Create a client and pass it to [chat.NewAgent]:
//
//	client := openai.New(os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o"),
//	)
//
//	agent := chat.NewAgent(client)
//
// The client supports synchronous and streaming responses, tool calling,
// and all standard chat.Options fields.
//
// # Configuration
//
//   - [WithModel]: set the default model
//   - [WithBaseURL]: override the API endpoint (e.g., Azure OpenAI)
//   - [WithAzureCredential]: authenticate with Azure AD instead of an API key
//   - [WithOrganization]: set the OpenAI organization header
//   - [WithHTTPClient]: provide a custom http.Client
//   - [WithHeaders]: add custom headers to every request
//
// # Testing
//
// The client uses an unexported transport interface internally. For testing,
// provide a mock http.Client via [WithHTTPClient] with a custom RoundTripper.
package openai
