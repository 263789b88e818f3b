// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/microsoft/agent-workflow/go/chat"
)

// Client implements [chat.Client] using the OpenAI Chat Completions API.
// Use [New] to create one.
type Client struct {
	tp    transport
	model string
}

// Verify interface compliance at compile time.
var _ chat.Client = (*Client)(nil)

// New creates an OpenAI [Client] with the given API key and options.
//
//	client := openai.New(os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o"),
//	)
func New(apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return &Client{
		tp:    newHTTPTransport(apiKey, cfg),
		model: cfg.model,
	}
}

// newWithTransport creates a Client with a custom transport (for testing).
func newWithTransport(tp transport, model string) *Client {
	return &Client{tp: tp, model: model}
}

// Response sends a non-streaming chat completion request and returns the
// complete response.
func (c *Client) Response(ctx context.Context, messages []chat.Message, opts *chat.Options) (*chat.Response, error) {
	req := buildRequest(messages, opts, c.model)
	req.Stream = false

	resp, err := c.tp.do(ctx, "POST", "/chat/completions", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", chat.ErrService, err)
	}

	var raw completionResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", chat.ErrInvalidResponse, err)
	}

	result := parseResponse(&raw)
	result.Raw = &raw
	return result, nil
}

// StreamResponse sends a streaming chat completion request and returns
// a [chat.Stream] that yields incremental updates via server-sent events.
func (c *Client) StreamResponse(ctx context.Context, messages []chat.Message, opts *chat.Options) (*chat.Stream[chat.ResponseUpdate], error) {
	req := buildRequest(messages, opts, c.model)
	req.Stream = true
	req.StreamOptions = &streamOptions{IncludeUsage: true}

	resp, err := c.tp.do(ctx, "POST", "/chat/completions", req)
	if err != nil {
		return nil, err
	}

	stream := chat.NewStream(ctx, func(ctx context.Context, ch chan<- chat.ResponseUpdate) error {
		defer resp.Body.Close()
		return parseSSEStream(ctx, resp.Body, ch)
	})

	return stream, nil
}

// parseSSEStream reads OpenAI server-sent events from r and sends parsed
// updates to ch. It returns when the stream is exhausted ([DONE]), the
// context is cancelled, or an error occurs.
func parseSSEStream(ctx context.Context, r io.Reader, ch chan<- chat.ResponseUpdate) error {
	scanner := bufio.NewScanner(r)
	// Allow large SSE lines (some responses can be substantial).
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		// SSE format: lines starting with "data: "
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data: "))

		// Stream terminator.
		if data == "[DONE]" {
			return nil
		}

		var chunk completionChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Skip malformed chunks rather than aborting.
			continue
		}

		update := parseChunk(&chunk)
		update.Raw = &chunk

		select {
		case ch <- *update:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read SSE stream: %v", chat.ErrService, err)
	}

	return nil
}
