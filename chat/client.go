// Copyright (c) Microsoft. All rights reserved.

package chat

import "context"

// Client is the interface for interacting with a model backend.
// Provider packages (e.g., openai) implement this interface.
type Client interface {
	// Response sends messages to the model and returns a complete response.
	Response(ctx context.Context, messages []Message, opts *Options) (*Response, error)

	// StreamResponse sends messages and returns a stream of incremental updates.
	StreamResponse(ctx context.Context, messages []Message, opts *Options) (*Stream[ResponseUpdate], error)
}
