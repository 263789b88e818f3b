// Copyright (c) Microsoft. All rights reserved.

package chat_test

import (
	"context"

	"github.com/microsoft/agent-workflow/go/chat"
)

// mockClient is a scriptable chat.Client for tests.
type mockClient struct {
	responseFn func(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Response, error)
	streamFn   func(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Stream[chat.ResponseUpdate], error)
}

func (m *mockClient) Response(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Response, error) {
	return m.responseFn(ctx, msgs, opts)
}

func (m *mockClient) StreamResponse(ctx context.Context, msgs []chat.Message, opts *chat.Options) (*chat.Stream[chat.ResponseUpdate], error) {
	if m.streamFn != nil {
		return m.streamFn(ctx, msgs, opts)
	}
	stream := chat.NewStream(ctx, func(ctx context.Context, ch chan<- chat.ResponseUpdate) error {
		resp, err := m.responseFn(ctx, msgs, opts)
		if err != nil {
			return err
		}
		for _, msg := range resp.Messages {
			select {
			case ch <- chat.ResponseUpdate{Contents: msg.Contents, Role: msg.Role, ResponseID: resp.ResponseID}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	return stream, nil
}
