// Copyright (c) Microsoft. All rights reserved.

package chat

import (
	"context"
	"strings"
)

// Response is the complete (non-streaming) response from a [Client].
type Response struct {
	Messages       []Message
	ResponseID     string
	ConversationID string
	ModelID        string
	CreatedAt      string
	FinishReason   FinishReason
	Usage          UsageDetails
	Extra          map[string]any
	Raw            any
}

// Text returns the concatenated text of all messages in this response.
func (r *Response) Text() string {
	return MessagesText(r.Messages)
}

// ResponseUpdate is a single chunk received during streaming from a [Client].
type ResponseUpdate struct {
	Contents       Contents
	Role           Role
	ResponseID     string
	ConversationID string
	ModelID        string
	FinishReason   FinishReason
	Usage          UsageDetails
	Raw            any
}

// Text returns the concatenated text of all [TextContent] items in this update.
func (u *ResponseUpdate) Text() string {
	return contentsText(u.Contents)
}

// AgentResponse is the complete response from an [Agent] run.
type AgentResponse struct {
	Messages   []Message
	ResponseID string
	AgentID    string
	Usage      UsageDetails
	Extra      map[string]any
	Raw        any
}

// Text returns the concatenated text of all messages in this agent response.
func (r *AgentResponse) Text() string {
	return MessagesText(r.Messages)
}

// AgentResponseUpdate is a single streaming chunk from an [Agent] run.
type AgentResponseUpdate struct {
	Contents   Contents
	Role       Role
	AgentID    string
	ResponseID string
	Usage      UsageDetails
	Raw        any
}

// Text returns the concatenated text of all [TextContent] items in this update.
func (u *AgentResponseUpdate) Text() string {
	return contentsText(u.Contents)
}

func contentsText(cs Contents) string {
	var b strings.Builder
	for _, c := range cs {
		if tc, ok := c.(*TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

// ResponseFromUpdates builds a complete [Response] by merging a sequence of
// streaming updates.
func ResponseFromUpdates(updates []ResponseUpdate) *Response {
	resp := &Response{}
	var allContents Contents
	for _, u := range updates {
		allContents = append(allContents, u.Contents...)
		if u.ResponseID != "" {
			resp.ResponseID = u.ResponseID
		}
		if u.ConversationID != "" {
			resp.ConversationID = u.ConversationID
		}
		if u.ModelID != "" {
			resp.ModelID = u.ModelID
		}
		if u.FinishReason != "" {
			resp.FinishReason = u.FinishReason
		}
		if u.Usage.TotalTokens > 0 {
			resp.Usage = u.Usage
		}
	}

	if merged := mergeContentDeltas(allContents); len(merged) > 0 {
		role := RoleAssistant
		if len(updates) > 0 && updates[0].Role != "" {
			role = updates[0].Role
		}
		resp.Messages = []Message{{Role: role, Contents: merged}}
	}
	return resp
}

// AgentResponseFromUpdates builds a complete [AgentResponse] by merging a
// sequence of streaming updates.
func AgentResponseFromUpdates(updates []AgentResponseUpdate) *AgentResponse {
	resp := &AgentResponse{}
	var allContents Contents
	for _, u := range updates {
		allContents = append(allContents, u.Contents...)
		if u.AgentID != "" {
			resp.AgentID = u.AgentID
		}
		if u.ResponseID != "" {
			resp.ResponseID = u.ResponseID
		}
		if u.Usage.TotalTokens > 0 {
			resp.Usage = u.Usage
		}
	}

	if merged := mergeContentDeltas(allContents); len(merged) > 0 {
		role := RoleAssistant
		if len(updates) > 0 && updates[0].Role != "" {
			role = updates[0].Role
		}
		resp.Messages = []Message{{Role: role, Contents: merged}}
	}
	return resp
}

// mergeContentDeltas consolidates sequential TextContent runs into single
// items, and passes non-text content through as-is.
func mergeContentDeltas(cs Contents) Contents {
	if len(cs) == 0 {
		return nil
	}
	var merged Contents
	var textBuf strings.Builder
	flush := func() {
		if textBuf.Len() > 0 {
			merged = append(merged, &TextContent{Text: textBuf.String()})
			textBuf.Reset()
		}
	}
	for _, c := range cs {
		if tc, ok := c.(*TextContent); ok {
			textBuf.WriteString(tc.Text)
		} else {
			flush()
			merged = append(merged, c)
		}
	}
	flush()
	return merged
}

// AgentStream wraps a [Stream] of [AgentResponseUpdate] and provides a
// FinalResponse method that collects all updates and merges them.
type AgentStream struct {
	stream  *Stream[AgentResponseUpdate]
	updates []AgentResponseUpdate
}

// NewAgentStream wraps a raw update stream.
func NewAgentStream(stream *Stream[AgentResponseUpdate]) *AgentStream {
	return &AgentStream{stream: stream}
}

// Next returns the next streaming update.
func (s *AgentStream) Next(ctx context.Context) (AgentResponseUpdate, bool, error) {
	val, ok, err := s.stream.Next(ctx)
	if ok {
		s.updates = append(s.updates, val)
	}
	return val, ok, err
}

// FinalResponse collects remaining updates and returns the merged
// [AgentResponse]. After calling this, the stream is fully consumed.
func (s *AgentStream) FinalResponse(ctx context.Context) (*AgentResponse, error) {
	for {
		val, ok, err := s.stream.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		s.updates = append(s.updates, val)
	}
	return AgentResponseFromUpdates(s.updates), nil
}

// Close releases the underlying stream resources.
func (s *AgentStream) Close() error {
	return s.stream.Close()
}
