// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"encoding/json"
	"strings"

	"github.com/microsoft/agent-workflow/go/chat"
)

// completionRequest is the OpenAI Chat Completions API request body.
type completionRequest struct {
	Model            string            `json:"model"`
	Messages         []wireMessage     `json:"messages"`
	Temperature      *float64          `json:"temperature,omitempty"`
	TopP             *float64          `json:"top_p,omitempty"`
	MaxTokens        *int              `json:"max_completion_tokens,omitempty"`
	Stop             []string          `json:"stop,omitempty"`
	Seed             *int              `json:"seed,omitempty"`
	FrequencyPenalty *float64          `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64          `json:"presence_penalty,omitempty"`
	Tools            []toolSpec        `json:"tools,omitempty"`
	ToolChoice       any               `json:"tool_choice,omitempty"`
	User             string            `json:"user,omitempty"`
	Stream           bool              `json:"stream,omitempty"`
	StreamOptions    *streamOptions    `json:"stream_options,omitempty"`
	ResponseFormat   any               `json:"response_format,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

type wireMessage struct {
	Role       string     `json:"role"`
	Content    any        `json:"content,omitempty"` // string or []contentPart
	Name       string     `json:"name,omitempty"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type toolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function functionSpec `json:"function"`
}

type toolSpec struct {
	Type     string           `json:"type"`
	Function functionDeclSpec `json:"function"`
}

type functionSpec struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type functionDeclSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// buildRequest converts framework types into an OpenAI API request.
func buildRequest(messages []chat.Message, opts *chat.Options, defaultModel string) *completionRequest {
	req := &completionRequest{
		Model: defaultModel,
	}
	if opts != nil {
		if opts.ModelID != "" {
			req.Model = opts.ModelID
		}
		req.Temperature = opts.Temperature
		req.TopP = opts.TopP
		req.MaxTokens = opts.MaxTokens
		req.Stop = opts.Stop
		req.Seed = opts.Seed
		req.FrequencyPenalty = opts.FrequencyPenalty
		req.PresencePenalty = opts.PresencePenalty
		req.User = opts.User
		req.Metadata = opts.Metadata
		req.ResponseFormat = opts.ResponseFormat

		for _, t := range opts.Tools {
			req.Tools = append(req.Tools, toolSpec{
				Type: "function",
				Function: functionDeclSpec{
					Name:        t.Name(),
					Description: t.Description(),
					Parameters:  t.Parameters(),
				},
			})
		}

		req.ToolChoice = convertToolChoice(opts.ToolChoice)
	}

	req.Messages = convertMessages(messages)
	return req
}

// convertMessages translates framework Messages into OpenAI chat messages.
func convertMessages(messages []chat.Message) []wireMessage {
	result := make([]wireMessage, 0, len(messages))

	for _, msg := range messages {
		wm := wireMessage{
			Role: string(msg.Role),
			Name: msg.AuthorName,
		}

		switch msg.Role {
		case chat.RoleTool:
			// Tool messages carry a single function result
			for _, c := range msg.Contents {
				if fr, ok := c.(*chat.FunctionResultContent); ok {
					wm.ToolCallID = fr.CallID
					resultStr, _ := marshalResult(fr.Result)
					wm.Content = resultStr
				}
			}

		case chat.RoleAssistant:
			// Assistant messages may have text + tool calls
			var textParts []string
			for _, c := range msg.Contents {
				switch v := c.(type) {
				case *chat.TextContent:
					textParts = append(textParts, v.Text)
				case *chat.FunctionCallContent:
					wm.ToolCalls = append(wm.ToolCalls, toolCall{
						ID:   v.CallID,
						Type: "function",
						Function: functionSpec{
							Name:      v.Name,
							Arguments: v.Arguments,
						},
					})
				}
			}
			if len(textParts) > 0 {
				wm.Content = strings.Join(textParts, "")
			}

		default:
			// User/system messages: simple text or multi-part
			parts := convertContentParts(msg.Contents)
			if len(parts) == 1 && parts[0].Type == "text" {
				wm.Content = parts[0].Text
			} else if len(parts) > 0 {
				wm.Content = parts
			}
		}

		result = append(result, wm)
	}

	return result
}

// convertContentParts converts framework Content items into OpenAI content parts.
func convertContentParts(contents chat.Contents) []contentPart {
	var parts []contentPart
	for _, c := range contents {
		switch v := c.(type) {
		case *chat.TextContent:
			parts = append(parts, contentPart{Type: "text", Text: v.Text})
		case *chat.DataContent:
			parts = append(parts, contentPart{
				Type:     "image_url",
				ImageURL: &imageURL{URL: v.URI},
			})
		case *chat.URIContent:
			parts = append(parts, contentPart{
				Type:     "image_url",
				ImageURL: &imageURL{URL: v.URI},
			})
		}
	}
	return parts
}

func convertToolChoice(tc chat.ToolChoice) any {
	if tc == "" {
		return nil
	}
	switch tc {
	case chat.ToolChoiceAuto:
		return "auto"
	case chat.ToolChoiceRequired:
		return "required"
	case chat.ToolChoiceNone:
		return "none"
	default:
		s := string(tc)
		if name, ok := strings.CutPrefix(s, "function:"); ok && name != "" {
			return map[string]any{
				"type": "function",
				"function": map[string]string{
					"name": name,
				},
			}
		}
		return s
	}
}

func marshalResult(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	return string(b), err
}

// completionResponse is the OpenAI Chat Completions API response.
type completionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

type choice struct {
	Index        int         `json:"index"`
	Message      respMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type respMessage struct {
	Role      string     `json:"role"`
	Content   *string    `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// completionChunk is a single SSE chunk in streaming mode.
type completionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []chunkChoice `json:"choices"`
	Usage   *usage        `json:"usage,omitempty"`
}

type chunkChoice struct {
	Index        int        `json:"index"`
	Delta        chunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

type chunkDelta struct {
	Role      string     `json:"role,omitempty"`
	Content   *string    `json:"content,omitempty"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

// parseResponse converts the OpenAI response into framework types.
func parseResponse(raw *completionResponse) *chat.Response {
	resp := &chat.Response{
		ResponseID: raw.ID,
		ModelID:    raw.Model,
	}

	if raw.Usage != nil {
		resp.Usage = chat.UsageDetails{
			InputTokens:  raw.Usage.PromptTokens,
			OutputTokens: raw.Usage.CompletionTokens,
			TotalTokens:  raw.Usage.TotalTokens,
		}
	}

	if len(raw.Choices) > 0 {
		c := raw.Choices[0]
		resp.FinishReason = mapFinishReason(c.FinishReason)

		msg := chat.Message{
			Role: chat.Role(c.Message.Role),
		}

		if c.Message.Content != nil && *c.Message.Content != "" {
			msg.Contents = append(msg.Contents, &chat.TextContent{Text: *c.Message.Content})
		}

		for _, tc := range c.Message.ToolCalls {
			msg.Contents = append(msg.Contents, &chat.FunctionCallContent{
				CallID:    tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}

		resp.Messages = []chat.Message{msg}
	}

	return resp
}

// parseChunk converts a streaming chunk into a ResponseUpdate.
func parseChunk(chunk *completionChunk) *chat.ResponseUpdate {
	update := &chat.ResponseUpdate{
		ResponseID: chunk.ID,
		ModelID:    chunk.Model,
	}

	if chunk.Usage != nil {
		update.Usage = chat.UsageDetails{
			InputTokens:  chunk.Usage.PromptTokens,
			OutputTokens: chunk.Usage.CompletionTokens,
			TotalTokens:  chunk.Usage.TotalTokens,
		}
	}

	if len(chunk.Choices) > 0 {
		c := chunk.Choices[0]

		if c.Delta.Role != "" {
			update.Role = chat.Role(c.Delta.Role)
		}

		if c.FinishReason != nil {
			update.FinishReason = mapFinishReason(*c.FinishReason)
		}

		if c.Delta.Content != nil && *c.Delta.Content != "" {
			update.Contents = append(update.Contents, &chat.TextContent{Text: *c.Delta.Content})
		}

		for _, tc := range c.Delta.ToolCalls {
			update.Contents = append(update.Contents, &chat.FunctionCallContent{
				CallID:    tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
	}

	return update
}

func mapFinishReason(s string) chat.FinishReason {
	switch s {
	case "stop":
		return chat.FinishReasonStop
	case "length":
		return chat.FinishReasonLength
	case "tool_calls":
		return chat.FinishReasonToolCalls
	case "content_filter":
		return chat.FinishReasonContentFilter
	default:
		return chat.FinishReason(s)
	}
}
