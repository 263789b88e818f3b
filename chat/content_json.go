// Copyright (c) Microsoft. All rights reserved.

package chat

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes each content part with a $type discriminator.
func (cs Contents) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, 0, len(cs))
	for _, c := range cs {
		b, err := marshalContent(c)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return json.Marshal(items)
}

// UnmarshalJSON decodes a list of discriminated content parts.
func (cs *Contents) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(Contents, 0, len(items))
	for _, item := range items {
		c, err := unmarshalContent(item)
		if err != nil {
			return err
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}

func marshalContent(c Content) ([]byte, error) {
	switch v := c.(type) {
	case *TextContent:
		return json.Marshal(struct {
			Type string `json:"$type"`
			Text string `json:"text"`
		}{string(ContentTypeText), v.Text})

	case *ReasoningContent:
		return json.Marshal(struct {
			Type string `json:"$type"`
			Text string `json:"text,omitempty"`
		}{string(ContentTypeReasoning), v.Text})

	case *DataContent:
		return json.Marshal(struct {
			Type      string `json:"$type"`
			URI       string `json:"uri"`
			MediaType string `json:"mediaType,omitempty"`
		}{string(ContentTypeData), v.URI, v.MediaType})

	case *URIContent:
		return json.Marshal(struct {
			Type      string `json:"$type"`
			URI       string `json:"uri"`
			MediaType string `json:"mediaType"`
		}{string(ContentTypeURI), v.URI, v.MediaType})

	case *ErrorContent:
		return json.Marshal(struct {
			Type      string `json:"$type"`
			Message   string `json:"message,omitempty"`
			ErrorCode string `json:"errorCode,omitempty"`
			Details   any    `json:"details,omitempty"`
		}{string(ContentTypeError), v.Message, v.ErrorCode, v.Details})

	case *FunctionCallContent:
		return json.Marshal(struct {
			Type      string          `json:"$type"`
			CallID    string          `json:"callId"`
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments,omitempty"`
		}{string(ContentTypeFunctionCall), v.CallID, v.Name, json.RawMessage(v.Arguments)})

	case *FunctionResultContent:
		return json.Marshal(struct {
			Type   string `json:"$type"`
			CallID string `json:"callId"`
			Result any    `json:"result,omitempty"`
		}{string(ContentTypeFunctionResult), v.CallID, v.Result})

	case *UsageContent:
		return json.Marshal(struct {
			Type  string       `json:"$type"`
			Usage UsageDetails `json:"usage"`
		}{string(ContentTypeUsage), v.Usage})

	default:
		return nil, fmt.Errorf("marshal content: unknown type %T", c)
	}
}

func unmarshalContent(data []byte) (Content, error) {
	var head struct {
		Type ContentType `json:"$type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("unmarshal content discriminator: %w", err)
	}

	switch head.Type {
	case ContentTypeText:
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &TextContent{Text: v.Text}, nil

	case ContentTypeReasoning:
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &ReasoningContent{Text: v.Text}, nil

	case ContentTypeData:
		var v struct {
			URI       string `json:"uri"`
			MediaType string `json:"mediaType"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &DataContent{URI: v.URI, MediaType: v.MediaType}, nil

	case ContentTypeURI:
		var v struct {
			URI       string `json:"uri"`
			MediaType string `json:"mediaType"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &URIContent{URI: v.URI, MediaType: v.MediaType}, nil

	case ContentTypeError:
		var v struct {
			Message   string `json:"message"`
			ErrorCode string `json:"errorCode"`
			Details   any    `json:"details"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &ErrorContent{Message: v.Message, ErrorCode: v.ErrorCode, Details: v.Details}, nil

	case ContentTypeFunctionCall:
		var v struct {
			CallID    string          `json:"callId"`
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &FunctionCallContent{CallID: v.CallID, Name: v.Name, Arguments: string(v.Arguments)}, nil

	case ContentTypeFunctionResult:
		var v struct {
			CallID string `json:"callId"`
			Result any    `json:"result"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &FunctionResultContent{CallID: v.CallID, Result: v.Result}, nil

	case ContentTypeUsage:
		var v struct {
			Usage UsageDetails `json:"usage"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &UsageContent{Usage: v.Usage}, nil

	default:
		return nil, fmt.Errorf("unmarshal content: unknown $type %q", head.Type)
	}
}
