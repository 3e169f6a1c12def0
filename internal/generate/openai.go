// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/doc-digest/internal/compose"
)

// OpenAIBackend calls an OpenAI-compatible chat completions endpoint. The
// instruction and the file contents are two text parts of one user message.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAI constructs an OpenAI backend. baseURL selects a compatible
// gateway when non-empty.
func NewOpenAI(apiKey, model, baseURL string) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(cfg), model: model}
}

// Name returns "openai:" followed by the model.
func (o *OpenAIBackend) Name() string { return "openai:" + o.model }

// Generate sends req as one chat completion and returns the first choice.
func (o *OpenAIBackend) Generate(ctx context.Context, req compose.Request) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: req.Instruction},
				{Type: openai.ChatMessagePartTypeText, Text: req.Content},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
