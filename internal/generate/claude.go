// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/doc-digest/internal/compose"
)

// ClaudeBackend calls the Anthropic Messages API. The instruction and the
// file contents are two text blocks of one user message.
type ClaudeBackend struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

// NewClaude constructs a Claude backend with SDK retries disabled.
func NewClaude(apiKey, model string, maxTokens int, baseURL string) *ClaudeBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &ClaudeBackend{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Name returns "claude:" followed by the model.
func (c *ClaudeBackend) Name() string { return "claude:" + c.model }

// Generate sends req as one user message and returns the joined text blocks.
func (c *ClaudeBackend) Generate(ctx context.Context, req compose.Request) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(req.Instruction),
				anthropic.NewTextBlock(req.Content),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
