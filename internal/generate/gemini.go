// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pdiddy/doc-digest/internal/compose"
)

// GeminiBackend calls the Gemini API through the official genai client.
// The instruction and the file contents travel as two parts of one user
// turn.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGemini constructs a Gemini backend. baseURL is optional.
func NewGemini(ctx context.Context, apiKey, model, baseURL string) (*GeminiBackend, error) {
	cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiBackend{client: cli, model: model}, nil
}

// Name returns "gemini:" followed by the model.
func (g *GeminiBackend) Name() string { return "gemini:" + g.model }

// Generate sends req as one user turn and returns the first candidate's text.
func (g *GeminiBackend) Generate(ctx context.Context, req compose.Request) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, geminiContents(req), nil)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	text := geminiText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func geminiContents(req compose.Request) []*genai.Content {
	return []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: req.Instruction},
			{Text: req.Content},
		},
	}}
}

// geminiText concatenates the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && !p.Thought {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}
