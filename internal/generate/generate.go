// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate sends a composed request to a hosted text-generation
// model and returns its markdown answer. Each provider implements Backend;
// there are no retries and no client-side timeouts.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/doc-digest/internal/compose"
	"github.com/pdiddy/doc-digest/internal/secrets"
	"github.com/pdiddy/doc-digest/pkg/types"
)

var (
	// ErrEmptyResponse is returned when the backend answers without text.
	ErrEmptyResponse = errors.New("generate: backend returned no text")

	// ErrMissingAPIKey is returned when no key is configured for a provider.
	ErrMissingAPIKey = errors.New("generate: missing API key")
)

// Backend abstracts the generation service so tests can supply a fake.
type Backend interface {
	// Name identifies the provider and model for logs.
	Name() string

	// Generate sends req and returns the model's markdown response.
	Generate(ctx context.Context, req compose.Request) (string, error)
}

// secretKeys maps providers to their secret file names in .secrets/.
var secretKeys = map[types.Provider]string{
	types.ProviderGemini: secrets.GeminiAPIKey,
	types.ProviderClaude: secrets.AnthropicAPIKey,
	types.ProviderOpenAI: secrets.OpenAIAPIKey,
}

// envKeys maps providers to the environment variables consulted last.
var envKeys = map[types.Provider]string{
	types.ProviderGemini: "GEMINI_API_KEY",
	types.ProviderClaude: "ANTHROPIC_API_KEY",
	types.ProviderOpenAI: "OPENAI_API_KEY",
}

// ResolveAPIKey picks the key for cfg.Provider from, in order, the config,
// the loaded secrets, and the provider's environment variable.
func ResolveAPIKey(cfg types.GenerationConfig, keys map[string]string) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	if v := keys[secretKeys[cfg.Provider]]; v != "" {
		return v
	}
	if name, ok := envKeys[cfg.Provider]; ok {
		return os.Getenv(name)
	}
	return ""
}

// New builds the Backend selected by cfg.Provider.
func New(ctx context.Context, cfg types.GenerationConfig, keys map[string]string) (Backend, error) {
	if cfg.Provider == types.ProviderFake {
		return NewFake(), nil
	}

	key := ResolveAPIKey(cfg, keys)
	if key == "" {
		return nil, fmt.Errorf("%w for provider %q (set generation.api_key, .secrets/%s, or %s)",
			ErrMissingAPIKey, cfg.Provider, secretKeys[cfg.Provider], envKeys[cfg.Provider])
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	switch cfg.Provider {
	case types.ProviderGemini:
		return NewGemini(ctx, key, cfg.Model, cfg.BaseURL)
	case types.ProviderClaude:
		return NewClaude(key, cfg.Model, maxTokens, cfg.BaseURL), nil
	case types.ProviderOpenAI:
		return NewOpenAI(key, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}

// WithLogging wraps b so that every call logs its request size, duration,
// and error.
func WithLogging(b Backend, logger *zap.Logger) Backend {
	if logger == nil {
		return b
	}
	return &logging{next: b, log: logger}
}

type logging struct {
	next Backend
	log  *zap.Logger
}

func (l *logging) Name() string { return l.next.Name() }

func (l *logging) Generate(ctx context.Context, req compose.Request) (string, error) {
	start := time.Now()
	l.log.Info("generation request",
		zap.String("backend", l.next.Name()),
		zap.Int("files", len(req.Files)),
		zap.Int("bytes", len(req.Instruction)+len(req.Content)))

	out, err := l.next.Generate(ctx, req)
	if err != nil {
		l.log.Error("generation failed",
			zap.String("backend", l.next.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", err
	}

	l.log.Info("generation response",
		zap.String("backend", l.next.Name()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(out)))
	return out, nil
}
