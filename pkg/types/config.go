// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Provider identifies the hosted generation backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
	ProviderFake   Provider = "fake"
)

// GenerationConfig holds settings for the generation backend.
type GenerationConfig struct {
	// Provider selects the backend: gemini, claude, openai, or fake.
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the backend model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the backend. When empty the
	// provider-specific secret file is used.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// MaxTokens caps the response length where the provider requires it (default 8192).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// InstructionFile replaces the built-in instruction template when set.
	InstructionFile string `json:"instruction_file,omitempty" yaml:"instruction_file,omitempty" mapstructure:"instruction_file"`
}

// ExtractionConfig holds settings for the text extractor.
type ExtractionConfig struct {
	// MarkitdownFallback pipes otherwise unsupported office formats through
	// the markitdown container image.
	MarkitdownFallback bool `json:"markitdown_fallback" yaml:"markitdown_fallback" mapstructure:"markitdown_fallback"`
}

// ServerConfig holds settings for the web interface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// MaxUploadBytes caps one multipart upload request (default 64 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// UIConfig holds user-facing text.
type UIConfig struct {
	// ErrorMessage is shown whenever a processing run fails.
	ErrorMessage string `json:"error_message" yaml:"error_message" mapstructure:"error_message"`
}

// HistoryConfig holds settings for the run history database.
type HistoryConfig struct {
	// Enabled turns on recording of successful runs.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Dir is the directory containing history.db.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// Config groups all settings for docdigest.
type Config struct {
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	UI         UIConfig         `json:"ui" yaml:"ui" mapstructure:"ui"`
	History    HistoryConfig    `json:"history" yaml:"history" mapstructure:"history"`
}

// DefaultErrorMessage is the user-facing text for a failed run.
const DefaultErrorMessage = "Something went wrong while processing your files. Please try again."

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		Generation: GenerationConfig{
			Provider:  ProviderGemini,
			Model:     "gemini-2.5-flash",
			MaxTokens: 8192,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxUploadBytes:  64 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		UI: UIConfig{
			ErrorMessage: DefaultErrorMessage,
		},
		History: HistoryConfig{
			Enabled: true,
			Dir:     "history",
		},
	}
}
