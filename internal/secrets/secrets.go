// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files. The
// file name is the key name and the trimmed file contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Key file names understood by docdigest.
const (
	GeminiAPIKey    = "gemini-api-key"
	AnthropicAPIKey = "anthropic-api-key"
	OpenAIAPIKey    = "openai-api-key"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty map. Unreadable or empty files are skipped; unreadable
// ones are logged to logger, which may be nil.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	found := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping unreadable secret", zap.String("name", name), zap.Error(err))
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			found[name] = value
		}
	}
	return found, nil
}

// Names returns the sorted key names present in secrets, for logging which
// keys were loaded without exposing values.
func Names(secrets map[string]string) []string {
	names := make([]string, 0, len(secrets))
	for k := range secrets {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
