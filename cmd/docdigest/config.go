// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/doc-digest/pkg/types"
)

// setDefaults registers every config key so environment variables such as
// DOCDIGEST_GENERATION_PROVIDER resolve even without a config file.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("generation.provider", string(d.Generation.Provider))
	v.SetDefault("generation.model", d.Generation.Model)
	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.base_url", "")
	v.SetDefault("generation.max_tokens", d.Generation.MaxTokens)
	v.SetDefault("generation.instruction_file", "")

	v.SetDefault("extraction.markitdown_fallback", d.Extraction.MarkitdownFallback)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("ui.error_message", d.UI.ErrorMessage)

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.dir", d.History.Dir)
}

// loadConfig decodes v into a Config starting from the defaults.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
