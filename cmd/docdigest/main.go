// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docdigest CLI. The serve command
// runs the web interface; process, extract, and history expose the same
// pipeline from the shell.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/doc-digest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// logger is built in PersistentPreRunE from --verbose.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "docdigest",
	Short: "Turn a pile of documents into one organized markdown digest",
	Long: `docdigest extracts text from plain text, markdown, PDF, and spreadsheet
files, sends it with a fixed organizing instruction to a hosted language
model, and renders the model's markdown answer.

Run "docdigest serve" for the browser interface, or "docdigest process" to
digest files from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", zap.Strings("keys", secrets.Names(s)))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./docdigest.yaml or ~/.config/docdigest/docdigest.yaml)")
	pf.BoolP("verbose", "v", false, "development logging at debug level")
	pf.String("provider", "", "generation provider: gemini, claude, openai, or fake")
	pf.String("model", "", "generation model identifier")
	pf.String("instruction-file", "", "file replacing the built-in instruction")

	viper.BindPFlag("generation.provider", pf.Lookup("provider"))
	viper.BindPFlag("generation.model", pf.Lookup("model"))
	viper.BindPFlag("generation.instruction_file", pf.Lookup("instruction-file"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docdigest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docdigest"))
		}
	}

	viper.SetEnvPrefix("DOCDIGEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
