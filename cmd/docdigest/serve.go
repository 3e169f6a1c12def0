// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/doc-digest/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the browser interface",
	Long: `Serve starts an HTTP server with the upload page, the JSON API behind it,
and a websocket that keeps every open tab in sync. It stops gracefully on
SIGINT or SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("starting docdigest",
		zap.String("version", version),
		zap.String("provider", string(cfg.Generation.Provider)),
		zap.String("model", cfg.Generation.Model),
		zap.Bool("history", cfg.History.Enabled))

	return server.New(a.workspace, cfg.Server, logger).Run(ctx)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
