// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/doc-digest/internal/compose"
	"github.com/pdiddy/doc-digest/internal/container"
	"github.com/pdiddy/doc-digest/internal/extract"
	"github.com/pdiddy/doc-digest/internal/generate"
	"github.com/pdiddy/doc-digest/internal/history"
	"github.com/pdiddy/doc-digest/internal/workspace"
	"github.com/pdiddy/doc-digest/pkg/types"
)

// app holds the components shared by serve and process.
type app struct {
	workspace *workspace.Workspace
	history   *history.Store
}

func (a *app) Close() error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}

// newExtractor builds the extractor, adding the markitdown fallback when
// enabled and a container runtime with the image is available.
func newExtractor(ctx context.Context, cfg types.ExtractionConfig, log *zap.Logger) *extract.Extractor {
	opts := []extract.Option{extract.WithLogger(log)}
	if cfg.MarkitdownFallback {
		if mx, err := newMarkitdown(ctx); err != nil {
			log.Warn("markitdown fallback unavailable", zap.Error(err))
		} else {
			opts = append(opts, extract.WithFormat(types.FormatOffice, mx))
		}
	}
	return extract.New(opts...)
}

func newMarkitdown(ctx context.Context) (*extract.MarkitdownExtractor, error) {
	rt, err := container.DetectRuntime(ctx)
	if err != nil {
		return nil, err
	}
	return extract.NewMarkitdownExtractor(ctx, rt)
}

// newApp wires extractor, composer, backend, and optional history into a
// Workspace.
func newApp(ctx context.Context, cfg types.Config, log *zap.Logger) (*app, error) {
	composer, err := compose.FromFile(cfg.Generation.InstructionFile)
	if err != nil {
		return nil, err
	}

	backend, err := generate.New(ctx, cfg.Generation, loadedSecrets)
	if err != nil {
		return nil, err
	}

	a := &app{}
	opts := []workspace.Option{
		workspace.WithLogger(log),
		workspace.WithErrorMessage(cfg.UI.ErrorMessage),
	}
	if cfg.History.Enabled {
		a.history, err = history.Open(cfg.History.Dir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, workspace.WithRecorder(a.history))
	}

	a.workspace = workspace.New(
		newExtractor(ctx, cfg.Extraction, log),
		composer,
		generate.WithLogging(backend, log),
		opts...,
	)
	return a, nil
}

// readFiles loads paths from disk in order.
func readFiles(paths []string) ([]types.SelectedFile, error) {
	files := make([]types.SelectedFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		files = append(files, types.SelectedFile{
			Name:     filepath.Base(p),
			MIMEType: mime.TypeByExtension(filepath.Ext(p)),
			Data:     data,
		})
	}
	return files, nil
}
