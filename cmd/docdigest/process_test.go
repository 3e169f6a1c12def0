// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/doc-digest/pkg/types"
)

func fakeConfig(t *testing.T) types.Config {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.Generation.Provider = types.ProviderFake
	cfg.History.Dir = filepath.Join(t.TempDir(), "history")
	return cfg
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("Hello"), 0o644))

	files, err := readFiles([]string{a})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, []byte("Hello"), files[0].Data)

	_, err = readFiles([]string{filepath.Join(dir, "missing.pdf")})
	assert.Error(t, err)
}

func TestProcessFilesWritesResult(t *testing.T) {
	ctx := context.Background()
	cfg := fakeConfig(t)
	a, err := newApp(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	out := t.TempDir()
	mdPath := filepath.Join(out, "result.md")
	htmlPath := filepath.Join(out, "result.html")
	files := []types.SelectedFile{
		{Name: "a.txt", Data: []byte("Hello")},
		{Name: "a.txt", Data: []byte("dup")},
		{Name: "notes.md", Data: []byte("# Notes")},
	}

	var buf bytes.Buffer
	require.NoError(t, processFiles(ctx, &buf, a.workspace, files, mdPath, htmlPath))

	assert.Contains(t, buf.String(), "Skipped 1 duplicate")
	assert.Contains(t, buf.String(), "Processing 2 file(s)")

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	res, ok := a.workspace.Result()
	require.True(t, ok)
	assert.Equal(t, res.Markdown, string(md))
	assert.Contains(t, string(md), "a.txt")

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>")

	runs, err := a.history.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{"a.txt", "notes.md"}, runs[0].Files)
}

func TestNewAppMissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	loadedSecrets = nil

	cfg := types.DefaultConfig()
	cfg.Generation.APIKey = ""
	_, err := newApp(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestPrintExtraction(t *testing.T) {
	var buf bytes.Buffer
	printExtraction(&buf, []types.ExtractionResult{
		{FileName: "a.txt", Format: types.FormatText, Text: "Hello"},
		{FileName: "b.bin", Format: types.FormatUnknown, Diagnostic: types.DiagnosticUnsupported},
	})
	assert.Equal(t,
		"=== a.txt (text) ===\nHello\n\n=== b.bin (unknown) ===\n[Unsupported file type: b.bin]\n",
		buf.String())
}
