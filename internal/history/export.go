// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one run as written by ExportYAML and ExportJSON.
type ExportEntry struct {
	ID       string    `json:"id" yaml:"id"`
	Created  time.Time `json:"created" yaml:"created"`
	Model    string    `json:"model" yaml:"model"`
	Files    []string  `json:"files" yaml:"files"`
	Markdown string    `json:"markdown" yaml:"markdown"`
}

// ExportYAML writes every run to w as a YAML list, newest first.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes every run to w as an indented JSON array, newest first.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	runs, err := s.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(runs))
	for i, r := range runs {
		entries[i] = ExportEntry{
			ID:       r.RunID,
			Created:  r.Created,
			Model:    r.Model,
			Files:    r.Files,
			Markdown: r.Markdown,
		}
	}
	return entries, nil
}
