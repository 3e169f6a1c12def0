// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose assembles the request sent to the generation backend:
// a fixed instruction segment and a content segment holding every file's
// text wrapped in START/END markers, in selection order.
package compose

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/doc-digest/pkg/types"
)

// Request is the two-segment payload for one generation call.
type Request struct {
	// Instruction is the fixed restructuring prompt.
	Instruction string

	// Content is the marker-wrapped concatenation of all files.
	Content string

	// Files lists the file names in the order they appear in Content.
	Files []string
}

// Merged renders both segments as one string for backends that accept a
// single prompt.
func (r Request) Merged() string {
	return r.Instruction + "\n\n" + r.Content
}

// Composer builds Requests around an instruction template.
type Composer struct {
	instruction string
}

// Option configures a Composer.
type Option func(*Composer)

// WithInstruction replaces the built-in instruction text.
func WithInstruction(text string) Option {
	return func(c *Composer) {
		if strings.TrimSpace(text) != "" {
			c.instruction = text
		}
	}
}

// New returns a Composer using the built-in instruction unless overridden.
func New(opts ...Option) *Composer {
	c := &Composer{instruction: defaultInstruction}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromFile returns a Composer whose instruction is read from path. An empty
// path selects the built-in instruction.
func FromFile(path string) (*Composer, error) {
	if path == "" {
		return New(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading instruction file %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("instruction file %s is empty", path)
	}
	return New(WithInstruction(string(data))), nil
}

// Instruction returns the instruction text in use.
func (c *Composer) Instruction() string {
	return c.instruction
}

// Compose wraps each result's content in START/END markers and joins the
// blocks with a blank line, preserving the order of results.
func (c *Composer) Compose(results []types.ExtractionResult) Request {
	blocks := make([]string, len(results))
	files := make([]string, len(results))
	for i, r := range results {
		blocks[i] = wrapFile(r.FileName, r.Content())
		files[i] = r.FileName
	}
	return Request{
		Instruction: c.instruction,
		Content:     strings.Join(blocks, "\n\n"),
		Files:       files,
	}
}

func wrapFile(name, content string) string {
	return fmt.Sprintf("START OF FILE: %s\n%s\nEND OF FILE: %s", name, content, name)
}
