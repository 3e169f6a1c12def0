// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns uploaded documents into plain text for the prompt.
// Plain text and markdown pass through unchanged, PDFs are read page by
// page, and workbooks are rendered sheet by sheet as CSV. Files that cannot
// be read never fail a batch: they yield a diagnostic result instead.
package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/doc-digest/pkg/types"
)

// FormatExtractor turns the payload of one document into text.
type FormatExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Extractor dispatches files to the extractor for their format.
type Extractor struct {
	logger     *zap.Logger
	extractors map[types.DocumentFormat]FormatExtractor
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for warnings and parse failures.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithFormat installs fe for format, replacing the default. Passing nil
// removes the format, so its files are reported as unsupported.
func WithFormat(format types.DocumentFormat, fe FormatExtractor) Option {
	return func(e *Extractor) {
		if fe == nil {
			delete(e.extractors, format)
			return
		}
		e.extractors[format] = fe
	}
}

// New returns an Extractor handling text, PDF, and spreadsheet files.
// Office formats are unsupported unless an extractor is installed for
// types.FormatOffice.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger: zap.NewNop(),
		extractors: map[types.DocumentFormat]FormatExtractor{
			types.FormatText:        TextExtractor{},
			types.FormatPDF:         PDFExtractor{},
			types.FormatSpreadsheet: SpreadsheetExtractor{},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the text of a single file. Unsupported formats and parse
// failures are reported through the result's Diagnostic, never as an error.
func (e *Extractor) Extract(ctx context.Context, f types.SelectedFile) types.ExtractionResult {
	format := Detect(f.Name, f.MIMEType)
	res := types.ExtractionResult{FileName: f.Name, Format: format}

	fe, ok := e.extractors[format]
	if !ok {
		e.logger.Warn("unsupported file type",
			zap.String("file", f.Name),
			zap.String("mime", f.MIMEType))
		res.Diagnostic = types.DiagnosticUnsupported
		return res
	}

	text, err := safeExtract(ctx, fe, f.Data)
	if err != nil {
		e.logger.Error("extraction failed",
			zap.String("file", f.Name),
			zap.String("format", string(format)),
			zap.Error(err))
		res.Diagnostic = types.DiagnosticParseFailed
		res.Detail = err.Error()
		return res
	}

	e.logger.Debug("extracted",
		zap.String("file", f.Name),
		zap.String("format", string(format)),
		zap.Int("chars", len(text)))
	res.Text = text
	return res
}

// safeExtract converts a panic inside a format library into an error.
func safeExtract(ctx context.Context, fe FormatExtractor, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return fe.ExtractText(ctx, data)
}

// ExtractAll extracts every file concurrently and returns the results in
// input order, one per file. It fails as a whole only if ctx is cancelled.
func (e *Extractor) ExtractAll(ctx context.Context, files []types.SelectedFile) ([]types.ExtractionResult, error) {
	results := make([]types.ExtractionResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Extract(gctx, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extracting %d file(s): %w", len(files), err)
	}
	return results, nil
}

// Summary holds counts from one extraction batch.
type Summary struct {
	Extracted   int
	Unsupported int
	Failed      int
}

// Total returns the number of files processed.
func (s Summary) Total() int {
	return s.Extracted + s.Unsupported + s.Failed
}

// HasFailures reports whether any file failed to parse.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Summarize counts results by diagnostic.
func Summarize(results []types.ExtractionResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Diagnostic {
		case types.DiagnosticNone:
			s.Extracted++
		case types.DiagnosticUnsupported:
			s.Unsupported++
		default:
			s.Failed++
		}
	}
	return s
}
