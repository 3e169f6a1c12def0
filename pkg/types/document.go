// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// SelectedFile is a document chosen by the user for processing. Name is the
// deduplication key inside a selection.
type SelectedFile struct {
	// Name is the original file name as supplied by the user.
	Name string `json:"name" yaml:"name"`

	// MIMEType is the declared content type; it may be empty.
	MIMEType string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`

	// Data holds the raw file bytes.
	Data []byte `json:"-" yaml:"-"`
}

// Size returns the payload length in bytes.
func (f SelectedFile) Size() int {
	return len(f.Data)
}

// Diagnostic classifies why an extraction produced no genuine text.
type Diagnostic string

const (
	DiagnosticNone        Diagnostic = ""
	DiagnosticUnsupported Diagnostic = "unsupported"
	DiagnosticParseFailed Diagnostic = "parse_failed"
)

// DocumentFormat names the extractor family chosen for a file.
type DocumentFormat string

const (
	FormatText        DocumentFormat = "text"
	FormatPDF         DocumentFormat = "pdf"
	FormatSpreadsheet DocumentFormat = "spreadsheet"
	FormatOffice      DocumentFormat = "office"
	FormatUnknown     DocumentFormat = "unknown"
)

// ExtractionResult is the outcome of extracting one SelectedFile. It either
// carries genuine text or a diagnostic; it is never nil in a batch.
type ExtractionResult struct {
	FileName   string         `json:"file_name" yaml:"file_name"`
	Format     DocumentFormat `json:"format" yaml:"format"`
	Text       string         `json:"text,omitempty" yaml:"text,omitempty"`
	Diagnostic Diagnostic     `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`

	// Detail is the underlying error message for parse failures. It is
	// logged, never sent to the generation backend.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// OK reports whether the result carries genuine extracted text.
func (r ExtractionResult) OK() bool {
	return r.Diagnostic == DiagnosticNone
}

// Content returns the text contributed to the combined payload: the
// extracted text, or a bracketed placeholder for diagnostics.
func (r ExtractionResult) Content() string {
	switch r.Diagnostic {
	case DiagnosticUnsupported:
		return fmt.Sprintf("[Unsupported file type: %s]", r.FileName)
	case DiagnosticParseFailed:
		return fmt.Sprintf("[Error: could not read %s file %s]", r.Format, r.FileName)
	default:
		return r.Text
	}
}

// GenerationResult is the markdown returned by the backend for one run,
// together with its rendered HTML.
type GenerationResult struct {
	RunID    string    `json:"run_id" yaml:"run_id"`
	Markdown string    `json:"markdown" yaml:"markdown"`
	HTML     string    `json:"html" yaml:"-"`
	Files    []string  `json:"files" yaml:"files"`
	Model    string    `json:"model" yaml:"model"`
	Created  time.Time `json:"created" yaml:"created"`
}

// Artifact is a downloadable file produced client-side from a result.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

const (
	// ResultFileName is the name offered for the markdown download.
	ResultFileName = "processed_result.md"

	// ResultContentType is the MIME type of the markdown download.
	ResultContentType = "text/markdown; charset=utf-8"
)
