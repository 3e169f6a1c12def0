// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doc-digest/pkg/types"
)

// extFormats maps lower-case file extensions to extractor families.
var extFormats = map[string]types.DocumentFormat{
	".txt":      types.FormatText,
	".text":     types.FormatText,
	".md":       types.FormatText,
	".markdown": types.FormatText,
	".pdf":      types.FormatPDF,
	".xlsx":     types.FormatSpreadsheet,
	".xlsm":     types.FormatSpreadsheet,
	".xls":      types.FormatSpreadsheet,
	".docx":     types.FormatOffice,
	".pptx":     types.FormatOffice,
	".odt":      types.FormatOffice,
	".epub":     types.FormatOffice,
	".html":     types.FormatOffice,
	".htm":      types.FormatOffice,
}

// mimeFormats is consulted only when the extension is missing or unknown.
var mimeFormats = map[string]types.DocumentFormat{
	"text/plain":      types.FormatText,
	"text/markdown":   types.FormatText,
	"text/x-markdown": types.FormatText,
	"application/pdf": types.FormatPDF,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": types.FormatSpreadsheet,
	"application/vnd.ms-excel":                                                  types.FormatSpreadsheet,
	"application/vnd.ms-excel.sheet.macroenabled.12":                            types.FormatSpreadsheet,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   types.FormatOffice,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": types.FormatOffice,
	"application/vnd.oasis.opendocument.text":                                   types.FormatOffice,
	"application/epub+zip":                                                      types.FormatOffice,
	"text/html":                                                                 types.FormatOffice,
}

// Detect picks the extractor family for a file: extension first, declared
// MIME type as fallback.
func Detect(name, mimeType string) types.DocumentFormat {
	ext := strings.ToLower(filepath.Ext(name))
	if f, ok := extFormats[ext]; ok {
		return f
	}

	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	if f, ok := mimeFormats[mt]; ok {
		return f
	}
	return types.FormatUnknown
}
