// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SpreadsheetExtractor renders every sheet of a workbook as CSV, each
// preceded by a "--- Sheet: <name> ---" banner, in workbook order.
type SpreadsheetExtractor struct{}

// ExtractText renders each sheet of the workbook in data as CSV.
func (SpreadsheetExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "--- Sheet: %s ---\n", sheet)
		if err := writeCSV(&b, rows); err != nil {
			return "", fmt.Errorf("rendering sheet %q: %w", sheet, err)
		}
	}
	return b.String(), nil
}

// writeCSV writes rows as comma-separated lines. Short rows are padded to
// the widest row so every line has the same column count.
func writeCSV(b *strings.Builder, rows [][]string) error {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	w := csv.NewWriter(b)
	for _, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
