// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads PDF text page by page using github.com/ledongthuc/pdf.
// Text items inside a page are joined with a single space and pages are
// joined with a newline.
type PDFExtractor struct{}

// ExtractText returns the text of every page in page order.
func (PDFExtractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	// The parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf parser: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	n := r.NumPage()
	pages := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		plain, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading page %d: %w", i, err)
		}
		pages = append(pages, strings.Fields(plain))
	}

	return joinPages(pages), nil
}

// joinPages joins the items of each page with a space and the pages with a
// newline, in page order.
func joinPages(pages [][]string) string {
	lines := make([]string, len(pages))
	for i, items := range pages {
		lines[i] = strings.Join(items, " ")
	}
	return strings.Join(lines, "\n")
}
