// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "context"

// TextExtractor passes plain text and markdown through unchanged.
type TextExtractor struct{}

// ExtractText returns data unchanged as text.
func (TextExtractor) ExtractText(_ context.Context, data []byte) (string, error) {
	return string(data), nil
}
