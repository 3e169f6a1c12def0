// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdiddy/doc-digest/internal/container"
)

const imageMarkitdown = "markitdown:latest"

// MarkitdownExtractor converts office documents by piping them through the
// markitdown container image on a docker or podman runtime.
type MarkitdownExtractor struct {
	runtime container.Runtime
}

// NewMarkitdownExtractor verifies the markitdown image exists in rt before
// returning an extractor bound to it.
func NewMarkitdownExtractor(ctx context.Context, rt container.Runtime) (*MarkitdownExtractor, error) {
	if err := rt.ImageExists(ctx, imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownExtractor{runtime: rt}, nil
}

// ExtractText converts data to markdown in a throwaway container.
func (m *MarkitdownExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	var out bytes.Buffer
	if err := m.runtime.Run(ctx, imageMarkitdown, bytes.NewReader(data), &out); err != nil {
		return "", fmt.Errorf("converting with markitdown: %w", err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("markitdown produced empty output")
	}
	return out.String(), nil
}
