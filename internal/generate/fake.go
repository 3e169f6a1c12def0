// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/doc-digest/internal/compose"
)

// FakeBackend answers without a network call. It lists the files it was
// given, which is enough to exercise the UI offline.
type FakeBackend struct{}

// NewFake returns a FakeBackend.
func NewFake() *FakeBackend { return &FakeBackend{} }

// Name returns "fake".
func (*FakeBackend) Name() string { return "fake" }

// Generate returns a canned digest listing the request's files.
func (*FakeBackend) Generate(_ context.Context, req compose.Request) (string, error) {
	var b strings.Builder
	b.WriteString("# Processed Files\n\n")
	for _, name := range req.Files {
		fmt.Fprintf(&b, "- **%s**\n", name)
	}
	fmt.Fprintf(&b, "\n## Additional Notes\n\n- %d characters of content received.\n", len(req.Content))
	return b.String(), nil
}
