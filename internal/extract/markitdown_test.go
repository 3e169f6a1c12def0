// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRuntime implements container.Runtime for markitdown tests.
type fakeRuntime struct {
	imageErr error
	output   string
	runErr   error
	gotInput string
	imageCtx context.Context
}

func (f *fakeRuntime) Name() string                   { return "fake" }
func (f *fakeRuntime) Available(context.Context) bool { return true }
func (f *fakeRuntime) ImageExists(ctx context.Context, _ string) error {
	f.imageCtx = ctx
	return f.imageErr
}
func (f *fakeRuntime) Run(_ context.Context, _ string, stdin io.Reader, stdout io.Writer) error {
	data, _ := io.ReadAll(stdin)
	f.gotInput = string(data)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func TestNewMarkitdownExtractor_MissingImage(t *testing.T) {
	_, err := NewMarkitdownExtractor(context.Background(), &fakeRuntime{imageErr: errors.New("no such image")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markitdown image not available in fake")
}

func TestNewMarkitdownExtractor_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "startup")
	rt := &fakeRuntime{}

	_, err := NewMarkitdownExtractor(ctx, rt)
	require.NoError(t, err)
	require.NotNil(t, rt.imageCtx)
	assert.Equal(t, "startup", rt.imageCtx.Value(key{}))
}

func TestMarkitdownExtractor(t *testing.T) {
	tests := []struct {
		name    string
		rt      *fakeRuntime
		want    string
		wantErr string
	}{
		{name: "converts", rt: &fakeRuntime{output: "# Memo\n"}, want: "# Memo\n"},
		{name: "empty output", rt: &fakeRuntime{}, wantErr: "empty output"},
		{name: "container failure", rt: &fakeRuntime{runErr: errors.New("exit status 1")}, wantErr: "exit status 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMarkitdownExtractor(context.Background(), tt.rt)
			require.NoError(t, err)

			got, err := m.ExtractText(context.Background(), []byte("PK docx"))
			assert.Equal(t, "PK docx", tt.rt.gotInput)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
