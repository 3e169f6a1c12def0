// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc-digest/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func run(id string, created time.Time, files ...string) types.GenerationResult {
	return types.GenerationResult{
		RunID:    id,
		Markdown: "# " + id,
		Files:    files,
		Model:    "fake",
		Created:  created,
	}
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRecordAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, run("r1", base, "b.pdf", "a.txt")))

	got, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.RunID)
	assert.Equal(t, "# r1", got.Markdown)
	assert.Equal(t, "fake", got.Model)
	assert.Equal(t, []string{"b.pdf", "a.txt"}, got.Files)
	assert.True(t, base.Equal(got.Created))
}

func TestGetUnknown(t *testing.T) {
	s := testStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordAssignsID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, types.GenerationResult{Markdown: "x"}))

	runs, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].RunID, 36)
	assert.False(t, runs[0].Created.IsZero())
}

func TestRecordDuplicateID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, run("r1", base, "a.txt")))
	assert.Error(t, s.Record(ctx, run("r1", base, "a.txt")))

	got, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, got.Files)
}

func TestListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, run("old", base, "a.txt")))
	require.NoError(t, s.Record(ctx, run("new", base.Add(time.Hour), "b.txt")))
	require.NoError(t, s.Record(ctx, run("mid", base.Add(time.Minute))))

	runs, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "new", runs[0].RunID)
	assert.Equal(t, "mid", runs[1].RunID)
	assert.Equal(t, "old", runs[2].RunID)
	assert.Empty(t, runs[1].Files)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestReopenKeepsRuns(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, run("r1", base, "a.txt")))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "# r1", got.Markdown)
}

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, run("r1", base, "a.txt")))
	require.NoError(t, s.Record(ctx, run("r2", base.Add(time.Hour), "b.pdf")))

	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(ctx, &buf))

	var entries []ExportEntry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "r2", entries[0].ID)
	assert.Equal(t, []string{"b.pdf"}, entries[0].Files)
	assert.Equal(t, "# r1", entries[1].Markdown)
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, run("r1", base, "a.txt")))

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSON(ctx, &buf))

	var entries []ExportEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "r1", entries[0].ID)
	assert.Equal(t, "fake", entries[0].Model)
}

func TestExportEmpty(t *testing.T) {
	s := testStore(t)

	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(context.Background(), &buf))
	assert.Equal(t, "[]\n", buf.String())
}
