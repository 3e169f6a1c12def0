// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc-digest/pkg/types"
)

func file(name, body string) types.SelectedFile {
	return types.SelectedFile{Name: name, MIMEType: "text/plain", Data: []byte(body)}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name      string
		batches   [][]types.SelectedFile
		wantNames []string
		wantAdded []int
	}{
		{
			name:      "single batch keeps order",
			batches:   [][]types.SelectedFile{{file("a.txt", "1"), file("b.pdf", "2")}},
			wantNames: []string{"a.txt", "b.pdf"},
			wantAdded: []int{2},
		},
		{
			name: "duplicate in later batch is skipped",
			batches: [][]types.SelectedFile{
				{file("a.txt", "first")},
				{file("a.txt", "second"), file("c.xlsx", "3")},
			},
			wantNames: []string{"a.txt", "c.xlsx"},
			wantAdded: []int{1, 1},
		},
		{
			name:      "duplicate within one batch is skipped",
			batches:   [][]types.SelectedFile{{file("a.txt", "1"), file("a.txt", "2")}},
			wantNames: []string{"a.txt"},
			wantAdded: []int{1},
		},
		{
			name:      "names are case sensitive",
			batches:   [][]types.SelectedFile{{file("A.txt", "1"), file("a.txt", "2")}},
			wantNames: []string{"A.txt", "a.txt"},
			wantAdded: []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			for i, batch := range tt.batches {
				assert.Equal(t, tt.wantAdded[i], s.Add(batch...), "batch %d", i)
			}
			assert.Equal(t, tt.wantNames, s.Names())
		})
	}
}

func TestAdd_NoOverwrite(t *testing.T) {
	s := New()
	s.Add(file("a.txt", "original"))
	s.Add(file("a.txt", "replacement"))

	files := s.List()
	require.Len(t, files, 1)
	assert.Equal(t, "original", string(files[0].Data))
}

func TestAdd_UniqueNameBound(t *testing.T) {
	s := New()
	unique := map[string]bool{}
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("f%d.txt", i%7)
		unique[name] = true
		s.Add(file(name, "x"))
	}
	assert.Equal(t, len(unique), s.Len())
}

func TestRemoveAt(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	for i := range names {
		t.Run(fmt.Sprintf("index %d", i), func(t *testing.T) {
			s := New()
			for _, n := range names {
				s.Add(file(n, n))
			}

			require.NoError(t, s.RemoveAt(i))

			want := append(append([]string{}, names[:i]...), names[i+1:]...)
			assert.Equal(t, want, s.Names())
		})
	}
}

func TestRemoveAt_OutOfRange(t *testing.T) {
	s := New()
	s.Add(file("a", "a"))

	for _, idx := range []int{-1, 1, 5} {
		err := s.RemoveAt(idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", idx)
	}
	assert.Equal(t, 1, s.Len())
}

func TestRemoveAt_FreesName(t *testing.T) {
	s := New()
	s.Add(file("a.txt", "old"))
	require.NoError(t, s.RemoveAt(0))

	assert.Equal(t, 1, s.Add(file("a.txt", "new")))
	assert.Equal(t, "new", string(s.List()[0].Data))
}

func TestList_ReturnsCopy(t *testing.T) {
	s := New()
	s.Add(file("a", "a"), file("b", "b"))

	list := s.List()
	list[0].Name = "mutated"

	assert.Equal(t, []string{"a", "b"}, s.Names())
}

func TestClear(t *testing.T) {
	s := New()
	s.Add(file("a", "a"))
	s.Clear()

	assert.Zero(t, s.Len())
	assert.Equal(t, 1, s.Add(file("a", "a")))
}
