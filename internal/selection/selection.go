// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection holds the ordered set of files pending processing.
// File names are unique within a Store; order is insertion order.
package selection

import (
	"errors"
	"fmt"

	"github.com/pdiddy/doc-digest/pkg/types"
)

// ErrIndexOutOfRange is returned by RemoveAt for a position outside the list.
var ErrIndexOutOfRange = errors.New("selection: index out of range")

// Store is an ordered, name-deduplicated list of selected files. It is not
// safe for concurrent use; the owning workspace serializes access.
type Store struct {
	files []types.SelectedFile
	names map[string]struct{}
}

// New returns an empty Store.
func New() *Store {
	return &Store{names: make(map[string]struct{})}
}

// Add appends files in order, silently skipping any whose name is already
// present (including repeats within the same call). It returns how many
// files were added.
func (s *Store) Add(files ...types.SelectedFile) int {
	added := 0
	for _, f := range files {
		if _, dup := s.names[f.Name]; dup {
			continue
		}
		s.names[f.Name] = struct{}{}
		s.files = append(s.files, f)
		added++
	}
	return added
}

// RemoveAt deletes the file at index. Positions of later entries shift down
// by one.
func (s *Store) RemoveAt(index int) error {
	if index < 0 || index >= len(s.files) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.files))
	}
	delete(s.names, s.files[index].Name)
	s.files = append(s.files[:index], s.files[index+1:]...)
	return nil
}

// List returns a copy of the files in insertion order.
func (s *Store) List() []types.SelectedFile {
	out := make([]types.SelectedFile, len(s.files))
	copy(out, s.files)
	return out
}

// Names returns the file names in insertion order.
func (s *Store) Names() []string {
	out := make([]string, len(s.files))
	for i, f := range s.files {
		out[i] = f.Name
	}
	return out
}

// Len returns the number of files.
func (s *Store) Len() int {
	return len(s.files)
}

// Clear removes every file.
func (s *Store) Clear() {
	s.files = nil
	s.names = make(map[string]struct{})
}
