// Package fs provides a disk-backed staging store for package entries.
// Entries are staged under a working directory so they can be streamed
// both ways: written during the scan, then read back one at a time for
// manifest hashing and final packing.
package fs

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vbanos/wacz"
)

// Ensure Store implements wacz.Archive at compile time.
var _ wacz.Archive = (*Store)(nil)

// Store stages archive entries as plain files. Entries returns them in
// creation order, which becomes the manifest resource order. Abort
// discards the staging directory.
type Store struct {
	dir   string
	paths []string
}

// NewStore creates a Store staging under dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) fullPath(path string) (string, error) {
	full := filepath.Join(s.dir, filepath.FromSlash(path))
	if !strings.HasPrefix(full, filepath.Clean(s.dir)+string(filepath.Separator)) {
		return "", wacz.Errorf(wacz.EINVALID, "entry path %q escapes the store", path)
	}
	return full, nil
}

// Create opens a new entry for writing.
func (s *Store) Create(path string) (io.WriteCloser, error) {
	full, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(full)
	if err != nil {
		return nil, err
	}
	s.paths = append(s.paths, path)
	return f, nil
}

// Entries lists every entry written so far, with sizes, in creation
// order.
func (s *Store) Entries() ([]wacz.EntryInfo, error) {
	entries := make([]wacz.EntryInfo, 0, len(s.paths))
	for _, path := range s.paths {
		full, err := s.fullPath(path)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(full)
		if err != nil {
			return nil, err
		}
		entries = append(entries, wacz.EntryInfo{Path: path, Size: info.Size()})
	}
	return entries, nil
}

// Open reads a written entry back.
func (s *Store) Open(path string) (io.ReadCloser, error) {
	full, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Abort discards the staging directory and everything in it.
func (s *Store) Abort() error {
	return os.RemoveAll(s.dir)
}
