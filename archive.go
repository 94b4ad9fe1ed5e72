package wacz

import "io"

// EntryInfo describes a written archive entry.
type EntryInfo struct {
	Path string
	Size int64
}

// Archive is the package container under construction. Create opens a new
// entry for writing; the returned writer must be closed before the next
// Create. Entries lists everything written so far with sizes, and Open
// reads a written entry back, which is how the manifest builder streams
// entry bytes through a hash without holding more than one entry at a
// time.
type Archive interface {
	Create(path string) (io.WriteCloser, error)
	Entries() ([]EntryInfo, error)
	Open(path string) (io.ReadCloser, error)
}
