package mock

import (
	"io"

	"github.com/vbanos/wacz"
)

var _ wacz.Archive = (*Archive)(nil)

// Archive is a mock implementation of wacz.Archive.
type Archive struct {
	CreateFn  func(path string) (io.WriteCloser, error)
	EntriesFn func() ([]wacz.EntryInfo, error)
	OpenFn    func(path string) (io.ReadCloser, error)
}

func (a *Archive) Create(path string) (io.WriteCloser, error) {
	return a.CreateFn(path)
}

func (a *Archive) Entries() ([]wacz.EntryInfo, error) {
	return a.EntriesFn()
}

func (a *Archive) Open(path string) (io.ReadCloser, error) {
	return a.OpenFn(path)
}
