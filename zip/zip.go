// Package zip packs a staged store into the final WACZ container and
// reads entries back out of existing packages.
package zip

import (
	"archive/zip"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vbanos/wacz"
)

// Pack writes every entry of src, in order, into a zip file at outPath.
// Entries that are already gzip members (.gz) are stored uncompressed to
// keep them seekable; everything else is deflated.
func Pack(outPath string, src wacz.Archive) error {
	entries, err := src.Entries()
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, entry := range entries {
		method := zip.Deflate
		if strings.HasSuffix(entry.Path, ".gz") {
			method = zip.Store
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     entry.Path,
			Method:   method,
			Modified: time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		rc, err := src.Open(entry.Path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}

// Reader reads entries of an existing package.
type Reader struct {
	zr *zip.ReadCloser
}

// OpenReader opens a package for reading.
func OpenReader(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	return &Reader{zr: zr}, nil
}

// Entries lists the package entries with their uncompressed sizes.
func (r *Reader) Entries() ([]wacz.EntryInfo, error) {
	entries := make([]wacz.EntryInfo, 0, len(r.zr.File))
	for _, f := range r.zr.File {
		entries = append(entries, wacz.EntryInfo{Path: f.Name, Size: int64(f.UncompressedSize64)})
	}
	return entries, nil
}

// Open reads a single entry.
func (r *Reader) Open(path string) (io.ReadCloser, error) {
	for _, f := range r.zr.File {
		if f.Name == path {
			return f.Open()
		}
	}
	return nil, wacz.Errorf(wacz.ENOTFOUND, "no entry %q in package", path)
}

// Close closes the underlying package file.
func (r *Reader) Close() error {
	return r.zr.Close()
}
