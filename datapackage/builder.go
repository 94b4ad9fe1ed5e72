// Package datapackage assembles the package manifest and its signed
// digest after every archive entry has been written.
package datapackage

import (
	"encoding/json"
	"path"
	"strings"
	"time"

	"github.com/vbanos/wacz"
)

// Builder computes a hash and size per archive entry and assembles the
// package manifest. It runs once, against the finished archive.
type Builder struct {
	Archive wacz.Archive

	// HashType names the resource hash algorithm; empty means
	// wacz.DefaultHashType.
	HashType string

	// Title and Description are caller overrides; MetaTitle and
	// MetaDescription are the metadata-derived fallbacks.
	Title           string
	Description     string
	MetaTitle       string
	MetaDescription string

	// MainPageURL and MainPageTS describe the configured main page.
	// Date, when set, is a caller-supplied literal that overrides the
	// timestamp-derived mainPageDate.
	MainPageURL string
	MainPageTS  string
	Date        string
}

// Build streams every archive entry through the configured hash and
// returns the manifest. Created is captured here, once, and must be
// reused verbatim by the signing step.
func (b *Builder) Build() (*wacz.Datapackage, error) {
	hashType := b.HashType
	if hashType == "" {
		hashType = wacz.DefaultHashType
	}

	entries, err := b.Archive.Entries()
	if err != nil {
		return nil, err
	}

	resources := make([]wacz.Resource, 0, len(entries))
	for _, entry := range entries {
		rc, err := b.Archive.Open(entry.Path)
		if err != nil {
			return nil, err
		}
		n, digest, err := wacz.HashStream(hashType, rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		resources = append(resources, wacz.Resource{
			Name:  strings.ToLower(path.Base(entry.Path)),
			Path:  entry.Path,
			Hash:  digest,
			Bytes: n,
		})
	}

	pkg := &wacz.Datapackage{
		Profile:     "data-package",
		Resources:   resources,
		Created:     time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		WACZVersion: wacz.WACZVersion,
		Software:    wacz.Software,
	}

	if b.Title != "" {
		pkg.Title = b.Title
	} else {
		pkg.Title = b.MetaTitle
	}
	if b.Description != "" {
		pkg.Description = b.Description
	} else {
		pkg.Description = b.MetaDescription
	}

	if b.MainPageURL != "" {
		pkg.MainPageURL = b.MainPageURL
		if b.MainPageTS != "" {
			if iso, err := wacz.TimestampToISO(b.MainPageTS); err == nil {
				pkg.MainPageDate = iso
			}
		}
	}
	if b.Date != "" {
		pkg.MainPageDate = b.Date
	}

	return pkg, nil
}

// Encode serializes a manifest as indented JSON, the exact bytes the
// digest is computed over.
func Encode(pkg *wacz.Datapackage) ([]byte, error) {
	return json.MarshalIndent(pkg, "", "  ")
}
