package wacz

import "encoding/json"

// Fixed constants of this implementation, embedded in every manifest.
const (
	WACZVersion = "1.1.1"
	Software    = "go-wacz 1.0.0"

	// DatapackageFilename is the archive path of the manifest; the digest
	// record always refers to it by this path.
	DatapackageFilename = "datapackage.json"

	// DigestFilename is the archive path of the digest record.
	DigestFilename = "datapackage-digest.json"
)

// Resource is one manifest entry: an archive entry with its
// algorithm-prefixed content hash and byte count.
type Resource struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Hash  string `json:"hash"`
	Bytes int64  `json:"bytes"`
}

// Datapackage is the package manifest written as datapackage.json.
type Datapackage struct {
	Profile      string     `json:"profile"`
	Resources    []Resource `json:"resources"`
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	MainPageURL  string     `json:"mainPageURL,omitempty"`
	MainPageDate string     `json:"mainPageDate,omitempty"`
	Created      string     `json:"created"`
	WACZVersion  string     `json:"wacz_version"`
	Software     string     `json:"software"`
}

// Digest is the digest record written as datapackage-digest.json.
// SignedData holds the verified signing service response when signing
// succeeded; an unsigned digest is always a valid output.
type Digest struct {
	Path       string          `json:"path"`
	Hash       string          `json:"hash"`
	SignedData json.RawMessage `json:"signedData,omitempty"`
}
