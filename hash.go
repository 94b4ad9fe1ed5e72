package wacz

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"

	"github.com/cespare/xxhash/v2"
)

// DefaultHashType is the hash algorithm used for manifest resources when
// the caller does not pick one.
const DefaultHashType = "sha256"

// NewHash returns a fresh hash for a named algorithm. Besides the
// cryptographic algorithms, xxh64 is available as a fast non-cryptographic
// option for resource hashing.
func NewHash(name string) (hash.Hash, error) {
	switch name {
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	case "md5":
		return md5.New(), nil
	case "xxh64":
		return xxhash.New(), nil
	default:
		return nil, Errorf(EINVALID, "unsupported hash type %q", name)
	}
}

// HashStream streams r through the named hash algorithm and returns the
// byte count together with the algorithm-prefixed hex digest in the
// form "sha256:9f86d0...".
func HashStream(name string, r io.Reader) (int64, string, error) {
	h, err := NewHash(name)
	if err != nil {
		return 0, "", err
	}
	n, err := io.Copy(h, r)
	if err != nil {
		return 0, "", err
	}
	return n, name + ":" + hex.EncodeToString(h.Sum(nil)), nil
}
