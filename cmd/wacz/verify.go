package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vbanos/wacz"
	waczzip "github.com/vbanos/wacz/zip"
)

// Run executes the verify command: every resource listed in the manifest
// is re-hashed and the digest record is checked against the manifest
// bytes.
func (c *VerifyCmd) Run(deps *Dependencies) error {
	r, err := waczzip.OpenReader(c.Input)
	if err != nil {
		return err
	}
	defer r.Close()

	manifest, err := readEntry(r, wacz.DatapackageFilename)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wacz.ErrorMessage(err))
		return err
	}

	var pkg wacz.Datapackage
	if err := json.Unmarshal(manifest, &pkg); err != nil {
		return wacz.Errorf(wacz.EINVALID, "invalid manifest in %s: %v", c.Input, err)
	}

	failed := 0
	for _, res := range pkg.Resources {
		if err := verifyResource(r, res); err != nil {
			fmt.Fprintf(deps.Stderr, "FAIL %s: %s\n", res.Path, wacz.ErrorMessage(err))
			failed++
			continue
		}
		fmt.Fprintf(deps.Stdout, "OK   %s\n", res.Path)
	}

	if err := verifyDigest(r, manifest); err != nil {
		fmt.Fprintf(deps.Stderr, "FAIL %s: %s\n", wacz.DigestFilename, wacz.ErrorMessage(err))
		failed++
	} else {
		fmt.Fprintf(deps.Stdout, "OK   %s\n", wacz.DigestFilename)
	}

	if failed > 0 {
		return wacz.Errorf(wacz.EINVALID, "%d of %d entries failed verification", failed, len(pkg.Resources)+1)
	}
	fmt.Fprintf(deps.Stdout, "Package %s verified\n", c.Input)
	return nil
}

func readEntry(r *waczzip.Reader, path string) ([]byte, error) {
	rc, err := r.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func verifyResource(r *waczzip.Reader, res wacz.Resource) error {
	alg, _, ok := strings.Cut(res.Hash, ":")
	if !ok {
		return wacz.Errorf(wacz.EINVALID, "hash %q is not algorithm-prefixed", res.Hash)
	}

	rc, err := r.Open(res.Path)
	if err != nil {
		return err
	}
	defer rc.Close()

	n, digest, err := wacz.HashStream(alg, rc)
	if err != nil {
		return err
	}
	if digest != res.Hash {
		return wacz.Errorf(wacz.EINVALID, "hash mismatch: computed %s", digest)
	}
	if n != res.Bytes {
		return wacz.Errorf(wacz.EINVALID, "size mismatch: computed %d, manifest says %d", n, res.Bytes)
	}
	return nil
}

func verifyDigest(r *waczzip.Reader, manifest []byte) error {
	data, err := readEntry(r, wacz.DigestFilename)
	if err != nil {
		return err
	}

	var digest wacz.Digest
	if err := json.Unmarshal(data, &digest); err != nil {
		return wacz.Errorf(wacz.EINVALID, "invalid digest record: %v", err)
	}

	sum := sha256.Sum256(manifest)
	want := "sha256:" + hex.EncodeToString(sum[:])
	if digest.Hash != want {
		return wacz.Errorf(wacz.EINVALID, "manifest hash mismatch: computed %s", want)
	}
	return nil
}
