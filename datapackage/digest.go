package datapackage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/vbanos/wacz"
)

// GenerateDigest computes the sha256 digest record over the exact bytes
// of the serialized manifest. With a signer configured it makes a single
// signing attempt carrying the manifest's created timestamp; failures are
// logged and downgrade to an unsigned digest, which is always a valid
// output.
func GenerateDigest(ctx context.Context, manifest []byte, created string, signer wacz.Signer, logger *slog.Logger) *wacz.Digest {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sum := sha256.Sum256(manifest)
	digest := &wacz.Digest{
		Path: wacz.DatapackageFilename,
		Hash: "sha256:" + hex.EncodeToString(sum[:]),
	}

	if signer == nil {
		return digest
	}

	signed, err := signer.Sign(ctx, wacz.SignRequest{Hash: digest.Hash, Created: created})
	if err != nil {
		logger.Warn("not signed, signing request failed", "error", err)
		return digest
	}

	digest.SignedData = signed
	logger.Info("added signature")
	return digest
}
