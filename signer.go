package wacz

import (
	"context"
	"encoding/json"
)

// SignRequest carries the manifest digest and the manifest creation time
// to a signing service. Created must be the exact created value embedded
// in the manifest.
type SignRequest struct {
	Hash    string `json:"hash"`
	Created string `json:"created"`
}

// Signer exchanges a manifest digest with a signing service. Sign returns
// the verified response payload, which echoes hash and created and may
// carry opaque extra fields; the payload is attached verbatim to the
// digest record. Any error leaves the digest unsigned.
type Signer interface {
	Sign(ctx context.Context, req SignRequest) (json.RawMessage, error)
}
