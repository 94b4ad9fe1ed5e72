package mock

import (
	"context"
	"encoding/json"

	"github.com/vbanos/wacz"
)

var _ wacz.Signer = (*Signer)(nil)

// Signer is a mock implementation of wacz.Signer.
type Signer struct {
	SignFn func(ctx context.Context, req wacz.SignRequest) (json.RawMessage, error)
}

func (s *Signer) Sign(ctx context.Context, req wacz.SignRequest) (json.RawMessage, error) {
	return s.SignFn(ctx, req)
}
