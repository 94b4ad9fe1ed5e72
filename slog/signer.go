package slog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/vbanos/wacz"
)

// Ensure LoggingSigner implements wacz.Signer.
var _ wacz.Signer = (*LoggingSigner)(nil)

// LoggingSigner wraps a Signer with logging of the signing exchange.
type LoggingSigner struct {
	next   wacz.Signer
	logger *slog.Logger
}

// NewLoggingSigner creates a new LoggingSigner.
func NewLoggingSigner(next wacz.Signer, logger *slog.Logger) *LoggingSigner {
	return &LoggingSigner{next: next, logger: logger}
}

// Sign delegates to the wrapped signer and logs the outcome.
func (s *LoggingSigner) Sign(ctx context.Context, req wacz.SignRequest) (json.RawMessage, error) {
	begin := time.Now()
	signed, err := s.next.Sign(ctx, req)
	if err != nil {
		s.logger.Warn("signing request failed",
			"hash", req.Hash,
			"duration", time.Since(begin),
			"error", err,
		)
		return nil, err
	}
	s.logger.Info("manifest signed",
		"hash", req.Hash,
		"duration", time.Since(begin),
	)
	return signed, nil
}
