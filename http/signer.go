// Package http provides the HTTP client used to call an external
// manifest signing endpoint.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/vbanos/wacz"
)

// DefaultSignTimeout bounds the one signing request.
const DefaultSignTimeout = 30 * time.Second

// Ensure Signer implements wacz.Signer at compile time.
var _ wacz.Signer = (*Signer)(nil)

// Signer exchanges a manifest digest with a signing service over HTTP.
// Sign makes exactly one attempt, no retries; a package whose signing
// failed can be re-signed out of band.
type Signer struct {
	client  *http.Client
	url     string
	token   string
	timeout time.Duration
}

// Option configures a Signer.
type Option func(*Signer)

// WithToken sets the bearer token sent in the Authorization header.
func WithToken(token string) Option {
	return func(s *Signer) {
		s.token = token
	}
}

// WithTimeout sets the timeout for the signing request.
// Defaults to DefaultSignTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *Signer) {
		s.timeout = d
	}
}

// NewSigner creates a Signer for the given signing endpoint.
func NewSigner(url string, opts ...Option) *Signer {
	s := &Signer{
		url:     url,
		timeout: DefaultSignTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = &http.Client{
		Timeout: s.timeout,
	}

	return s
}

// Sign posts {hash, created} to the signing endpoint and returns the
// response payload once it is verified to echo both values. Any extra
// fields in the payload are preserved verbatim.
func (s *Signer) Sign(ctx context.Context, req wacz.SignRequest) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		httpReq.Header.Set("Authorization", "bearer "+s.token)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, wacz.Errorf(wacz.EUNAVAILABLE, "signing request failed: %v", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wacz.Errorf(wacz.EUNAVAILABLE, "reading signing response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, wacz.Errorf(wacz.EUNAVAILABLE, "signing failed: HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
	}

	var echo wacz.SignRequest
	if err := json.Unmarshal(payload, &echo); err != nil {
		return nil, wacz.Errorf(wacz.EINVALID, "invalid signing response: %v", err)
	}
	if echo.Hash != req.Hash || echo.Created != req.Created {
		return nil, wacz.Errorf(wacz.EINVALID, "signing response does not echo hash and created")
	}

	return json.RawMessage(payload), nil
}
