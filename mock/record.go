package mock

import (
	"bytes"
	"io"

	"github.com/vbanos/wacz"
)

var _ wacz.Record = (*Record)(nil)

// Record is a configurable wacz.Record for tests.
type Record struct {
	RecordType  string
	Headers     map[string]string
	HTTPHeaders map[string]string
	StatusCode  int
	BodyBytes   []byte
}

func (r *Record) Type() string { return r.RecordType }

func (r *Record) Header(name string) string { return r.Headers[name] }

func (r *Record) HTTPHeader(name string) string { return r.HTTPHeaders[name] }

func (r *Record) HTTPStatusCode() int { return r.StatusCode }

func (r *Record) Body() io.Reader { return bytes.NewReader(r.BodyBytes) }
