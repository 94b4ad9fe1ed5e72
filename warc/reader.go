// Package warc reads WARC/1.0 capture records, plain or gzip-compressed,
// and exposes them through the wacz.Record contract.
package warc

import (
	"bufio"
	"compress/gzip"
	"io"
	"net/textproto"
	"os"
	"strconv"
	"strings"

	"github.com/vbanos/wacz"
)

// Ensure Reader implements wacz.RecordSource at compile time.
var _ wacz.RecordSource = (*Reader)(nil)

// Reader streams records from a WARC file in source order. A record's
// body is only valid until the next call to Next; whatever the caller did
// not consume is drained automatically.
type Reader struct {
	br      *bufio.Reader
	tp      *textproto.Reader
	pending io.Reader
	closers []io.Closer
}

// NewReader wraps an uncompressed WARC stream.
func NewReader(r io.Reader) *Reader {
	br := bufio.NewReader(r)
	return &Reader{
		br: br,
		tp: textproto.NewReader(br),
	}
}

// Open opens a WARC file for reading, transparently decompressing
// .gz inputs (per-record gzip members are handled as one multistream).
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var src io.Reader = f
	closers := []io.Closer{f}
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		src = gz
		closers = []io.Closer{gz, f}
	}

	r := NewReader(src)
	r.closers = closers
	return r, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Next returns the next record, or io.EOF once the stream is exhausted.
func (r *Reader) Next() (wacz.Record, error) {
	if r.pending != nil {
		if _, err := io.Copy(io.Discard, r.pending); err != nil {
			return nil, err
		}
		r.pending = nil
	}

	version, err := r.readVersion()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(version, "WARC/") {
		return nil, wacz.Errorf(wacz.EINVALID, "malformed record header %q", version)
	}

	headers, err := r.tp.ReadMIMEHeader()
	if err != nil {
		return nil, wacz.Errorf(wacz.EINVALID, "reading record headers: %v", err)
	}

	length, err := strconv.ParseInt(headers.Get("Content-Length"), 10, 64)
	if err != nil {
		return nil, wacz.Errorf(wacz.EINVALID, "record %s has no usable Content-Length", headers.Get("WARC-Record-ID"))
	}

	body := io.LimitReader(r.br, length)
	r.pending = body

	rec := &Record{
		recType: headers.Get("WARC-Type"),
		headers: headers,
		body:    body,
	}

	if strings.HasPrefix(headers.Get("Content-Type"), "application/http") {
		rec.parseHTTP()
	}

	return rec, nil
}

// readVersion skips the blank lines separating records and returns the
// next version line.
func (r *Reader) readVersion() (string, error) {
	for {
		line, err := r.tp.ReadLine()
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
	}
}

// Record is a single WARC record.
type Record struct {
	recType     string
	headers     textproto.MIMEHeader
	httpHeaders textproto.MIMEHeader
	statusCode  int
	body        io.Reader
}

// Ensure Record implements wacz.Record at compile time.
var _ wacz.Record = (*Record)(nil)

// parseHTTP consumes the HTTP message head from the record body, leaving
// the body positioned at the payload.
func (rec *Record) parseHTTP() {
	br := bufio.NewReader(rec.body)
	tp := textproto.NewReader(br)

	line, err := tp.ReadLine()
	if err != nil {
		return
	}
	if fields := strings.Fields(line); len(fields) >= 2 && strings.HasPrefix(fields[0], "HTTP/") {
		if code, err := strconv.Atoi(fields[1]); err == nil {
			rec.statusCode = code
		}
	}

	headers, err := tp.ReadMIMEHeader()
	if err != nil && len(headers) == 0 {
		return
	}
	rec.httpHeaders = headers

	// continuing to read from br yields the remaining payload
	rec.body = br
}

// Type returns the WARC-Type header value.
func (rec *Record) Type() string { return rec.recType }

// Header returns a WARC header value.
func (rec *Record) Header(name string) string { return rec.headers.Get(name) }

// HTTPHeader returns a header of the inner HTTP message, or "" when the
// record carries none.
func (rec *Record) HTTPHeader(name string) string {
	if rec.httpHeaders == nil {
		return ""
	}
	return rec.httpHeaders.Get(name)
}

// HTTPStatusCode returns the inner HTTP status code, or 0 when the record
// carries no HTTP response.
func (rec *Record) HTTPStatusCode() int { return rec.statusCode }

// Body returns the record payload. For records carrying an HTTP message
// the reader is positioned after the HTTP header block.
func (rec *Record) Body() io.Reader { return rec.body }
