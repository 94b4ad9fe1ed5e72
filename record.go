package wacz

import "io"

// Capture record types. Only warcinfo and the three content-bearing types
// matter to the scan; everything else passes through untouched.
const (
	RecordWarcinfo = "warcinfo"
	RecordRequest  = "request"
	RecordResponse = "response"
	RecordResource = "resource"
	RecordRevisit  = "revisit"
)

// Record is a single capture record as delivered by an upstream record
// source. Header returns the value of a container header such as
// WARC-Target-URI, WARC-Date or Content-Type. For records carrying an
// HTTP message, HTTPHeader and HTTPStatusCode expose the inner HTTP
// header block and Body starts after it; for all other records HTTPHeader
// returns "" and HTTPStatusCode returns 0.
type Record interface {
	Type() string
	Header(name string) string
	HTTPHeader(name string) string
	HTTPStatusCode() int
	Body() io.Reader
}

// RecordSource streams records in source order. Next returns io.EOF once
// the source is exhausted. A record's Body is only valid until the next
// call to Next.
type RecordSource interface {
	Next() (Record, error)
}
