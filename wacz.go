// Package wacz converts streams of web-archive capture records into
// self-describing, verifiable WACZ packages: a page index, a datapackage
// manifest with content hashes, and an optionally signed manifest digest.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., trafilatura/, zip/, http/);
// the scan itself lives in index/.
package wacz
