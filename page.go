package wacz

import "strings"

// Page represents one entry in the package page index.
type Page struct {
	ID        string `json:"id,omitempty"`
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"` // 14-digit compact form, e.g. "20200101000000"
	Title     string `json:"title,omitempty"`
	Text      string `json:"text,omitempty"`
	Seed      bool   `json:"seed,omitempty"`
}

// Key returns the identity of the page within a PageMap.
// It is derived once at creation and never re-derived afterwards.
func (p *Page) Key() string {
	return p.Timestamp + "/" + p.URL
}

// PageMap holds pages keyed by timestamp + "/" + url. When seed splitting
// is enabled two maps exist side by side (seed pages and extra pages) and
// a key belongs to exactly one of them.
type PageMap map[string]*Page

// ExpectedPage is a caller-supplied expectation for a page that should
// appear in the capture stream.
type ExpectedPage struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
	Seed  bool   `json:"seed,omitempty"`
}

// ExpectedPages maps timestamp + "/" + url keys to expected pages.
// Entries are consumed destructively via Claim; whatever remains after a
// scan is caller-visible residue, not an error.
type ExpectedPages map[string]ExpectedPage

// Claim resolves a capture record against the table and transfers
// ownership of the matching entry to the caller. It tries the exact key
// first, then the same key with the URL scheme swapped between http and
// https. A successful claim removes the entry, so a second record with
// the same identity can never match it again. The returned key is the key
// the entry was stored under.
func (ep ExpectedPages) Claim(url, ts string) (ExpectedPage, string, bool) {
	key := ts + "/" + url
	if page, ok := ep[key]; ok {
		delete(ep, key)
		return page, key, true
	}
	if swapped := SwapScheme(url); swapped != "" {
		key = ts + "/" + swapped
		if page, ok := ep[key]; ok {
			delete(ep, key)
			return page, key, true
		}
	}
	return ExpectedPage{}, "", false
}

// SwapScheme returns the URL with http swapped for https or vice versa.
// URLs with any other scheme return "".
func SwapScheme(url string) string {
	if rest, ok := strings.CutPrefix(url, "https://"); ok {
		return "http://" + rest
	}
	if rest, ok := strings.CutPrefix(url, "http://"); ok {
		return "https://" + rest
	}
	return ""
}
