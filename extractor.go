package wacz

// ExtractResult holds the content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// Text is the main body text with boilerplate
	// (nav, footer, sidebar, ads) removed.
	Text string
}

// Extractor extracts title and main body text from HTML pages, removing
// boilerplate.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
