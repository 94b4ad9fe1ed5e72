package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/vbanos/wacz"
)

// Ensure Extractor implements wacz.Extractor at compile time.
var _ wacz.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract title and body text from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the page title and main body
// text with boilerplate removed.
func (e *Extractor) Extract(rawHTML string) (*wacz.ExtractResult, error) {
	if rawHTML == "" {
		return nil, wacz.Errorf(wacz.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &wacz.ExtractResult{
		Title: article.Title,
		Text:  strings.TrimSpace(article.TextContent),
	}, nil
}
