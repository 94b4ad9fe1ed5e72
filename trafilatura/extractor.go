package trafilatura

import (
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/vbanos/wacz"
	"golang.org/x/net/html"
)

// Ensure Extractor implements wacz.Extractor at compile time.
var _ wacz.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract title and body text from HTML.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var text string
	if result.ContentNode != nil {
		text = nodeText(result.ContentNode)
	}

	return &wacz.ExtractResult{
		Title: result.Metadata.Title,
		Text:  text,
	}, nil
}

// nodeText collects the text content of a node tree in document order,
// separating text blocks with newlines.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
