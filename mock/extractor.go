package mock

import "github.com/vbanos/wacz"

var _ wacz.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of wacz.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*wacz.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*wacz.ExtractResult, error) {
	return e.ExtractFn(html)
}
