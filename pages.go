package wacz

import (
	"encoding/json"
	"iter"

	"github.com/google/uuid"
)

// PageListFormat identifies the page index serialization format.
const PageListFormat = "json-pages-1.0"

// PageList is a named list of pages carried in collection metadata.
type PageList struct {
	ID          string
	Title       string
	Description string
	Pages       []*Page
}

type pageListHeader struct {
	Format      string `json:"format"`
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	HasText     bool   `json:"hasText,omitempty"`
}

type pageListLine struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	TS    string `json:"ts"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
}

// SerializePages renders a page sequence as newline-delimited JSON: a
// header line followed by one line per page. Pages lacking an id are
// assigned a fresh random one. Each yielded line is written verbatim,
// one line per write, into the output archive.
func SerializePages(pages []*Page, id, title, description string, hasText bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		header, _ := json.Marshal(pageListHeader{
			Format:      PageListFormat,
			ID:          id,
			Title:       title,
			Description: description,
			HasText:     hasText,
		})
		if !yield(string(header)) {
			return
		}

		for _, page := range pages {
			uid := page.ID
			if uid == "" {
				uid = uuid.NewString()
			}

			ts, err := TimestampToISO(page.Timestamp)
			if err != nil {
				// a malformed timestamp is carried through as-is
				ts = page.Timestamp
			}

			line, _ := json.Marshal(pageListLine{
				ID:    uid,
				URL:   page.URL,
				TS:    ts,
				Title: page.Title,
				Text:  page.Text,
			})
			if !yield(string(line)) {
				return
			}
		}
	}
}
