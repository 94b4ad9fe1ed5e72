package index

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/vbanos/wacz"
)

// metadata is the structured payload of the json-metadata warcinfo field.
type metadata struct {
	Type  string         `json:"type"`
	Title string         `json:"title"`
	Desc  string         `json:"desc"`
	Pages []*wacz.Page   `json:"pages"`
	Lists []metadataList `json:"lists"`
}

type metadataList struct {
	Slug      string       `json:"slug"`
	Title     string       `json:"title"`
	Desc      string       `json:"desc"`
	Bookmarks []*wacz.Page `json:"bookmarks"`
}

// parseWarcinfo handles the one collection-info record. The record body
// is line-oriented "key: value" pairs, with the json-metadata key
// carrying a JSON blob. A missing or type-less blob means the record is
// ignored for metadata purposes.
func (ix *Indexer) parseWarcinfo(rec wacz.Record) {
	body, err := io.ReadAll(rec.Body())
	if err != nil {
		ix.logger.Warn("unreadable warcinfo record", "error", err)
		return
	}

	var meta metadata
	found := false
	for _, line := range strings.Split(strings.TrimRight(string(body), "\n"), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok || key != "json-metadata" {
			continue
		}
		if err := json.Unmarshal([]byte(value), &meta); err == nil {
			found = true
		}
	}
	if !found || meta.Type == "" {
		return
	}

	switch meta.Type {
	case "collection":
		ix.title = meta.Title
		ix.desc = meta.Desc
		for _, list := range meta.Lists {
			id := list.Slug
			if id == "" {
				id = uuid.NewString()
			}
			ix.pageLists = append(ix.pageLists, wacz.PageList{
				ID:          id,
				Title:       list.Title,
				Description: list.Desc,
				Pages:       list.Bookmarks,
			})
		}
	case "recording":
		// pre-supplied expectations always take precedence over
		// recording metadata
		if !ix.hasExpected {
			for _, page := range meta.Pages {
				if page.Title == "" {
					page.Title = page.URL
				}
				ix.pages[page.Key()] = page
			}
		}
	default:
		// unknown metadata types leave the referrer-pruning gate open
		return
	}

	ix.referrerPrune = false
}
