package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbanos/wacz"
	"github.com/vbanos/wacz/index"
	"github.com/vbanos/wacz/mock"
)

func htmlRecord(url, date string) *mock.Record {
	return &mock.Record{
		RecordType: wacz.RecordResponse,
		Headers: map[string]string{
			"WARC-Target-URI": url,
			"WARC-Date":       date,
		},
		HTTPHeaders: map[string]string{"Content-Type": "text/html; charset=utf-8"},
		StatusCode:  200,
		BodyBytes:   []byte("<html><body><p>content</p></body></html>"),
	}
}

func warcinfoRecord(jsonMetadata string) *mock.Record {
	body := "software: test-crawler\njson-metadata: " + jsonMetadata + "\n"
	return &mock.Record{
		RecordType: wacz.RecordWarcinfo,
		Headers:    map[string]string{"Content-Type": "application/warc-fields"},
		BodyBytes:  []byte(body),
	}
}

func TestIndexer_RecordingMetadata(t *testing.T) {
	t.Parallel()

	ix := index.New(index.Config{})

	ix.Process(warcinfoRecord(`{"type": "recording", "pages": [{"timestamp": "20200101000000", "url": "http://a"}, {"timestamp": "20200101000001", "url": "http://b"}]}`))

	require.NoError(t, ix.Finish())

	pages := ix.Pages()
	require.Len(t, pages, 2)
	require.Contains(t, pages, "20200101000000/http://a")
	require.Contains(t, pages, "20200101000001/http://b")
	assert.Equal(t, "http://a", pages["20200101000000/http://a"].Title)
	assert.Equal(t, "http://b", pages["20200101000001/http://b"].Title)
}

func TestIndexer_RecordingMetadataIgnoredWithExpectedPages(t *testing.T) {
	t.Parallel()

	ix := index.New(index.Config{
		ExpectedPages: wacz.ExpectedPages{"20200101000000/http://a": {}},
	})

	ix.Process(warcinfoRecord(`{"type": "recording", "pages": [{"timestamp": "20200101000001", "url": "http://b"}]}`))

	require.NoError(t, ix.Finish())
	assert.Empty(t, ix.Pages())
}

func TestIndexer_CollectionMetadata(t *testing.T) {
	t.Parallel()

	t.Run("populates title, description and page lists", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{})

		ix.Process(warcinfoRecord(`{"type": "collection", "title": "My Crawl", "desc": "a test crawl", "lists": [{"slug": "favorites", "title": "Favorites", "bookmarks": [{"timestamp": "20200101000000", "url": "http://a", "title": "A"}]}]}`))

		require.NoError(t, ix.Finish())
		assert.Equal(t, "My Crawl", ix.Title())
		assert.Equal(t, "a test crawl", ix.Description())

		lists := ix.PageLists()
		require.Len(t, lists, 1)
		assert.Equal(t, "favorites", lists[0].ID)
		assert.Equal(t, "Favorites", lists[0].Title)
		require.Len(t, lists[0].Pages, 1)
		assert.Equal(t, "http://a", lists[0].Pages[0].URL)
	})

	t.Run("lists without a slug get a generated id", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{})

		ix.Process(warcinfoRecord(`{"type": "collection", "lists": [{"bookmarks": []}]}`))

		lists := ix.PageLists()
		require.Len(t, lists, 1)
		assert.NotEmpty(t, lists[0].ID)
	})

	t.Run("metadata without a type is ignored", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{})

		ix.Process(warcinfoRecord(`{"title": "No Type"}`))

		assert.Empty(t, ix.Title())
	})

	t.Run("malformed metadata is ignored", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{})

		ix.Process(warcinfoRecord(`{not json`))

		assert.Empty(t, ix.Title())
		require.NoError(t, ix.Finish())
	})
}

func TestIndexer_ExpectedPages(t *testing.T) {
	t.Parallel()

	t.Run("scheme-insensitive match builds the page from the expectation", func(t *testing.T) {
		t.Parallel()

		expected := wacz.ExpectedPages{
			"20200101000000/https://x/a": {Title: "Page A", Text: "provided text"},
		}
		ix := index.New(index.Config{ExpectedPages: expected})

		ix.Process(htmlRecord("http://x/a", "2020-01-01T00:00:00Z"))

		require.NoError(t, ix.Finish())
		assert.Empty(t, expected, "a successful match consumes the entry")

		pages := ix.Pages()
		require.Len(t, pages, 1)
		page := pages["20200101000000/https://x/a"]
		require.NotNil(t, page)
		assert.Equal(t, "Page A", page.Title)
		assert.Equal(t, "provided text", page.Text)
		assert.Equal(t, "http://x/a", page.URL)
	})

	t.Run("processing the same record twice matches once", func(t *testing.T) {
		t.Parallel()

		expected := wacz.ExpectedPages{
			"20200101000000/http://x/a": {Title: "Page A"},
		}
		ix := index.New(index.Config{ExpectedPages: expected})

		ix.Process(htmlRecord("http://x/a", "2020-01-01T00:00:00Z"))
		ix.Process(htmlRecord("http://x/a", "2020-01-01T00:00:00Z"))

		require.NoError(t, ix.Finish())
		assert.Len(t, ix.Pages(), 1)
	})

	t.Run("seed splitting routes non-seed pages to extra pages", func(t *testing.T) {
		t.Parallel()

		expected := wacz.ExpectedPages{
			"20200101000000/http://x/a": {Title: "Seed", Seed: true},
			"20200101000001/http://x/b": {Title: "Extra"},
		}
		ix := index.New(index.Config{ExpectedPages: expected, SplitSeeds: true})

		ix.Process(htmlRecord("http://x/a", "2020-01-01T00:00:00Z"))
		ix.Process(htmlRecord("http://x/b", "2020-01-01T00:00:01Z"))

		require.NoError(t, ix.Finish())

		pages, extra := ix.Pages(), ix.ExtraPages()
		require.Len(t, pages, 1)
		require.Len(t, extra, 1)
		assert.Contains(t, pages, "20200101000000/http://x/a")
		assert.Contains(t, extra, "20200101000001/http://x/b")
		for key := range pages {
			assert.NotContains(t, extra, key, "page maps must stay disjoint")
		}
	})

	t.Run("unmatched expectations are left as residue", func(t *testing.T) {
		t.Parallel()

		expected := wacz.ExpectedPages{
			"20200101000000/http://x/a": {},
			"20300101000000/http://x/never": {},
		}
		ix := index.New(index.Config{ExpectedPages: expected})

		ix.Process(htmlRecord("http://x/a", "2020-01-01T00:00:00Z"))

		require.NoError(t, ix.Finish())
		assert.Len(t, expected, 1)
		assert.Contains(t, expected, "20300101000000/http://x/never")
	})
}

func TestIndexer_MainPage(t *testing.T) {
	t.Parallel()

	t.Run("exact timestamp match synthesizes a seed page", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{MainURL: "http://a/", MainTS: "20200101000000"})

		ix.Process(htmlRecord("http://a/", "2020-01-01T00:00:00Z"))

		require.NoError(t, ix.Finish())

		page := ix.Pages()["20200101000000/http://a/"]
		require.NotNil(t, page)
		assert.True(t, page.Seed)
		assert.Equal(t, "http://a/", page.Title)
	})

	t.Run("missing timestamp fails validation", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{MainURL: "http://a/", MainTS: "20200101000000"})

		ix.Process(htmlRecord("http://a/", "2021-06-01T00:00:00Z"))

		err := ix.Finish()
		require.Error(t, err)
		assert.Equal(t, wacz.ENOTFOUND, wacz.ErrorCode(err))
		assert.Contains(t, wacz.ErrorMessage(err), "http://a/")
	})

	t.Run("empty scan with required main page fails", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{MainURL: "http://a/", MainTS: "20200101000000"})

		err := ix.Finish()
		require.Error(t, err)
		assert.Equal(t, wacz.ENOTFOUND, wacz.ErrorCode(err))
		assert.Contains(t, wacz.ErrorMessage(err), "20200101000000")
	})

	t.Run("url-only match follows first-match-wins", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{MainURL: "http://a/"})

		ix.Process(htmlRecord("http://a/", "2020-01-01T00:00:00Z"))
		ix.Process(htmlRecord("http://a/", "2021-06-01T00:00:00Z"))

		require.NoError(t, ix.Finish())

		pages := ix.Pages()
		var seeds int
		for _, page := range pages {
			if page.Seed {
				seeds++
				assert.Equal(t, "20200101000000", page.Timestamp)
			}
		}
		assert.Equal(t, 1, seeds)
	})

	t.Run("url-only match never seen fails validation", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{MainURL: "http://a/"})

		ix.Process(htmlRecord("http://b/", "2020-01-01T00:00:00Z"))

		err := ix.Finish()
		require.Error(t, err)
		assert.Contains(t, wacz.ErrorMessage(err), "http://a/")
	})

	t.Run("main url without a path is normalized", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{MainURL: "http://a"})

		assert.Equal(t, "http://a/", ix.MainURL())

		ix.Process(htmlRecord("http://a/", "2020-01-01T00:00:00Z"))
		require.NoError(t, ix.Finish())
	})

	t.Run("no seed page is synthesized when expectations were supplied", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{
			MainURL:       "http://a/",
			MainTS:        "20200101000000",
			ExpectedPages: wacz.ExpectedPages{"20300101000000/http://x/other": {}},
		})

		ix.Process(htmlRecord("http://a/", "2020-01-01T00:00:00Z"))

		require.NoError(t, ix.Finish())
		assert.Empty(t, ix.Pages())
	})
}

func TestIndexer_Detection(t *testing.T) {
	t.Parallel()

	t.Run("detects HTML pages when enabled", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{})
		// detection disabled: no page
		ix.Process(htmlRecord("http://x/a", "2020-01-01T00:00:00Z"))
		require.NoError(t, ix.Finish())
		assert.Empty(t, ix.Pages())

		detecting := index.New(index.Config{DetectPages: true})
		rec := htmlRecord("http://x/a", "2020-01-01T00:00:00Z")
		detecting.Process(rec)
		linked := &mock.Record{
			RecordType:  wacz.RecordRequest,
			Headers:     map[string]string{"WARC-Target-URI": "http://x/a", "WARC-Date": "2020-01-01T00:00:00Z"},
			HTTPHeaders: map[string]string{"Referer": "http://x/a"},
		}
		detecting.Process(linked)
		require.NoError(t, detecting.Finish())

		page := detecting.Pages()["20200101000000/http://x/a"]
		require.NotNil(t, page)
		assert.Equal(t, "http://x/a", page.Title)
	})

	t.Run("redirects are not pages", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{DetectPages: true})
		rec := htmlRecord("http://x/a", "2020-01-01T00:00:00Z")
		rec.StatusCode = 301
		ix.Process(rec)

		require.NoError(t, ix.Finish())
		assert.Empty(t, ix.Pages())
	})

	t.Run("non-HTML content is not a page", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{DetectPages: true})
		rec := htmlRecord("http://x/a.json", "2020-01-01T00:00:00Z")
		rec.HTTPHeaders["Content-Type"] = "application/json"
		ix.Process(rec)

		require.NoError(t, ix.Finish())
		assert.Empty(t, ix.Pages())
	})

	t.Run("falls back to the container content type", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{DetectPages: true})
		rec := &mock.Record{
			RecordType: wacz.RecordResource,
			Headers: map[string]string{
				"WARC-Target-URI": "http://x/a",
				"WARC-Date":       "2020-01-01T00:00:00Z",
				"Content-Type":    "text/html",
			},
			BodyBytes: []byte("<html></html>"),
		}
		ix.Process(rec)
		ix.Process(&mock.Record{
			RecordType:  wacz.RecordRequest,
			Headers:     map[string]string{},
			HTTPHeaders: map[string]string{"Referer": "http://x/a"},
		})

		require.NoError(t, ix.Finish())
		assert.Len(t, ix.Pages(), 1)
	})
}

func TestIndexer_ReferrerPruning(t *testing.T) {
	t.Parallel()

	linkedTo := func(url string) *mock.Record {
		return &mock.Record{
			RecordType:  wacz.RecordRequest,
			Headers:     map[string]string{},
			HTTPHeaders: map[string]string{"Referer": url},
		}
	}

	t.Run("prunes detected pages nothing links to", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{DetectPages: true})

		ix.Process(htmlRecord("http://x/a", "2020-01-01T00:00:00Z"))
		ix.Process(htmlRecord("http://x/orphan", "2020-01-01T00:00:01Z"))
		ix.Process(linkedTo("http://x/a"))

		require.NoError(t, ix.Finish())

		pages := ix.Pages()
		assert.Contains(t, pages, "20200101000000/http://x/a")
		assert.NotContains(t, pages, "20200101000001/http://x/orphan")
	})

	t.Run("pruning is skipped once recording metadata was observed", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{DetectPages: true})

		ix.Process(warcinfoRecord(`{"type": "recording", "pages": []}`))
		ix.Process(htmlRecord("http://x/orphan", "2020-01-01T00:00:00Z"))

		require.NoError(t, ix.Finish())
		assert.Contains(t, ix.Pages(), "20200101000000/http://x/orphan")
	})

	t.Run("unknown metadata types leave pruning armed", func(t *testing.T) {
		t.Parallel()

		ix := index.New(index.Config{DetectPages: true})

		ix.Process(warcinfoRecord(`{"type": "mystery"}`))
		ix.Process(htmlRecord("http://x/orphan", "2020-01-01T00:00:00Z"))

		require.NoError(t, ix.Finish())
		assert.Empty(t, ix.Pages())
	})
}

func TestIndexer_SeedSplitDetection(t *testing.T) {
	t.Parallel()

	ix := index.New(index.Config{
		MainURL:     "http://x/a",
		MainTS:      "20200101000000",
		DetectPages: true,
		SplitSeeds:  true,
	})

	linked := func(url string) *mock.Record {
		return &mock.Record{
			RecordType:  wacz.RecordRequest,
			Headers:     map[string]string{},
			HTTPHeaders: map[string]string{"Referer": url},
		}
	}

	ix.Process(htmlRecord("http://x/a", "2020-01-01T00:00:00Z"))
	ix.Process(htmlRecord("http://x/b", "2020-01-01T00:00:01Z"))
	ix.Process(linked("http://x/a"))
	ix.Process(linked("http://x/b"))

	require.NoError(t, ix.Finish())

	pages, extra := ix.Pages(), ix.ExtraPages()
	require.Len(t, pages, 1)
	assert.Contains(t, pages, "20200101000000/http://x/a")
	assert.Contains(t, extra, "20200101000001/http://x/b")
	for key := range pages {
		assert.NotContains(t, extra, key, "page maps must stay disjoint")
	}
}

func TestIndexer_TextExtraction(t *testing.T) {
	t.Parallel()

	linked := func(url string) *mock.Record {
		return &mock.Record{
			RecordType:  wacz.RecordRequest,
			Headers:     map[string]string{},
			HTTPHeaders: map[string]string{"Referer": url},
		}
	}

	t.Run("extracted title and text land on the detected page", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(html string) (*wacz.ExtractResult, error) {
				return &wacz.ExtractResult{Title: "Extracted Title", Text: "extracted body"}, nil
			},
		}
		ix := index.New(index.Config{DetectPages: true, ExtractText: true, Extractor: extractor})

		ix.Process(htmlRecord("http://x/a", "2020-01-01T00:00:00Z"))
		ix.Process(linked("http://x/a"))

		require.NoError(t, ix.Finish())
		require.True(t, ix.HasText())

		page := ix.Pages()["20200101000000/http://x/a"]
		require.NotNil(t, page)
		assert.Equal(t, "Extracted Title", page.Title)
		assert.Equal(t, "extracted body", page.Text)
	})

	t.Run("a supplied title survives extraction", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(html string) (*wacz.ExtractResult, error) {
				return &wacz.ExtractResult{Title: "Extracted Title", Text: "extracted body"}, nil
			},
		}
		ix := index.New(index.Config{
			ExpectedPages: wacz.ExpectedPages{"20200101000000/http://x/a": {Title: "Keep Me"}},
			DetectPages:   true,
			ExtractText:   true,
			Extractor:     extractor,
		})

		ix.Process(htmlRecord("http://x/a", "2020-01-01T00:00:00Z"))
		ix.Process(linked("http://x/a"))

		require.NoError(t, ix.Finish())

		page := ix.Pages()["20200101000000/http://x/a"]
		require.NotNil(t, page)
		assert.Equal(t, "Keep Me", page.Title)
		assert.Equal(t, "extracted body", page.Text)
	})

	t.Run("extraction failure keeps the page and the scan alive", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(html string) (*wacz.ExtractResult, error) {
				return nil, wacz.Errorf(wacz.EINTERNAL, "extraction blew up")
			},
		}
		ix := index.New(index.Config{DetectPages: true, ExtractText: true, Extractor: extractor})

		ix.Process(htmlRecord("http://x/a", "2020-01-01T00:00:00Z"))
		ix.Process(linked("http://x/a"))

		require.NoError(t, ix.Finish())
		assert.False(t, ix.HasText())

		page := ix.Pages()["20200101000000/http://x/a"]
		require.NotNil(t, page)
		assert.Empty(t, page.Text)
	})

	t.Run("bodies that do not decode as UTF-8 are skipped", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(html string) (*wacz.ExtractResult, error) {
				t.Fatal("extractor must not be called for undecodable bodies")
				return nil, nil
			},
		}
		ix := index.New(index.Config{DetectPages: true, ExtractText: true, Extractor: extractor})

		rec := htmlRecord("http://x/a", "2020-01-01T00:00:00Z")
		rec.BodyBytes = []byte{0xff, 0xfe, 0xfd}
		ix.Process(rec)
		ix.Process(linked("http://x/a"))

		require.NoError(t, ix.Finish())
		assert.Contains(t, ix.Pages(), "20200101000000/http://x/a")
	})

	t.Run("empty bodies are skipped", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(html string) (*wacz.ExtractResult, error) {
				t.Fatal("extractor must not be called for empty bodies")
				return nil, nil
			},
		}
		ix := index.New(index.Config{DetectPages: true, ExtractText: true, Extractor: extractor})

		rec := htmlRecord("http://x/a", "2020-01-01T00:00:00Z")
		rec.BodyBytes = nil
		ix.Process(rec)
		ix.Process(linked("http://x/a"))

		require.NoError(t, ix.Finish())
		assert.False(t, ix.HasText())
	})
}
