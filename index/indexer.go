// Package index implements the single-pass scan that turns a stream of
// capture records into the page state of a package: expected-page
// matching, page detection, text extraction and main-page validation.
package index

import (
	"io"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/vbanos/wacz"
)

// htmlMimeTypes are the content types eligible for page detection and
// text extraction.
var htmlMimeTypes = map[string]bool{
	"text/html":             true,
	"application/xhtml":     true,
	"application/xhtml+xml": true,
}

// Config holds the caller-supplied scan options.
type Config struct {
	// MainURL and MainTS designate the main page. MainTS is optional;
	// when set, only a record with the exact url/timestamp pair matches.
	MainURL string
	MainTS  string

	// ExpectedPages is consumed destructively as records match.
	ExpectedPages wacz.ExpectedPages

	// DetectPages enables synthesizing page entries for HTML records not
	// covered by ExpectedPages.
	DetectPages bool

	// ExtractText enables title/body text extraction for detected pages.
	// Meaningful only combined with DetectPages.
	ExtractText bool

	// SplitSeeds routes non-seed pages into a separate extra-pages map.
	SplitSeeds bool

	// Extractor performs boilerplate-removal extraction when ExtractText
	// is set.
	Extractor wacz.Extractor

	Logger *slog.Logger
}

// Indexer accumulates page state over one scan. Records are consumed one
// at a time in source order; all mutation happens synchronously inside
// Process, so a single Indexer needs no locking.
type Indexer struct {
	cfg         Config
	hasExpected bool

	pages      wacz.PageMap
	extraPages wacz.PageMap
	pageLists  []wacz.PageList
	referrers  map[string]struct{}

	title   string
	desc    string
	hasText bool

	// referrer pruning stays armed until collection or recording
	// metadata is observed
	referrerPrune bool

	mainURLFound bool
	mainTSFound  bool
	mainPageKey  string
	mainPage     *wacz.Page

	logger *slog.Logger
}

// New returns an Indexer for one scan. An extraction request without page
// detection is warned about and degrades to no extraction output.
func New(cfg Config) *Indexer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if cfg.ExtractText && !cfg.DetectPages {
		logger.Warn("text extraction requested without page detection; only supplied pages will carry text")
	}

	cfg.MainURL = normalizeMainURL(cfg.MainURL)

	return &Indexer{
		cfg:         cfg,
		hasExpected: len(cfg.ExpectedPages) > 0,
		pages:       wacz.PageMap{},
		extraPages:  wacz.PageMap{},
		referrers:   map[string]struct{}{},
		// vacuously true when no timestamp was required
		mainTSFound:   cfg.MainTS == "",
		referrerPrune: true,
		logger:        logger,
	}
}

// normalizeMainURL ensures the main URL carries at least a "/" path.
func normalizeMainURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path != "" {
		return raw
	}
	u.Path = "/"
	return u.String()
}

// Process handles one record. Per-record failures are isolated: they are
// logged and never abort the scan.
func (ix *Indexer) Process(rec wacz.Record) {
	if ref := rec.HTTPHeader("Referer"); ref != "" {
		ix.referrers[ref] = struct{}{}
	}

	switch rec.Type() {
	case wacz.RecordWarcinfo:
		ix.parseWarcinfo(rec)
	case wacz.RecordResponse, wacz.RecordResource, wacz.RecordRevisit:
		ix.processContent(rec)
	}
}

func (ix *Indexer) processContent(rec wacz.Record) {
	pageURL := rec.Header("WARC-Target-URI")
	ts, err := wacz.ISOToTimestamp(rec.Header("WARC-Date"))
	if err != nil || pageURL == "" {
		ix.logger.Warn("skipping record with unusable identity",
			"url", pageURL, "date", rec.Header("WARC-Date"))
		return
	}
	key := ts + "/" + pageURL

	// the page this record resolved to, wherever it lives
	var page *wacz.Page

	if expected, matchedKey, ok := ix.cfg.ExpectedPages.Claim(pageURL, ts); ok {
		page = &wacz.Page{URL: pageURL, Timestamp: ts, Title: pageURL}
		if expected.Title != "" {
			page.Title = expected.Title
		}
		if expected.Text != "" {
			page.Text = expected.Text
		}
		if ix.cfg.SplitSeeds && !expected.Seed {
			ix.extraPages[matchedKey] = page
		} else {
			ix.pages[matchedKey] = page
		}
	}

	ix.resolveMainPage(pageURL, ts, key)

	if !isHTML(mimeType(rec)) {
		return
	}
	if code := rec.HTTPStatusCode(); code >= 300 && code < 400 {
		return
	}

	if page == nil {
		page = ix.pages[key]
	}
	if page == nil {
		page = ix.extraPages[key]
	}
	if page == nil {
		if !ix.cfg.DetectPages {
			return
		}
		page = &wacz.Page{URL: pageURL, Timestamp: ts, Title: pageURL}
		ix.pages[key] = page
	}

	if !ix.cfg.ExtractText || ix.cfg.Extractor == nil {
		return
	}
	ix.extractText(rec, page)
}

// resolveMainPage advances the main-page latch. Both flags are
// write-once-true; an exact timestamp match sets both, a url-only match
// follows first-match-wins so later captures of the same url at other
// timestamps never add further seed entries.
func (ix *Indexer) resolveMainPage(pageURL, ts, key string) {
	if ix.cfg.MainURL == "" || ix.cfg.MainURL != pageURL {
		return
	}

	if ix.cfg.MainTS != "" {
		if ix.cfg.MainTS != ts {
			return
		}
		ix.mainURLFound = true
		ix.mainTSFound = true
		ix.logger.Info("found main page", "url", pageURL, "ts", ts)
		if !ix.hasExpected {
			ix.mainPage = &wacz.Page{URL: pageURL, Timestamp: ts, Title: pageURL, Seed: true}
			ix.mainPageKey = key
			ix.pages[key] = ix.mainPage
		}
		return
	}

	if ix.mainURLFound {
		return
	}
	ix.mainURLFound = true
	ix.logger.Info("found main page", "url", pageURL, "ts", ts)
	if !ix.hasExpected {
		if _, ok := ix.pages[key]; !ok {
			ix.mainPage = &wacz.Page{URL: pageURL, Timestamp: ts, Title: pageURL, Seed: true}
			ix.mainPageKey = key
			ix.pages[key] = ix.mainPage
		}
	}
}

// extractText reads the record body and merges extracted title/text into
// the page. Failures are logged and skipped for this record only.
func (ix *Indexer) extractText(rec wacz.Record, page *wacz.Page) {
	body, err := io.ReadAll(rec.Body())
	if err != nil {
		ix.logger.Warn("text extraction failed", "url", page.URL, "error", err)
		return
	}
	if len(body) == 0 || !utf8.Valid(body) {
		return
	}

	result, err := ix.cfg.Extractor.Extract(string(body))
	if err != nil {
		ix.logger.Warn("text extraction failed", "url", page.URL, "error", err)
		return
	}

	if result.Text != "" {
		page.Text = result.Text
		ix.hasText = true
	}
	// only set the title if it is still the unset default (the bare url),
	// preserving any caller- or metadata-supplied title
	if result.Title != "" && page.Title == page.URL {
		page.Title = result.Title
	}
}

// Finish runs orphan pruning and post-scan validation. It must be called
// exactly once, after the final record.
func (ix *Indexer) Finish() error {
	if ix.cfg.DetectPages {
		if ix.referrerPrune {
			for key, page := range ix.pages {
				if _, ok := ix.referrers[page.URL]; !ok {
					delete(ix.pages, key)
				}
			}
		}

		if !ix.hasExpected {
			ix.logger.Info("pages detected", "count", len(ix.pages))

			if ix.cfg.SplitSeeds && ix.mainPage != nil {
				extra := ix.pages
				delete(extra, ix.mainPageKey)
				ix.extraPages = extra
				ix.pages = wacz.PageMap{ix.mainPageKey: ix.mainPage}
			}
		}
	}

	if ix.cfg.MainURL != "" {
		if !ix.mainURLFound && !ix.mainTSFound {
			return wacz.Errorf(wacz.ENOTFOUND,
				"main page timestamp %s with url %s not found in archive", ix.cfg.MainTS, ix.cfg.MainURL)
		}
		if !ix.mainURLFound {
			return wacz.Errorf(wacz.ENOTFOUND,
				"main page url %s not found in archive", ix.cfg.MainURL)
		}
	}
	return nil
}

// Pages returns the primary page map.
func (ix *Indexer) Pages() wacz.PageMap { return ix.pages }

// ExtraPages returns the non-seed page map populated when seed splitting
// is enabled.
func (ix *Indexer) ExtraPages() wacz.PageMap { return ix.extraPages }

// PageLists returns the named page lists carried in collection metadata.
func (ix *Indexer) PageLists() []wacz.PageList { return ix.pageLists }

// Title returns the metadata-derived collection title.
func (ix *Indexer) Title() string { return ix.title }

// Description returns the metadata-derived collection description.
func (ix *Indexer) Description() string { return ix.desc }

// HasText reports whether any page carries extracted text.
func (ix *Indexer) HasText() bool { return ix.hasText }

// MainURL returns the main page URL after normalization.
func (ix *Indexer) MainURL() string { return ix.cfg.MainURL }

func mimeType(rec wacz.Record) string {
	ct := rec.HTTPHeader("Content-Type")
	if ct == "" {
		ct = rec.Header("Content-Type")
	}
	mime, _, _ := strings.Cut(ct, ";")
	return strings.TrimSpace(mime)
}

func isHTML(mime string) bool {
	return htmlMimeTypes[mime]
}
