package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sort"

	"github.com/vbanos/wacz"
	"github.com/vbanos/wacz/datapackage"
	"github.com/vbanos/wacz/fs"
	waczhttp "github.com/vbanos/wacz/http"
	"github.com/vbanos/wacz/index"
	"github.com/vbanos/wacz/readability"
	waczslog "github.com/vbanos/wacz/slog"
	"github.com/vbanos/wacz/trafilatura"
	"github.com/vbanos/wacz/warc"
	waczzip "github.com/vbanos/wacz/zip"
)

// Run executes the create command.
func (c *CreateCmd) Run(deps *Dependencies) error {
	var extractor wacz.Extractor
	if c.Text {
		switch c.Extractor {
		case "readability":
			extractor = readability.NewExtractor()
		default:
			extractor = trafilatura.NewExtractor()
		}
	}

	var expected wacz.ExpectedPages
	if c.Pages != "" {
		var err error
		expected, err = loadExpectedPages(c.Pages)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", wacz.ErrorMessage(err))
			return err
		}
	}

	ix := index.New(index.Config{
		MainURL:       c.URL,
		MainTS:        c.TS,
		ExpectedPages: expected,
		DetectPages:   c.DetectPages,
		ExtractText:   c.Text,
		SplitSeeds:    c.SplitSeeds,
		Extractor:     extractor,
		Logger:        deps.Logger,
	})

	stagingDir, err := os.MkdirTemp("", "wacz-")
	if err != nil {
		return err
	}
	store := fs.NewStore(stagingDir)
	defer store.Abort()

	for _, input := range c.Inputs {
		if err := scanFile(ix, input); err != nil {
			return fmt.Errorf("scanning %s: %w", input, err)
		}
		if err := copyInput(store, input); err != nil {
			return err
		}
	}

	if err := ix.Finish(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wacz.ErrorMessage(err))
		return err
	}

	// whatever the scan did not claim is caller-visible residue
	for key := range expected {
		deps.Logger.Warn("expected page never matched", "page", key)
	}

	if err := writePageList(store, "pages/pages.jsonl",
		wacz.SerializePages(sortedPages(ix.Pages()), "pages", "All Pages", "", ix.HasText())); err != nil {
		return err
	}
	if len(ix.ExtraPages()) > 0 {
		if err := writePageList(store, "pages/extraPages.jsonl",
			wacz.SerializePages(sortedPages(ix.ExtraPages()), "extra-pages", "Extra Pages", "", false)); err != nil {
			return err
		}
	}
	for _, list := range ix.PageLists() {
		if err := writePageList(store, "pages/"+list.ID+".jsonl",
			wacz.SerializePages(list.Pages, list.ID, list.Title, list.Description, false)); err != nil {
			return err
		}
	}

	builder := &datapackage.Builder{
		Archive:         store,
		HashType:        c.HashType,
		Title:           c.Title,
		Description:     c.Desc,
		MetaTitle:       ix.Title(),
		MetaDescription: ix.Description(),
		MainPageURL:     ix.MainURL(),
		MainPageTS:      c.TS,
		Date:            c.Date,
	}
	pkg, err := builder.Build()
	if err != nil {
		return err
	}
	manifest, err := datapackage.Encode(pkg)
	if err != nil {
		return err
	}
	if err := writeEntry(store, wacz.DatapackageFilename, manifest); err != nil {
		return err
	}

	var signer wacz.Signer
	if c.SigningURL != "" {
		opts := []waczhttp.Option{}
		if c.SigningToken != "" {
			opts = append(opts, waczhttp.WithToken(c.SigningToken))
		}
		signer = waczslog.NewLoggingSigner(waczhttp.NewSigner(c.SigningURL, opts...), deps.Logger)
	}

	digest := datapackage.GenerateDigest(deps.Ctx, manifest, pkg.Created, signer, deps.Logger)
	digestData, err := json.MarshalIndent(digest, "", "  ")
	if err != nil {
		return err
	}
	if err := writeEntry(store, wacz.DigestFilename, digestData); err != nil {
		return err
	}

	if err := waczzip.Pack(c.Output, store); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s (%d pages)\n", c.Output, len(ix.Pages()))
	return nil
}

// scanFile feeds every record of one WARC file through the indexer.
func scanFile(ix *index.Indexer, path string) error {
	r, err := warc.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		ix.Process(rec)
	}
}

// copyInput stores an input WARC file under archive/.
func copyInput(store *fs.Store, path string) error {
	w, err := store.Create("archive/" + filepath.Base(path))
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		w.Close()
		return err
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func writePageList(store wacz.Archive, path string, lines iter.Seq[string]) error {
	w, err := store.Create(path)
	if err != nil {
		return err
	}
	for line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

func writeEntry(store wacz.Archive, path string, data []byte) error {
	w, err := store.Create(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// sortedPages returns the pages of a map in key order for deterministic
// output.
func sortedPages(pages wacz.PageMap) []*wacz.Page {
	keys := make([]string, 0, len(pages))
	for key := range pages {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]*wacz.Page, 0, len(keys))
	for _, key := range keys {
		out = append(out, pages[key])
	}
	return out
}

type expectedLine struct {
	URL       string `json:"url"`
	TS        string `json:"ts"`
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Seed      bool   `json:"seed"`
}

// loadExpectedPages reads a JSONL pages file into an ExpectedPages table
// keyed by timestamp + "/" + url. A leading header line is skipped.
func loadExpectedPages(path string) (wacz.ExpectedPages, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	expected := wacz.ExpectedPages{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p expectedLine
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, wacz.Errorf(wacz.EINVALID, "invalid page line in %s: %v", path, err)
		}
		if p.URL == "" {
			// header line or unusable entry
			continue
		}
		ts := p.Timestamp
		if ts == "" && p.TS != "" {
			if ts, err = wacz.ISOToTimestamp(p.TS); err != nil {
				return nil, err
			}
		}
		if ts == "" {
			return nil, wacz.Errorf(wacz.EINVALID, "page %s in %s has no timestamp", p.URL, path)
		}
		expected[ts+"/"+p.URL] = wacz.ExpectedPage{Title: p.Title, Text: p.Text, Seed: p.Seed}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return expected, nil
}
