package main

import (
	"context"
	"io"
	"log/slog"
)

// Dependencies holds configuration and output streams for command
// execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Create CreateCmd `cmd:"" help:"Create a WACZ package from WARC files"`
	Verify VerifyCmd `cmd:"" help:"Verify the manifest and digest of a WACZ package"`
}

// CreateCmd is the "create" subcommand.
type CreateCmd struct {
	Inputs []string `arg:"" name:"warc" help:"Input WARC file(s)" type:"existingfile"`
	Output string   `short:"o" default:"archive.wacz" help:"Output WACZ path"`

	URL  string `help:"Main page URL"`
	TS   string `help:"Main page timestamp (14-digit)"`
	Date string `help:"Literal main page date (ISO-8601), overrides --ts"`

	Title string `short:"t" help:"Package title"`
	Desc  string `help:"Package description"`

	Pages       string `short:"p" help:"JSONL file of expected pages" type:"existingfile"`
	DetectPages bool   `help:"Detect pages from HTML records"`
	Text        bool   `help:"Extract page text (requires --detect-pages)"`
	SplitSeeds  bool   `help:"Split seed and non-seed pages into separate lists"`

	HashType  string `default:"sha256" enum:"sha256,sha512,md5,xxh64" help:"Resource hash algorithm"`
	Extractor string `default:"trafilatura" enum:"trafilatura,readability" help:"Text extraction engine"`

	SigningURL   string `help:"Manifest signing endpoint"`
	SigningToken string `help:"Bearer token for the signing endpoint"`
}

// VerifyCmd is the "verify" subcommand.
type VerifyCmd struct {
	Input string `arg:"" help:"WACZ file to verify" type:"existingfile"`
}
