// Package pipeline composes fetching, extraction, conversion and the math
// rewrite into the single-page conversion flow.
package pipeline

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/digitalcorenz/web2md"
)

// Pipeline converts one webpage at a time and accumulates the results.
type Pipeline struct {
	Fetcher   web2md.Fetcher
	Extractor web2md.Extractor
	Converter web2md.Converter
	Files     web2md.FileService

	// Rewriter is applied before a document is appended.
	// Nil leaves documents unchanged.
	Rewriter web2md.Rewriter
}

// RunOptions controls a single conversion.
type RunOptions struct {
	// HTMLPath, if set, receives the raw downloaded page.
	HTMLPath string

	// MarkdownPath, if set, receives the converted Markdown.
	MarkdownPath string

	// Selectors replaces web2md.DefaultSelectors when non-empty.
	Selectors []string

	// Conversion is passed to the converter. Nil means defaults.
	Conversion *web2md.ConversionOptions

	// Overwrite allows replacing existing HTMLPath and MarkdownPath files.
	Overwrite bool

	// Progress, if set, is called as each stage starts or finishes.
	Progress ProgressFunc
}

// Result holds the outcome of a conversion.
type Result struct {
	URL               string
	ResolvedURL       string
	StatusCode        int
	StatusDescription string

	// Length is the downloaded page size in characters.
	Length int

	Title    string
	Selector string
	Markdown string

	HTMLPath     string
	MarkdownPath string
}

// ProgressType identifies a stage of a conversion.
type ProgressType int

const (
	ProgressDownloading ProgressType = iota
	ProgressDownloaded
	ProgressSavedHTML
	ProgressExtracting
	ProgressConverting
	ProgressSavedMarkdown
)

// ProgressEvent reports a stage of a conversion. Result is filled in as far
// as the conversion has progressed.
type ProgressEvent struct {
	Type   ProgressType
	URL    string
	Path   string
	Result *Result
}

// ProgressFunc is a callback for reporting conversion progress.
type ProgressFunc func(event ProgressEvent)

// Run fetches url, extracts its main content and converts it to Markdown,
// saving the intermediate files named in opts. Errors from each stage are
// returned unchanged, so a failed fetch writes no files.
func (p *Pipeline) Run(ctx context.Context, url string, opts RunOptions) (*Result, error) {
	result := &Result{URL: url}
	notify := func(typ ProgressType, path string) {
		if opts.Progress != nil {
			opts.Progress(ProgressEvent{Type: typ, URL: url, Path: path, Result: result})
		}
	}

	notify(ProgressDownloading, "")
	page, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	result.ResolvedURL = page.ResolvedURL
	result.StatusCode = page.StatusCode
	result.StatusDescription = page.StatusDescription
	result.Length = utf8.RuneCountInString(page.Body)
	notify(ProgressDownloaded, "")

	if opts.HTMLPath != "" {
		if err := p.Files.WriteFile(opts.HTMLPath, page.Body, opts.Overwrite); err != nil {
			return nil, err
		}
		result.HTMLPath = opts.HTMLPath
		notify(ProgressSavedHTML, opts.HTMLPath)
	}

	notify(ProgressExtracting, "")
	content, err := p.Extractor.Extract(page.Body, opts.Selectors)
	if err != nil {
		return nil, err
	}
	result.Title = content.Title
	result.Selector = content.Selector

	notify(ProgressConverting, "")
	markdown, err := p.Converter.Convert(content.ContentHTML, opts.Conversion)
	if err != nil {
		return nil, err
	}
	result.Markdown = markdown

	if opts.MarkdownPath != "" {
		if err := p.Files.WriteFile(opts.MarkdownPath, markdown, opts.Overwrite); err != nil {
			return nil, err
		}
		result.MarkdownPath = opts.MarkdownPath
		notify(ProgressSavedMarkdown, opts.MarkdownPath)
	}

	return result, nil
}

// Append rewrites math in markdown and appends it to the output file.
// A document that is empty or only whitespace is rejected and nothing is
// written.
func (p *Pipeline) Append(markdown, outputPath string) error {
	if strings.TrimSpace(markdown) == "" {
		return web2md.Errorf(web2md.EINVALID, "document is empty")
	}
	if p.Rewriter != nil {
		markdown = p.Rewriter.Rewrite(markdown)
	}
	return p.Files.AppendFile(outputPath, markdown)
}

// AppendFile reads a Markdown file and appends it to the output file as
// Append does.
func (p *Pipeline) AppendFile(inputPath, outputPath string) error {
	markdown, err := p.Files.ReadFile(inputPath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(markdown) == "" {
		return web2md.Errorf(web2md.EINVALID, "input file is empty: %s", inputPath)
	}
	return p.Append(markdown, outputPath)
}
