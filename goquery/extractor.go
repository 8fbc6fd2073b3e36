// Package goquery implements content extraction over a parsed DOM using
// CSS selectors.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/digitalcorenz/web2md"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Extractor implements web2md.Extractor at compile time.
var _ web2md.Extractor = (*Extractor)(nil)

// boilerplateSelector matches elements removed before the text-length fallback.
const boilerplateSelector = "script, style, nav, header, footer, aside"

// Extractor selects the main content element of a page. It tries a list of
// CSS selectors in priority order and, when none matches, falls back to the
// div, section or article element with the most visible text.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content fragment.
func (e *Extractor) Extract(rawHTML string, selectors []string) (*web2md.ExtractResult, error) {
	if len(selectors) == 0 {
		selectors = web2md.DefaultSelectors
	}
	if err := ValidateSelectors(selectors); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, web2md.WrapError(err, web2md.EEXTRACT, "failed to parse HTML")
	}

	title := pageTitle(doc)

	// The first selector with any match wins; later selectors are never consulted.
	for _, selector := range selectors {
		match := doc.Find(selector)
		if match.Length() == 0 {
			continue
		}
		fragment, err := goquery.OuterHtml(match.First())
		if err != nil {
			return nil, web2md.WrapError(err, web2md.EEXTRACT, "failed to render content")
		}
		return &web2md.ExtractResult{
			Title:       title,
			ContentHTML: fragment,
			Selector:    selector,
		}, nil
	}

	doc.Find(boilerplateSelector).Remove()

	best := largestTextBlock(doc.Selection)
	if best == nil {
		return nil, web2md.Errorf(web2md.EEXTRACT, "could not extract main content from webpage")
	}

	var buf strings.Builder
	if err := html.Render(&buf, best); err != nil {
		return nil, web2md.WrapError(err, web2md.EEXTRACT, "failed to render content")
	}

	return &web2md.ExtractResult{
		Title:       title,
		ContentHTML: buf.String(),
	}, nil
}

// ValidateSelectors returns an EINVALID error for the first selector that
// is empty or cannot be compiled.
func ValidateSelectors(selectors []string) error {
	for _, selector := range selectors {
		if strings.TrimSpace(selector) == "" {
			return web2md.Errorf(web2md.EINVALID, "empty content selector")
		}
		if _, err := cascadia.Compile(selector); err != nil {
			return web2md.Errorf(web2md.EINVALID, "invalid content selector %q: %v", selector, err)
		}
	}
	return nil
}

// largestTextBlock returns the div, section or article element with the
// strictly greatest visible text length. Ties go to the element that comes
// first in document order. Returns nil if no element has any text.
func largestTextBlock(root *goquery.Selection) *html.Node {
	var best *html.Node
	maxLen := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Div, atom.Section, atom.Article:
				if l := VisibleTextLength(n); l > maxLen {
					maxLen = l
					best = n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range root.Nodes {
		walk(n)
	}

	return best
}

// VisibleTextLength counts the characters of the text under n. Each text
// node is trimmed of surrounding whitespace and the pieces are counted as
// if joined without separators.
func VisibleTextLength(n *html.Node) int {
	total := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			total += utf8.RuneCountInString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return total
}

// pageTitle returns the document title, falling back to the first h1.
func pageTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
