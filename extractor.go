package web2md

// DefaultSelectors is the content selector priority list used when the
// caller does not supply one. Order is significant.
var DefaultSelectors = []string{
	"article.nextra-content",
	"article.content",
	"main[role='main']",
	".content",
	"#content",
	"article",
	"main",
	".main-content",
	"#main-content",
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title, empty if the page has none.
	Title string

	// ContentHTML is the serialized markup of the single element judged to
	// be the main content.
	ContentHTML string

	// Selector is the selector that matched, or empty when the element was
	// chosen by the largest-text-block fallback.
	Selector string
}

// Extractor isolates the main content region of a page.
type Extractor interface {
	// Extract returns the main content of html. Selectors are tried in
	// order; a nil or empty list means DefaultSelectors. Returns EEXTRACT
	// when no element qualifies and EINVALID for a malformed selector.
	Extract(html string, selectors []string) (*ExtractResult, error)
}
