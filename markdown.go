package web2md

import (
	"regexp"
	"strings"
)

// DocumentSeparator is written between documents appended to the same output.
const DocumentSeparator = "\n\n---\n\n"

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// NormalizeMarkdown collapses runs of three or more newlines to exactly two
// and trims leading and trailing whitespace. It is idempotent.
func NormalizeMarkdown(markdown string) string {
	markdown = excessNewlines.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}

// AppendDocument returns existing followed by doc. DocumentSeparator is
// placed between them only when existing is non-empty.
func AppendDocument(existing, doc string) string {
	if existing == "" {
		return doc
	}
	return existing + DocumentSeparator + doc
}
