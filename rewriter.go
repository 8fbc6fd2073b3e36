package web2md

// Rewriter post-processes a Markdown document.
type Rewriter interface {
	// Rewrite returns text with embedded MathML replaced by inline LaTeX.
	// Text without math markup is returned unchanged.
	Rewrite(text string) string
}
