package mock

import "github.com/digitalcorenz/web2md"

var _ web2md.Rewriter = (*Rewriter)(nil)

// Rewriter is a mock implementation of web2md.Rewriter.
type Rewriter struct {
	RewriteFn func(text string) string
}

func (r *Rewriter) Rewrite(text string) string {
	return r.RewriteFn(text)
}
