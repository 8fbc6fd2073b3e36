package mock

import "github.com/digitalcorenz/web2md"

var _ web2md.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of web2md.Extractor.
type Extractor struct {
	ExtractFn func(html string, selectors []string) (*web2md.ExtractResult, error)
}

func (e *Extractor) Extract(html string, selectors []string) (*web2md.ExtractResult, error) {
	return e.ExtractFn(html, selectors)
}
