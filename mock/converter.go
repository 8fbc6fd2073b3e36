package mock

import "github.com/digitalcorenz/web2md"

var _ web2md.Converter = (*Converter)(nil)

// Converter is a mock implementation of web2md.Converter.
type Converter struct {
	ConvertFn func(html string, opts *web2md.ConversionOptions) (string, error)
}

func (c *Converter) Convert(html string, opts *web2md.ConversionOptions) (string, error) {
	return c.ConvertFn(html, opts)
}
