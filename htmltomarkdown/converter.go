// Package htmltomarkdown converts HTML fragments to Markdown using
// github.com/JohannesKaufmann/html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/digitalcorenz/web2md"
)

// Ensure Converter implements web2md.Converter at compile time.
var _ web2md.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
// Converter is safe for concurrent use; each call builds its own
// underlying converter because the options plugin keeps per-document state.
type Converter struct{}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert transforms HTML content into normalized Markdown.
// Blank input converts to an empty document.
func (c *Converter) Convert(html string, opts *web2md.ConversionOptions) (string, error) {
	o := web2md.DefaultConversionOptions()
	if opts != nil {
		o = *opts
	}

	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	options := newOptionsPlugin(o)
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(cellPadding(o)),
			),
			options,
		),
	)

	markdown, err := conv.ConvertString(html)
	if err != nil {
		return "", web2md.WrapError(err, web2md.EINTERNAL, "failed to convert HTML to Markdown")
	}

	markdown += options.referenceList()

	if o.Wrap && o.BodyWidth > 0 {
		markdown = Wrap(markdown, o.BodyWidth)
	}

	return web2md.NormalizeMarkdown(markdown), nil
}

func cellPadding(o web2md.ConversionOptions) table.CellPaddingBehavior {
	if o.PadTables {
		return table.CellPaddingBehaviorAligned
	}
	return table.CellPaddingBehaviorMinimal
}
