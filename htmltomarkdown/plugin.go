package htmltomarkdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/digitalcorenz/web2md"
	"golang.org/x/net/html"
)

// reference is a link destination collected for reference-style output.
type reference struct {
	dest  string
	title string
}

// optionsPlugin applies web2md.ConversionOptions on top of the commonmark
// rules. Its renderers run before the commonmark ones.
type optionsPlugin struct {
	opts web2md.ConversionOptions
	refs []reference
}

func newOptionsPlugin(opts web2md.ConversionOptions) *optionsPlugin {
	return &optionsPlugin{opts: opts}
}

func (p *optionsPlugin) Name() string {
	return "web2md-options"
}

func (p *optionsPlugin) Init(conv *converter.Converter) error {
	conv.Register.RendererFor("a", converter.TagTypeInline, p.renderLink, converter.PriorityEarly)
	conv.Register.RendererFor("img", converter.TagTypeInline, p.renderImage, converter.PriorityEarly)
	for _, tag := range []string{"em", "i", "strong", "b"} {
		conv.Register.RendererFor(tag, converter.TagTypeInline, p.renderEmphasis, converter.PriorityEarly)
	}
	conv.Register.RendererFor("math", converter.TagTypeInline, renderMath, converter.PriorityEarly)
	return nil
}

func (p *optionsPlugin) renderLink(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	href := strings.TrimSpace(dom.GetAttributeOr(n, "href", ""))
	if p.opts.IgnoreLinks || href == "" || (p.opts.SkipInternalLinks && strings.HasPrefix(href, "#")) {
		ctx.RenderChildNodes(ctx, w, n)
		return converter.RenderSuccess
	}

	var buf bytes.Buffer
	ctx.RenderChildNodes(ctx, &buf, n)
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return converter.RenderSuccess
	}

	dest := p.destination(href)
	title := strings.TrimSpace(dom.GetAttributeOr(n, "title", ""))

	if !p.opts.InlineLinks {
		p.refs = append(p.refs, reference{dest: dest, title: title})
		w.WriteString("[" + text + "][" + strconv.Itoa(len(p.refs)) + "]")
		return converter.RenderSuccess
	}

	w.WriteString("[" + text + "](" + dest + formatTitle(title) + ")")
	return converter.RenderSuccess
}

func (p *optionsPlugin) renderImage(_ converter.Context, _ converter.Writer, _ *html.Node) converter.RenderStatus {
	if p.opts.IgnoreImages {
		return converter.RenderSuccess
	}
	return converter.RenderTryNext
}

func (p *optionsPlugin) renderEmphasis(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	if !p.opts.IgnoreEmphasis {
		return converter.RenderTryNext
	}
	ctx.RenderChildNodes(ctx, w, n)
	return converter.RenderSuccess
}

// destination formats a link target. Spaces are percent-encoded so a
// destination never contains a break point.
func (p *optionsPlugin) destination(href string) string {
	href = strings.ReplaceAll(href, " ", "%20")
	if p.opts.ProtectLinks {
		return "<" + href + ">"
	}
	href = strings.ReplaceAll(href, "(", "%28")
	return strings.ReplaceAll(href, ")", "%29")
}

// referenceList renders the collected references, one definition per line.
func (p *optionsPlugin) referenceList() string {
	if len(p.refs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n")
	for i, ref := range p.refs {
		b.WriteString("[" + strconv.Itoa(i+1) + "]: " + ref.dest + formatTitle(ref.title) + "\n")
	}
	return b.String()
}

func formatTitle(title string) string {
	if title == "" {
		return ""
	}
	return ` "` + strings.ReplaceAll(title, `"`, `\"`) + `"`
}

// renderMath writes MathML elements back out as markup so the LaTeX rewrite
// pass can find them in the Markdown.
func renderMath(_ converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return converter.RenderTryNext
	}
	w.Write(buf.Bytes())
	return converter.RenderSuccess
}
