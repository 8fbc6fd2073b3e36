// Package mathml rewrites MathML markup embedded in text into inline LaTeX.
//
// Each <math> span is parsed with golang.org/x/net/html and rendered by
// recursive descent, so supported constructs compose when nested. Only
// identifiers, operators, numbers, rows, fractions, superscripts and
// subscripts are understood; anything else is kept as markup.
package mathml

import (
	"regexp"
	"strings"

	"github.com/digitalcorenz/web2md"
	"golang.org/x/net/html"
)

// Ensure Rewriter implements web2md.Rewriter at compile time.
var _ web2md.Rewriter = (*Rewriter)(nil)

// mathSpan matches one math element, non-greedily and across newlines.
var mathSpan = regexp.MustCompile(`(?s)<math[^>]*>.*?</math>`)

// Rewriter replaces MathML spans with $-delimited LaTeX.
type Rewriter struct{}

// NewRewriter creates a new Rewriter.
func NewRewriter() *Rewriter {
	return &Rewriter{}
}

// Rewrite returns text with every math span replaced by inline LaTeX.
// Text without a math span is returned unchanged.
func (r *Rewriter) Rewrite(text string) string {
	if !strings.Contains(text, "<math") {
		return text
	}
	return mathSpan.ReplaceAllStringFunc(text, func(span string) string {
		expr, ok := Parse(span)
		if !ok {
			return span
		}
		return "$" + strings.TrimSpace(expr.LaTeX()) + "$"
	})
}

// Parse parses markup holding a single math element and returns its
// content as a Row. It reports false if no math element is found or if the
// element does not hold all of the markup.
func Parse(markup string) (Expr, bool) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, false
	}
	math := findMath(doc)
	if math == nil || brokeOut(math) {
		return nil, false
	}
	return &Row{Children: parseChildren(math)}, true
}

// brokeOut reports whether the parser closed math early and moved part of
// its content to the enclosing element, as it does for HTML elements such
// as <br> or <span> outside a token element.
func brokeOut(math *html.Node) bool {
	if math.Parent == nil {
		return false
	}
	for c := math.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c == math {
			continue
		}
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		return true
	}
	return false
}

func findMath(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "math" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m := findMath(c); m != nil {
			return m
		}
	}
	return nil
}

func parseChildren(n *html.Node) []Expr {
	var children []Expr
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if e := parse(c); e != nil {
			children = append(children, e)
		}
	}
	return children
}

func parse(n *html.Node) Expr {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
	default:
		return nil
	}

	switch n.Data {
	case "mi":
		return &Identifier{Children: parseChildren(n)}
	case "mo":
		return &Operator{Children: parseChildren(n)}
	case "mn":
		return &Number{Children: parseChildren(n)}
	case "mrow":
		return &Row{Children: parseChildren(n)}
	case "mfrac":
		if a, b, ok := rowOperands(n); ok {
			return &Fraction{Numerator: parse(a), Denominator: parse(b)}
		}
	case "msup":
		if a, b, ok := rowOperands(n); ok {
			return &Superscript{Base: parse(a), Exponent: parse(b)}
		}
	case "msub":
		if a, b, ok := rowOperands(n); ok {
			return &Subscript{Base: parse(a), Index: parse(b)}
		}
	}

	lit := &Literal{Tag: n.Data, Children: parseChildren(n)}
	for _, a := range n.Attr {
		lit.Attrs = append(lit.Attrs, Attr{Key: a.Key, Val: a.Val})
	}
	return lit
}

// rowOperands returns the two operands of n when n holds exactly two
// mrow elements and nothing else but whitespace.
func rowOperands(n *html.Node) (*html.Node, *html.Node, bool) {
	var rows []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil, nil, false
			}
		case html.ElementNode:
			if c.Data != "mrow" {
				return nil, nil, false
			}
			rows = append(rows, c)
		}
	}
	if len(rows) != 2 {
		return nil, nil, false
	}
	return rows[0], rows[1], true
}
