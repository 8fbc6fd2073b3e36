package mathml

import (
	"html"
	"strings"
)

// Expr is a node of a parsed math expression.
type Expr interface {
	// LaTeX renders the expression without math delimiters.
	LaTeX() string
}

// Text is character data inside a math element.
type Text string

// Identifier is an <mi> element.
type Identifier struct{ Children []Expr }

// Operator is an <mo> element.
type Operator struct{ Children []Expr }

// Number is an <mn> element.
type Number struct{ Children []Expr }

// Row is an <mrow> grouping element.
type Row struct{ Children []Expr }

// Fraction is an <mfrac> whose operands are both rows.
type Fraction struct{ Numerator, Denominator Expr }

// Superscript is an <msup> whose operands are both rows.
type Superscript struct{ Base, Exponent Expr }

// Subscript is an <msub> whose operands are both rows.
type Subscript struct{ Base, Index Expr }

// Literal is any element outside the supported grammar, including a
// fraction, superscript or subscript of the wrong shape. It renders as
// markup around its rewritten children.
type Literal struct {
	Tag      string
	Attrs    []Attr
	Children []Expr
}

// Attr is an attribute of a Literal element.
type Attr struct {
	Key, Val string
}

// LaTeX returns the decoded text. An ampersand stays escaped since a bare
// one is the LaTeX alignment character.
func (t Text) LaTeX() string { return strings.ReplaceAll(string(t), "&", "&amp;") }

func (e *Identifier) LaTeX() string { return join(e.Children) }

func (e *Operator) LaTeX() string { return join(e.Children) }

func (e *Number) LaTeX() string { return join(e.Children) }

func (e *Row) LaTeX() string { return join(e.Children) }

func (e *Fraction) LaTeX() string {
	return `\frac{` + e.Numerator.LaTeX() + "}{" + e.Denominator.LaTeX() + "}"
}

func (e *Superscript) LaTeX() string {
	return e.Base.LaTeX() + "^{" + e.Exponent.LaTeX() + "}"
}

func (e *Subscript) LaTeX() string {
	return e.Base.LaTeX() + "_{" + e.Index.LaTeX() + "}"
}

func (e *Literal) LaTeX() string {
	var b strings.Builder
	b.WriteString("<" + e.Tag)
	for _, a := range e.Attrs {
		b.WriteString(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
	}
	b.WriteString(">")
	b.WriteString(join(e.Children))
	b.WriteString("</" + e.Tag + ">")
	return b.String()
}

func join(children []Expr) string {
	var b strings.Builder
	for _, c := range children {
		b.WriteString(c.LaTeX())
	}
	return b.String()
}
