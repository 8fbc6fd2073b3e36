package web2md

// ConversionOptions controls HTML to Markdown conversion.
// Every switch is independent of the others.
type ConversionOptions struct {
	IgnoreLinks    bool `yaml:"ignore_links"`
	IgnoreImages   bool `yaml:"ignore_images"`
	IgnoreEmphasis bool `yaml:"ignore_emphasis"`

	// BodyWidth is the wrap column. Zero disables wrapping.
	BodyWidth int `yaml:"body_width"`

	// ProtectLinks wraps link destinations in angle brackets.
	ProtectLinks bool `yaml:"protect_links"`

	// Wrap enables re-flowing paragraphs to BodyWidth.
	Wrap bool `yaml:"wrap"`

	// SkipInternalLinks renders fragment-only links (href="#...") as text.
	SkipInternalLinks bool `yaml:"skip_internal_links"`

	// InlineLinks selects [text](url) links; false selects reference links.
	InlineLinks bool `yaml:"inline_links"`

	// PadTables pads table cells so columns line up.
	PadTables bool `yaml:"pad_tables"`
}

// DefaultConversionOptions returns the default conversion switches.
func DefaultConversionOptions() ConversionOptions {
	return ConversionOptions{
		IgnoreLinks:       false,
		IgnoreImages:      false,
		IgnoreEmphasis:    false,
		BodyWidth:         0,
		ProtectLinks:      true,
		Wrap:              false,
		SkipInternalLinks: true,
		InlineLinks:       true,
		PadTables:         true,
	}
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into a normalized Markdown
	// document. A nil opts means DefaultConversionOptions.
	Convert(html string, opts *ConversionOptions) (string, error)
}
