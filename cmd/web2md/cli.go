package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/digitalcorenz/web2md"
	"github.com/digitalcorenz/web2md/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Config is the merged result of defaults, config file and global flags.
	Config *Config

	Pipeline *pipeline.Pipeline
	Files    web2md.FileService

	// Terminal reports whether Stdout is an interactive terminal.
	Terminal bool
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config    string            `short:"c" help:"Path to a YAML config file"`
	Verbose   bool              `short:"v" help:"Log each pipeline stage to stderr"`
	Render    bool              `short:"r" help:"Render pages in headless Chrome before converting"`
	Timeout   time.Duration     `short:"t" help:"Fetch timeout (default 30s)"`
	UserAgent string            `name:"user-agent" help:"User-Agent header sent with requests"`
	Header    map[string]string `short:"H" help:"Extra request header as KEY=VALUE (repeatable)"`
	Dir       string            `short:"d" help:"Directory for intermediate and output files"`

	Shell   ShellCmd   `cmd:"" default:"withargs" help:"Convert URLs interactively into one output file (default)"`
	Convert ConvertCmd `cmd:"" help:"Convert a single URL to Markdown"`
	Process ProcessCmd `cmd:"" help:"Rewrite math in a Markdown file and append it to an output file"`
}

// ConversionFlags adjust web2md.ConversionOptions. Each flag moves one
// option away from its default, so an unset flag leaves the config file
// value in place.
type ConversionFlags struct {
	IgnoreLinks       bool `help:"Render links as plain text"`
	IgnoreImages      bool `help:"Drop images"`
	IgnoreEmphasis    bool `help:"Render emphasis as plain text"`
	BodyWidth         int  `help:"Wrap paragraphs at this width (implies --wrap)"`
	Wrap              bool `help:"Wrap paragraphs at --body-width"`
	NoProtectLinks    bool `help:"Do not wrap link destinations in angle brackets"`
	KeepInternalLinks bool `help:"Keep links to #fragments"`
	ReferenceLinks    bool `help:"Use reference-style links"`
	NoPadTables       bool `help:"Do not pad table cells"`
}

// Apply returns opts with the flags that are set applied.
func (f ConversionFlags) Apply(opts web2md.ConversionOptions) web2md.ConversionOptions {
	if f.IgnoreLinks {
		opts.IgnoreLinks = true
	}
	if f.IgnoreImages {
		opts.IgnoreImages = true
	}
	if f.IgnoreEmphasis {
		opts.IgnoreEmphasis = true
	}
	if f.BodyWidth > 0 {
		opts.BodyWidth = f.BodyWidth
		opts.Wrap = true
	}
	if f.Wrap {
		opts.Wrap = true
	}
	if f.NoProtectLinks {
		opts.ProtectLinks = false
	}
	if f.KeepInternalLinks {
		opts.SkipInternalLinks = false
	}
	if f.ReferenceLinks {
		opts.InlineLinks = false
	}
	if f.NoPadTables {
		opts.PadTables = false
	}
	return opts
}

// ShellCmd is the interactive "shell" subcommand.
type ShellCmd struct {
	Selector   []string        `short:"s" help:"CSS selector for the main content, in priority order (repeatable)"`
	Output     string          `short:"o" default:"output.md" help:"Session output file, renamed on exit"`
	NoMath     bool            `help:"Leave MathML untouched"`
	Conversion ConversionFlags `embed:""`
}

// ConvertCmd is the "convert" subcommand.
type ConvertCmd struct {
	URL        string          `arg:"" help:"URL of the webpage to convert"`
	HTMLFile   string          `name:"html-file" help:"Path to save the downloaded HTML"`
	MDFile     string          `name:"md-file" help:"Path to save the Markdown (default: print to stdout)"`
	Selector   []string        `short:"s" help:"CSS selector for the main content, in priority order (repeatable)"`
	Overwrite  bool            `help:"Overwrite existing files"`
	Quiet      bool            `short:"q" help:"Suppress progress information"`
	NoMath     bool            `help:"Leave MathML untouched"`
	Conversion ConversionFlags `embed:""`
}

// ProcessCmd is the "process" subcommand.
type ProcessCmd struct {
	Output string `arg:"" help:"Output file to append to"`
	Input  string `short:"i" default:"template.md" help:"Markdown file to process"`
	NoMath bool   `help:"Leave MathML untouched"`
}
