package slog

import (
	"log/slog"
	"time"

	"github.com/digitalcorenz/web2md"
)

// Ensure LoggingConverter implements web2md.Converter.
var _ web2md.Converter = (*LoggingConverter)(nil)

// LoggingConverter wraps a Converter with logging.
type LoggingConverter struct {
	next   web2md.Converter
	logger *slog.Logger
}

// NewLoggingConverter creates a new LoggingConverter.
func NewLoggingConverter(next web2md.Converter, logger *slog.Logger) *LoggingConverter {
	return &LoggingConverter{next: next, logger: logger}
}

// Convert delegates to the wrapped converter and logs input and output sizes.
func (c *LoggingConverter) Convert(html string, opts *web2md.ConversionOptions) (markdown string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("convert",
			"html_bytes", len(html),
			"bytes", len(markdown),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Convert(html, opts)
}

// Ensure LoggingRewriter implements web2md.Rewriter.
var _ web2md.Rewriter = (*LoggingRewriter)(nil)

// LoggingRewriter wraps a Rewriter with logging.
type LoggingRewriter struct {
	next   web2md.Rewriter
	logger *slog.Logger
}

// NewLoggingRewriter creates a new LoggingRewriter.
func NewLoggingRewriter(next web2md.Rewriter, logger *slog.Logger) *LoggingRewriter {
	return &LoggingRewriter{next: next, logger: logger}
}

// Rewrite delegates to the wrapped rewriter.
func (r *LoggingRewriter) Rewrite(text string) (out string) {
	defer func(begin time.Time) {
		r.logger.Info("rewrite",
			"bytes", len(text),
			"changed", out != text,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return r.next.Rewrite(text)
}
