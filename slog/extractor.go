package slog

import (
	"log/slog"
	"time"

	"github.com/digitalcorenz/web2md"
)

// Ensure LoggingExtractor implements web2md.Extractor.
var _ web2md.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor and logs which selector won.
type LoggingExtractor struct {
	next   web2md.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next web2md.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(html string, selectors []string) (result *web2md.ExtractResult, err error) {
	defer func(begin time.Time) {
		selector, bytes := "", 0
		if result != nil {
			selector, bytes = result.Selector, len(result.ContentHTML)
			if selector == "" {
				selector = "(largest text block)"
			}
		}
		e.logger.Info("extract",
			"selector", selector,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, selectors)
}
