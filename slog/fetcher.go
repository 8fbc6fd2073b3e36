// Package slog wraps web2md services with log/slog logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/digitalcorenz/web2md"
)

// Ensure LoggingFetcher implements web2md.Fetcher.
var _ web2md.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   web2md.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next web2md.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (result *web2md.FetchResult, err error) {
	defer func(begin time.Time) {
		var bytes, status int
		if result != nil {
			bytes, status = len(result.Body), result.StatusCode
		} else {
			status = web2md.ErrorStatusCode(err)
		}
		f.logger.Info("fetch",
			"url", url,
			"status", status,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
