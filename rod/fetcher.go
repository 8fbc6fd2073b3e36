// Package rod provides a headless Chrome implementation of web2md.Fetcher
// for pages that build their content with JavaScript.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/digitalcorenz/web2md"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load including rendering.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements web2md.Fetcher at compile time.
var _ web2md.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager   *BrowserManager
	timeout   time.Duration
	userAgent string
	headers   []string
	closed    atomic.Bool
}

// Option configures a Fetcher.
type Option func(*fetcherConfig)

type fetcherConfig struct {
	timeout   time.Duration
	maxPages  int64
	userAgent string
	headers   map[string]string
}

// WithFetchTimeout sets the timeout for a single page load.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithRecycleAfter sets how many pages are loaded before the browser is
// restarted. Defaults to DefaultMaxPages.
func WithRecycleAfter(n int64) Option {
	return func(c *fetcherConfig) {
		c.maxPages = n
	}
}

// WithUserAgent overrides the browser's User-Agent. An empty value keeps
// Chrome's own.
func WithUserAgent(ua string) Option {
	return func(c *fetcherConfig) {
		c.userAgent = ua
	}
}

// WithHeaders adds headers to every request the page makes.
func WithHeaders(headers map[string]string) Option {
	return func(c *fetcherConfig) {
		c.headers = headers
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	cfg := fetcherConfig{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	manager, err := NewBrowserManager(WithMaxPages(cfg.maxPages))
	if err != nil {
		return nil, web2md.WrapError(err, web2md.ENETWORK, "failed to start browser")
	}

	return &Fetcher{
		manager:   manager,
		timeout:   cfg.timeout,
		userAgent: cfg.userAgent,
		headers:   headerPairs(cfg.headers),
	}, nil
}

// headerPairs flattens headers into the key, value list rod expects,
// sorted by key.
func headerPairs(headers map[string]string) []string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, headers[k])
	}
	return pairs
}

// Fetch navigates to the URL, waits for the page to load and returns the
// rendered HTML. The status code is taken from the main document response.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*web2md.FetchResult, error) {
	if f.closed.Load() {
		return nil, web2md.Errorf(web2md.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, web2md.WrapError(err, web2md.ENETWORK, "failed to download webpage")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, web2md.WrapError(err, web2md.ENETWORK, "failed to open page")
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return nil, web2md.WrapError(err, web2md.ENETWORK, "failed to set user agent")
		}
	}
	if len(f.headers) > 0 {
		restore, err := page.SetExtraHeaders(f.headers)
		if err != nil {
			return nil, web2md.WrapError(err, web2md.ENETWORK, "failed to set request headers")
		}
		defer restore()
	}

	result, err := load(page, url)
	if err != nil {
		var appErr *web2md.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, web2md.WrapError(err, web2md.ENETWORK, "failed to download webpage")
	}
	return result, nil
}

func load(page *rod.Page, url string) (*web2md.FetchResult, error) {
	var resp proto.NetworkResponseReceived
	wait := page.WaitEvent(&resp)

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	wait()
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	status := 200
	headers := map[string]string{}
	if resp.Response != nil {
		status = resp.Response.Status
		for k, v := range resp.Response.Headers {
			headers[k] = v.String()
		}
	}
	if !web2md.IsSuccessStatus(status) {
		return nil, web2md.NetworkErrorf(status, "HTTP %d (%s) for url %s",
			status, web2md.StatusDescription(status), url)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	resolved := url
	if info, err := page.Info(); err == nil {
		resolved = info.URL
	}

	return &web2md.FetchResult{
		Body:              html,
		StatusCode:        status,
		StatusDescription: web2md.StatusDescription(status),
		Headers:           headers,
		ResolvedURL:       resolved,
		DeclaredEncoding:  "utf-8",
	}, nil
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := f.manager.Close(); err != nil {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}
