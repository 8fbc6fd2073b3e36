// Package http provides an HTTP-based implementation of web2md.Fetcher
// for pages that don't require JavaScript rendering.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/digitalcorenz/web2md"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// defaultHeaders are sent with every request. Extra headers override them.
var defaultHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Upgrade-Insecure-Requests": "1",
}

// Ensure Fetcher implements web2md.Fetcher at compile time.
var _ web2md.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	headers   map[string]string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header. An empty value keeps the default.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHeaders adds request headers. They take precedence over the defaults.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		for k, v := range headers {
			f.headers[k] = v
		}
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		headers:   make(map[string]string, len(defaultHeaders)),
	}
	for k, v := range defaultHeaders {
		f.headers[k] = v
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at url and decodes its body to UTF-8.
// Redirects are followed.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*web2md.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, web2md.WrapError(err, web2md.ENETWORK, "failed to download webpage")
	}
	req.Header.Set("User-Agent", f.userAgent)
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, web2md.WrapError(err, web2md.ENETWORK, "failed to download webpage")
	}
	defer resp.Body.Close()

	if !web2md.IsSuccessStatus(resp.StatusCode) {
		e := web2md.NetworkErrorf(resp.StatusCode, "HTTP %d (%s): %s for url %s",
			resp.StatusCode, web2md.StatusDescription(resp.StatusCode), resp.Status, url)
		return nil, e
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		e := web2md.WrapError(err, web2md.ENETWORK, "failed to download webpage")
		e.StatusCode = resp.StatusCode
		return nil, e
	}

	contentType := resp.Header.Get("Content-Type")
	body, declared, err := decode(raw, contentType)
	if err != nil {
		return nil, web2md.WrapError(err, web2md.ENETWORK, "failed to decode webpage")
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return &web2md.FetchResult{
		Body:              body,
		StatusCode:        resp.StatusCode,
		StatusDescription: web2md.StatusDescription(resp.StatusCode),
		Headers:           headers,
		ResolvedURL:       resp.Request.URL.String(),
		DeclaredEncoding:  declared,
	}, nil
}

// decode converts raw to UTF-8. The charset comes from a byte order mark,
// contentType, or a meta tag; an undeclared body that is valid UTF-8 is kept
// as is. It returns the name of the charset used.
func decode(raw []byte, contentType string) (string, string, error) {
	enc, name, certain := charset.DetermineEncoding(raw, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(raw)) {
		return string(raw), "utf-8", nil
	}
	if enc == nil {
		return "", name, fmt.Errorf("unsupported charset %q", name)
	}
	body, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", name, err
	}
	return string(body), name, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
