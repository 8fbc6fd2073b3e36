package web2md

import "context"

// FetchResult holds a fetched page and the response metadata that came with it.
type FetchResult struct {
	// Body is the page markup decoded to UTF-8.
	Body string

	StatusCode        int
	StatusDescription string

	// Headers holds the response headers, one value per key.
	Headers map[string]string

	// ResolvedURL is the final URL after redirects.
	ResolvedURL string

	// DeclaredEncoding is the charset the body was decoded from, as declared
	// by the response or the document, or detected from its bytes.
	DeclaredEncoding string
}

// Fetcher retrieves a single page.
type Fetcher interface {
	// Fetch retrieves the page at url. Transport failures, timeouts and
	// non-2xx responses are reported as ENETWORK errors; the status code is
	// available through ErrorStatusCode when a response was received.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases transport resources.
	Close() error
}
