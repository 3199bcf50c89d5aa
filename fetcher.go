package docschema

import "context"

// FetchResult is the outcome of fetching a URL.
type FetchResult struct {
	// URL is the final URL after redirects.
	URL      string
	Body     string
	Response *Response
}

// Fetcher retrieves documents from URLs.
type Fetcher interface {
	// Fetch retrieves the URL and reports the response metadata.
	// Responses other than 200 OK are errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases resources.
	Close() error
}

// HostResolver resolves host names to addresses.
type HostResolver interface {
	// LookupHost returns one address of host in textual form.
	LookupHost(ctx context.Context, host string) (string, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
