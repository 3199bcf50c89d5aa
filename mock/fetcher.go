package mock

import (
	"context"

	"github.com/fwojciec/docschema"
)

var _ docschema.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docschema.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*docschema.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*docschema.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ docschema.HostResolver = (*HostResolver)(nil)

// HostResolver is a mock implementation of docschema.HostResolver.
type HostResolver struct {
	LookupHostFn func(ctx context.Context, host string) (string, error)
}

func (r *HostResolver) LookupHost(ctx context.Context, host string) (string, error) {
	return r.LookupHostFn(ctx, host)
}

var _ docschema.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of docschema.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
