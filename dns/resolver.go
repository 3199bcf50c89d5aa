// Package dns resolves host names for the ip_s field.
package dns

import (
	"context"
	"net"
	"time"

	"github.com/fwojciec/docschema"
	"golang.org/x/sync/singleflight"
)

// DefaultLookupTimeout bounds a single host lookup.
const DefaultLookupTimeout = 2 * time.Second

// Ensure Resolver implements docschema.HostResolver at compile time.
var _ docschema.HostResolver = (*Resolver)(nil)

// Lookuper is the subset of *net.Resolver used by Resolver.
type Lookuper interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Resolver resolves host names, collapsing concurrent lookups of the same
// host into one query.
type Resolver struct {
	lookup  Lookuper
	timeout time.Duration
	group   singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout sets the per-lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// WithLookuper replaces the system resolver.
func WithLookuper(l Lookuper) Option {
	return func(r *Resolver) {
		r.lookup = l
	}
}

// NewResolver creates a Resolver backed by net.DefaultResolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		lookup:  net.DefaultResolver,
		timeout: DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LookupHost returns the first address of host. IP literals are returned
// unchanged.
func (r *Resolver) LookupHost(ctx context.Context, host string) (string, error) {
	if host == "" {
		return "", docschema.Errorf(docschema.EINVALID, "host required")
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	v, err, _ := r.group.Do(host, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		addrs, err := r.lookup.LookupHost(ctx, host)
		if err != nil {
			return "", err
		}
		if len(addrs) == 0 {
			return "", docschema.Errorf(docschema.ENOTFOUND, "no address for host %q", host)
		}
		return addrs[0], nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
