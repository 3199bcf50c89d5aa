package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docschema"
)

// Ensure LoggingResolver implements docschema.HostResolver.
var _ docschema.HostResolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a HostResolver with debug logging.
type LoggingResolver struct {
	next   docschema.HostResolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next docschema.HostResolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// LookupHost delegates to the wrapped resolver and logs the lookup.
func (r *LoggingResolver) LookupHost(ctx context.Context, host string) (ip string, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("host lookup",
			"host", host,
			"ip", ip,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.LookupHost(ctx, host)
}
