package dns_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/docschema"
	"github.com/fwojciec/docschema/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupFunc func(ctx context.Context, host string) ([]string, error)

func (f lookupFunc) LookupHost(ctx context.Context, host string) ([]string, error) {
	return f(ctx, host)
}

func TestResolver_LookupHost(t *testing.T) {
	t.Parallel()

	t.Run("returns the first address", func(t *testing.T) {
		t.Parallel()

		r := dns.NewResolver(dns.WithLookuper(lookupFunc(func(_ context.Context, host string) ([]string, error) {
			assert.Equal(t, "example.org", host)
			return []string{"192.0.2.1", "192.0.2.2"}, nil
		})))

		ip, err := r.LookupHost(context.Background(), "example.org")

		require.NoError(t, err)
		assert.Equal(t, "192.0.2.1", ip)
	})

	t.Run("returns IP literals without a lookup", func(t *testing.T) {
		t.Parallel()

		r := dns.NewResolver(dns.WithLookuper(lookupFunc(func(context.Context, string) ([]string, error) {
			t.Fatal("unexpected lookup")
			return nil, nil
		})))

		ip, err := r.LookupHost(context.Background(), "::1")

		require.NoError(t, err)
		assert.Equal(t, "::1", ip)
	})

	t.Run("propagates lookup errors", func(t *testing.T) {
		t.Parallel()

		r := dns.NewResolver(dns.WithLookuper(lookupFunc(func(context.Context, string) ([]string, error) {
			return nil, errors.New("no such host")
		})))

		_, err := r.LookupHost(context.Background(), "missing.invalid")

		require.EqualError(t, err, "no such host")
	})

	t.Run("reports hosts without addresses as not found", func(t *testing.T) {
		t.Parallel()

		r := dns.NewResolver(dns.WithLookuper(lookupFunc(func(context.Context, string) ([]string, error) {
			return nil, nil
		})))

		_, err := r.LookupHost(context.Background(), "empty.example")

		assert.Equal(t, docschema.ENOTFOUND, docschema.ErrorCode(err))
	})

	t.Run("rejects empty hosts", func(t *testing.T) {
		t.Parallel()

		_, err := dns.NewResolver().LookupHost(context.Background(), "")

		assert.Equal(t, docschema.EINVALID, docschema.ErrorCode(err))
	})

	t.Run("applies the lookup timeout", func(t *testing.T) {
		t.Parallel()

		r := dns.NewResolver(
			dns.WithTimeout(10*time.Millisecond),
			dns.WithLookuper(lookupFunc(func(ctx context.Context, _ string) ([]string, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})),
		)

		_, err := r.LookupHost(context.Background(), "slow.example")

		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("collapses concurrent lookups of one host", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		release := make(chan struct{})
		r := dns.NewResolver(dns.WithLookuper(lookupFunc(func(context.Context, string) ([]string, error) {
			calls.Add(1)
			<-release
			return []string{"192.0.2.7"}, nil
		})))

		var wg sync.WaitGroup
		results := make([]string, 5)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ip, err := r.LookupHost(context.Background(), "shared.example")
				assert.NoError(t, err)
				results[i] = ip
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, ip := range results {
			assert.Equal(t, "192.0.2.7", ip)
		}
	})
}
