package resolve

import (
	"context"
	"errors"
	"log/slog"
	"net"
)

// Resolver maps a domain name to its addresses. An empty result means the
// name did not resolve; the distinction between NXDOMAIN and a failing
// resolution mechanism is reported through the log only, it is not part of
// the contract. Resolution is attempted exactly once per call.
type Resolver interface {
	Resolve(ctx context.Context, domain string) []string
}

// SystemResolver resolves through the OS name-resolution mechanism
type SystemResolver struct {
	// lookup is injectable for tests; nil means net.DefaultResolver
	lookup func(ctx context.Context, host string) ([]string, error)
}

// NewSystemResolver creates a resolver backed by net.DefaultResolver
func NewSystemResolver() *SystemResolver {
	return &SystemResolver{}
}

// NewSystemResolverFunc creates a resolver backed by a custom lookup
// function, used by tests to supply synthetic answers
func NewSystemResolverFunc(lookup func(ctx context.Context, host string) ([]string, error)) *SystemResolver {
	return &SystemResolver{lookup: lookup}
}

func (r *SystemResolver) Resolve(ctx context.Context, domain string) []string {
	lookup := r.lookup
	if lookup == nil {
		lookup = net.DefaultResolver.LookupHost
	}

	addrs, err := lookup(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			slog.Debug("domain does not resolve", "domain", domain)
		} else {
			slog.Warn("resolution failed", "domain", domain, "error", err)
		}
		return nil
	}

	return addrs
}
