package resolve

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/miekg/dns"
)

// DNSResolver resolves A and AAAA records directly against a specific
// nameserver instead of the system resolver. Used when the caller asks for
// an explicit --resolver.
type DNSResolver struct {
	Server  string // host or host:port, port 53 assumed
	Timeout time.Duration
}

// NewDNSResolver creates a resolver that queries the given nameserver
func NewDNSResolver(server string, timeout time.Duration) *DNSResolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DNSResolver{Server: server, Timeout: timeout}
}

func (r *DNSResolver) Resolve(ctx context.Context, domain string) []string {
	server := r.Server
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	var addrs []string
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		answers, err := r.query(ctx, server, domain, qtype)
		if err != nil {
			slog.Warn("dns query failed", "domain", domain, "server", server,
				"qtype", dns.TypeToString[qtype], "error", err)
			continue
		}
		addrs = append(addrs, answers...)
	}

	if len(addrs) == 0 {
		slog.Debug("domain does not resolve", "domain", domain, "server", server)
	}
	return addrs
}

func (r *DNSResolver) query(ctx context.Context, server, domain string, qtype uint16) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), qtype)
	msg.RecursionDesired = true

	client := &dns.Client{
		Net:     "udp",
		Timeout: r.Timeout,
	}

	resp, _, err := client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, err
	}

	var addrs []string
	for _, rr := range resp.Answer {
		switch record := rr.(type) {
		case *dns.A:
			addrs = append(addrs, record.A.String())
		case *dns.AAAA:
			addrs = append(addrs, record.AAAA.String())
		}
	}
	return addrs, nil
}
