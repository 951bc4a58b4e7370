// Package disclosure looks up vulnerability-disclosure policies for a
// domain: a published security.txt, membership in crowdsourced bounty
// target lists, and matches in a JSON bug-bounty program database.
// Every lookup is a single best-effort HTTP request.
package disclosure

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/spotlite-scan/spotlite/pkg/config"
)

// Policy aggregates everything the disclosure lookups found for one domain
type Policy struct {
	Domain      string       `json:"domain"`
	SecurityTXT *SecurityTXT `json:"security_txt,omitzero"`
	ListedIn    []string     `json:"listed_in,omitzero"`
	Programs    []Program    `json:"programs,omitzero"`
}

// Client performs disclosure-policy lookups
type Client struct {
	httpClient *http.Client
	cfg        config.DisclosureConfig
}

// NewClient creates a disclosure client. A nil httpClient uses the shared
// pooled client settings; a zero cfg uses the configured defaults.
func NewClient(httpClient *http.Client, cfg config.DisclosureConfig) *Client {
	if httpClient == nil {
		httpClient = config.NewHTTPClient(config.HTTP)
	}
	if cfg == (config.DisclosureConfig{}) {
		cfg = config.Disclosure
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

// Lookup runs all disclosure checks for a domain. Individual lookup
// failures are logged and skipped; the returned Policy carries whatever
// succeeded.
func (c *Client) Lookup(ctx context.Context, domain string) *Policy {
	policy := &Policy{Domain: domain}

	txt, err := c.FetchSecurityTXT(ctx, domain)
	if err != nil {
		slog.Debug("security.txt lookup failed", "domain", domain, "error", err)
	} else {
		policy.SecurityTXT = txt
	}

	listed, err := c.InBountyList(ctx, domain)
	if err != nil {
		slog.Debug("bounty list lookup failed", "domain", domain, "error", err)
	} else if listed {
		policy.ListedIn = append(policy.ListedIn, c.cfg.BountyListURL)
	}

	programs, err := c.SearchPrograms(ctx, domain)
	if err != nil {
		slog.Debug("program database search failed", "domain", domain, "error", err)
	} else {
		policy.Programs = programs
	}

	return policy
}
