package scan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spotlite-scan/spotlite/pkg/resolve"
	"golang.org/x/sync/errgroup"
)

// Orchestrator runs one full domain scan: resolve the domain, select the
// requested port list, scan every resolved address with its own coordinator pool,
// and run the registered enrichers on each host result. Per-address scans
// are fully independent; one address finding nothing never affects
// another's report.
type Orchestrator struct {
	cfg       Config
	resolver  resolve.Resolver
	coord     *Coordinator
	enrichers *EnricherRegistry
}

// NewOrchestrator creates an orchestrator. A nil resolver means the system
// resolver; a nil prober means TCP connect probing.
func NewOrchestrator(cfg Config, resolver resolve.Resolver, prober Prober) *Orchestrator {
	if resolver == nil {
		resolver = resolve.NewSystemResolver()
	}
	return &Orchestrator{
		cfg:       cfg,
		resolver:  resolver,
		coord:     NewCoordinator(cfg, prober),
		enrichers: NewEnricherRegistry(),
	}
}

// Enrichers exposes the registry so callers can select enrichment steps
func (o *Orchestrator) Enrichers() *EnricherRegistry {
	return o.enrichers
}

// Run scans domain and returns the aggregated report. A domain that does
// not resolve yields a report with no addresses and no host results — the
// coordinator is never invoked — which callers must present differently
// from "resolved but no ports open".
func (o *Orchestrator) Run(ctx context.Context, domain string, mode Mode, customPorts []int) *Report {
	report := &Report{Domain: domain}

	report.Addrs = o.resolver.Resolve(ctx, domain)
	if len(report.Addrs) == 0 {
		return report
	}

	ports := SelectPorts(o.cfg, mode, customPorts)
	slog.Debug("scanning", "domain", domain, "addrs", len(report.Addrs), "ports", ports)

	// One slot per address keeps the report in resolver order no matter
	// which scan finishes first.
	report.Hosts = make([]*HostResult, len(report.Addrs))

	var g errgroup.Group
	for i, addr := range report.Addrs {
		g.Go(func() error {
			host := o.coord.Scan(ctx, addr, ports, o.cfg.Timeout)
			host.Domain = domain
			o.enrich(ctx, host)
			report.Hosts[i] = host
			return nil
		})
	}
	g.Wait()

	return report
}

// enrich runs each registered enricher against one host, folding failures
// into the result instead of propagating them
func (o *Orchestrator) enrich(ctx context.Context, host *HostResult) {
	for _, e := range o.enrichers.All() {
		if err := e.Enrich(ctx, host); err != nil {
			slog.Debug("enrichment failed", "ip", host.IP, "enricher", e.Name(), "error", err)
			host.ScanErrors = append(host.ScanErrors, fmt.Sprintf("%s: %v", e.Name(), err))
		}
	}
}
