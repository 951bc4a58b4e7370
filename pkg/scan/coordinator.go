package scan

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Coordinator dispatches port probes for one address across a bounded
// worker pool and assembles the results in requested port order. Concurrency
// buys speed, the ordered assembly buys deterministic output.
type Coordinator struct {
	prober      Prober
	parallelism int
	limiter     *rate.Limiter
}

// NewCoordinator creates a coordinator. A nil prober means TCP connect
// probing; parallelism <= 0 means the default of 4.
func NewCoordinator(cfg Config, prober Prober) *Coordinator {
	if prober == nil {
		prober = TCPProber{}
	}

	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = 4
	}

	// Treat RateLimit <= 0 as no limit
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	} else {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &Coordinator{
		prober:      prober,
		parallelism: parallelism,
		limiter:     limiter,
	}
}

// Scan probes every port in ports against ip, at most parallelism probes
// in flight, all sharing the same timeout. It does not return until the
// last probe has resolved; a slow probe delays the result but never
// corrupts it, and a failing probe folds into a non-open outcome without
// touching its siblings. The open-port sequence follows the order of
// ports, not completion order.
func (c *Coordinator) Scan(ctx context.Context, ip string, ports []int, timeout time.Duration) *HostResult {
	start := time.Now()
	result := &HostResult{IP: ip}
	if len(ports) == 0 {
		return result
	}

	// One slot per port; each probe writes only its own index, so no
	// locking is needed and input order survives any completion order.
	outcomes := make([]ProbeOutcome, len(ports))

	var g errgroup.Group
	g.SetLimit(min(c.parallelism, len(ports)))

	for i, port := range ports {
		g.Go(func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				outcomes[i] = ProbeOutcome{Port: port, State: StateError}
				return nil
			}
			outcomes[i] = c.prober.Probe(ctx, ip, port, timeout)
			return nil
		})
	}

	// Synchronization barrier: every dispatched probe resolves before the
	// report is assembled.
	g.Wait()

	result.Ports = outcomes
	for _, outcome := range outcomes {
		if outcome.Open() {
			result.OpenPorts = append(result.OpenPorts, outcome.Port)
		}
	}
	result.ScanTime = time.Since(start).Milliseconds()
	return result
}
