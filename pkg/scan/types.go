package scan

import (
	"time"

	"github.com/spotlite-scan/spotlite/pkg/config"
	"github.com/spotlite-scan/spotlite/pkg/geo"
	"github.com/spotlite-scan/spotlite/pkg/httpmeta"
)

// State classifies the outcome of a single port probe. Anything other than
// StateOpen counts as "not open" for report purposes; the tag is kept so
// callers can tell a refused port from a filtered one.
type State string

const (
	StateOpen        State = "open"
	StateRefused     State = "refused"
	StateTimeout     State = "timeout"
	StateUnreachable State = "unreachable"
	StateError       State = "error"
)

// ProbeOutcome is the result of exactly one probe of one (address, port)
// pair. Produced once per pair per scan, never retried.
type ProbeOutcome struct {
	Port  int   `json:"port"`
	State State `json:"state"`
	RTTMs int64 `json:"rtt_ms,omitzero"`
}

// Open reports whether the probe completed a handshake
func (o ProbeOutcome) Open() bool {
	return o.State == StateOpen
}

// HostResult contains everything gathered for a single address: the open
// ports in requested port order, the per-port probe outcomes, and any optional
// enrichment data. Populated once, then immutable.
type HostResult struct {
	Domain     string               `json:"domain,omitzero"`
	IP         string               `json:"ip"`
	OpenPorts  []int                `json:"open_ports,omitzero"`
	Ports      []ProbeOutcome       `json:"ports,omitzero"`
	Geo        *geo.Location        `json:"geo,omitzero"`
	Server     *httpmeta.ServerInfo `json:"server,omitzero"`
	ScanTime   int64                `json:"scan_time_ms"`
	ScanErrors []string             `json:"scan_errors,omitzero"`
}

// Report aggregates one orchestrated scan: the resolved addresses of the
// domain and one HostResult per address, in resolver order. An empty Addrs
// slice means the domain did not resolve, which is distinct from resolved
// hosts with no open ports.
type Report struct {
	Domain string        `json:"domain"`
	Addrs  []string      `json:"addrs,omitzero"`
	Hosts  []*HostResult `json:"hosts,omitzero"`
}

// Resolved reports whether the domain resolved to at least one address
func (r *Report) Resolved() bool {
	return len(r.Addrs) > 0
}

// Host returns the result for one address, or nil if the address was not
// part of the scan
func (r *Report) Host(ip string) *HostResult {
	for _, h := range r.Hosts {
		if h.IP == ip {
			return h
		}
	}
	return nil
}

// Config contains scan configuration. All defaults live here instead of in
// scattered package variables so tests can run with synthetic settings.
type Config struct {
	QuickPorts   []int         // port set for --quick
	DefaultPorts []int         // port set when no mode is selected
	Timeout      time.Duration // per-probe connect timeout
	Parallelism  int           // concurrent probes per address (0 or negative = default 4)
	RateLimit    int           // max probes per second within one scan (0 or negative = no limit)
}

// DefaultConfig returns scan configuration from the environment-backed
// defaults. Malformed port sets in the environment fall back to the
// built-in sets.
func DefaultConfig() Config {
	cfg := Config{
		QuickPorts:   []int{21, 22, 80, 443},
		DefaultPorts: []int{80, 443, 8080, 8443},
		Timeout:      config.Scan.Timeout,
		Parallelism:  config.Scan.Parallelism,
		RateLimit:    config.Scan.RateLimit,
	}
	if ports, err := ParsePortList(config.Scan.QuickPorts); err == nil {
		cfg.QuickPorts = ports
	}
	if ports, err := ParsePortList(config.Scan.DefaultPorts); err == nil {
		cfg.DefaultPorts = ports
	}
	return cfg
}
