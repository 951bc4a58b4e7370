package scan

import (
	"context"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeProber answers from a fixed set of open ports, optionally after a
// random delay so completion order differs from submission order
type fakeProber struct {
	open        map[int]bool
	maxDelay    time.Duration
	mu          sync.Mutex
	calls       []int
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (p *fakeProber) Probe(ctx context.Context, ip string, port int, timeout time.Duration) ProbeOutcome {
	cur := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		observed := p.maxInFlight.Load()
		if cur <= observed || p.maxInFlight.CompareAndSwap(observed, cur) {
			break
		}
	}

	p.mu.Lock()
	p.calls = append(p.calls, port)
	p.mu.Unlock()

	if p.maxDelay > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(p.maxDelay))))
	}

	if p.open[port] {
		return ProbeOutcome{Port: port, State: StateOpen}
	}
	return ProbeOutcome{Port: port, State: StateRefused}
}

func (p *fakeProber) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func TestScanDeterministicOrder(t *testing.T) {
	// Ports 80 and 8443 reachable, 443 and 8080 not; the open sequence
	// must come back as [80, 8443] no matter which probe finishes first
	ports := []int{80, 443, 8080, 8443}

	for range 20 {
		prober := &fakeProber{
			open:     map[int]bool{80: true, 8443: true},
			maxDelay: 2 * time.Millisecond,
		}
		c := NewCoordinator(Config{Parallelism: 4}, prober)

		result := c.Scan(context.Background(), "192.0.2.10", ports, 5*time.Second)

		want := []int{80, 8443}
		if !slices.Equal(result.OpenPorts, want) {
			t.Fatalf("Expected open ports %v, got %v", want, result.OpenPorts)
		}
	}
}

func TestScanOpenPortsSubsequenceOfRequest(t *testing.T) {
	ports := []int{22, 80, 443, 8080, 9000}
	prober := &fakeProber{
		open:     map[int]bool{443: true, 22: true, 9000: true},
		maxDelay: time.Millisecond,
	}
	c := NewCoordinator(Config{Parallelism: 3}, prober)

	result := c.Scan(context.Background(), "192.0.2.1", ports, time.Second)

	if len(result.OpenPorts) > len(ports) {
		t.Fatalf("Open ports longer than requested list: %d > %d", len(result.OpenPorts), len(ports))
	}

	// Subsequence check: open ports appear in requested order
	specIdx := 0
	for _, open := range result.OpenPorts {
		found := false
		for specIdx < len(ports) {
			if ports[specIdx] == open {
				found = true
				specIdx++
				break
			}
			specIdx++
		}
		if !found {
			t.Fatalf("Open port %d not an in-order member of requested list %v: %v", open, ports, result.OpenPorts)
		}
	}

	seen := map[int]bool{}
	for _, p := range result.OpenPorts {
		if seen[p] {
			t.Fatalf("Port %d appears twice in open set %v", p, result.OpenPorts)
		}
		seen[p] = true
	}
}

func TestScanExactlyOneOutcomePerPort(t *testing.T) {
	ports := []int{80, 443, 8080}
	prober := &fakeProber{open: map[int]bool{80: true}}
	c := NewCoordinator(Config{Parallelism: 2}, prober)

	result := c.Scan(context.Background(), "192.0.2.1", ports, time.Second)

	if prober.callCount() != len(ports) {
		t.Errorf("Expected %d probe calls, got %d", len(ports), prober.callCount())
	}
	if len(result.Ports) != len(ports) {
		t.Fatalf("Expected %d outcomes, got %d", len(ports), len(result.Ports))
	}
	for i, outcome := range result.Ports {
		if outcome.Port != ports[i] {
			t.Errorf("Outcome %d: expected port %d, got %d", i, ports[i], outcome.Port)
		}
	}
}

func TestScanBoundedParallelism(t *testing.T) {
	ports := make([]int, 40)
	for i := range ports {
		ports[i] = 1000 + i
	}
	prober := &fakeProber{open: map[int]bool{}, maxDelay: 2 * time.Millisecond}
	c := NewCoordinator(Config{Parallelism: 4}, prober)

	c.Scan(context.Background(), "192.0.2.1", ports, time.Second)

	if got := prober.maxInFlight.Load(); got > 4 {
		t.Errorf("Expected at most 4 probes in flight, observed %d", got)
	}
}

func TestScanIdempotentWithStableNetwork(t *testing.T) {
	ports := []int{21, 22, 80, 443}
	prober := &fakeProber{
		open:     map[int]bool{22: true, 443: true},
		maxDelay: time.Millisecond,
	}
	c := NewCoordinator(Config{Parallelism: 4}, prober)

	first := c.Scan(context.Background(), "192.0.2.1", ports, time.Second)
	for range 5 {
		again := c.Scan(context.Background(), "192.0.2.1", ports, time.Second)
		if !slices.Equal(first.OpenPorts, again.OpenPorts) {
			t.Fatalf("Open set changed between runs: %v vs %v", first.OpenPorts, again.OpenPorts)
		}
	}
}

func TestScanEmptyPortSpec(t *testing.T) {
	prober := &fakeProber{open: map[int]bool{}}
	c := NewCoordinator(Config{}, prober)

	result := c.Scan(context.Background(), "192.0.2.1", nil, time.Second)

	if len(result.OpenPorts) != 0 || len(result.Ports) != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
	if prober.callCount() != 0 {
		t.Errorf("Expected no probes for empty port list, got %d", prober.callCount())
	}
}

// errorProber fails every probe with a distinct non-open state
type errorProber struct{}

func (errorProber) Probe(ctx context.Context, ip string, port int, timeout time.Duration) ProbeOutcome {
	return ProbeOutcome{Port: port, State: StateError}
}

func TestScanProbeErrorsFoldIntoClosed(t *testing.T) {
	ports := []int{80, 443}
	c := NewCoordinator(Config{Parallelism: 2}, errorProber{})

	result := c.Scan(context.Background(), "192.0.2.1", ports, time.Second)

	if len(result.OpenPorts) != 0 {
		t.Errorf("Expected no open ports when every probe errors, got %v", result.OpenPorts)
	}
	for _, outcome := range result.Ports {
		if outcome.Open() {
			t.Errorf("Port %d reported open from an errored probe", outcome.Port)
		}
	}
}

func TestDefaultParallelism(t *testing.T) {
	c := NewCoordinator(Config{}, errorProber{})
	if c.parallelism != 4 {
		t.Errorf("Expected default parallelism 4, got %d", c.parallelism)
	}
}
