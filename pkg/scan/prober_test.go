package scan

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"
)

// listenTCP opens a listener on an ephemeral localhost port and returns
// the port number
func listenTCP(t *testing.T) (net.Listener, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	_, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)
	return ln, port
}

func TestTCPProberOpenPort(t *testing.T) {
	ln, port := listenTCP(t)
	defer ln.Close()

	outcome := TCPProber{}.Probe(context.Background(), "127.0.0.1", port, 2*time.Second)

	if !outcome.Open() {
		t.Fatalf("Expected open, got %s", outcome.State)
	}
	if outcome.Port != port {
		t.Errorf("Expected port %d, got %d", port, outcome.Port)
	}
}

func TestTCPProberClosedPort(t *testing.T) {
	// Grab a free port, then close the listener so nothing accepts
	ln, port := listenTCP(t)
	ln.Close()

	outcome := TCPProber{}.Probe(context.Background(), "127.0.0.1", port, 2*time.Second)

	if outcome.Open() {
		t.Fatal("Expected closed port to report not open")
	}
	if outcome.State != StateRefused {
		t.Errorf("Expected refused on loopback closed port, got %s", outcome.State)
	}
}

func TestTCPProberUnresponsiveAddress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network timeout test in short mode")
	}

	// TEST-NET-1 (documentation range) never responds
	timeout := 500 * time.Millisecond
	start := time.Now()
	outcome := TCPProber{}.Probe(context.Background(), "192.0.2.1", 80, timeout)
	elapsed := time.Since(start)

	if outcome.Open() {
		t.Fatal("Expected unresponsive address to report not open")
	}
	// Depending on local routing this is a timeout or unreachable; either
	// way it must resolve promptly and never report open
	if elapsed > timeout+2*time.Second {
		t.Errorf("Probe took %v, expected close to %v", elapsed, timeout)
	}
}

func TestTCPProberCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := TCPProber{}.Probe(ctx, "192.0.2.1", 80, 5*time.Second)

	if outcome.Open() {
		t.Fatal("Expected cancelled probe to report not open")
	}
}
