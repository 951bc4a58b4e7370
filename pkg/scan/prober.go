package scan

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"
)

// Prober attempts a connection handshake to one (address, port) pair
// within a timeout. Implementations must release any connection they open
// on every exit path. Injectable so tests can run with a synthetic,
// fully deterministic prober.
type Prober interface {
	Probe(ctx context.Context, ip string, port int, timeout time.Duration) ProbeOutcome
}

// TCPProber probes by completing a TCP handshake
type TCPProber struct{}

func (TCPProber) Probe(ctx context.Context, ip string, port int, timeout time.Duration) ProbeOutcome {
	address := net.JoinHostPort(ip, strconv.Itoa(port))

	dialer := &net.Dialer{Timeout: timeout}

	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return ProbeOutcome{Port: port, State: classifyDialError(err)}
	}
	conn.Close()

	return ProbeOutcome{
		Port:  port,
		State: StateOpen,
		RTTMs: time.Since(start).Milliseconds(),
	}
}

// classifyDialError maps a dial failure to a probe state. The report
// treats them all as "not open"; the tag survives for diagnostics.
func classifyDialError(err error) State {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		return StateTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return StateRefused
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return StateUnreachable
	default:
		return StateError
	}
}
