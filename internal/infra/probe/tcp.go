package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// TCPProbe checks that something accepts connections on host:port.
type TCPProbe struct {
	addr    string
	timeout time.Duration
}

// NewTCP validates host and port and builds a raw connect probe. The timeout
// bounds a single dial attempt, independently of the overall wait policy.
func NewTCP(host string, port int, timeout time.Duration) (*TCPProbe, error) {
	addr, err := joinHostPort(host, port)
	if err != nil {
		return nil, err
	}

	return &TCPProbe{addr: addr, timeout: timeout}, nil
}

func (p *TCPProbe) Name() string {
	return "tcp " + p.addr
}

func (p *TCPProbe) Check(ctx context.Context) Result {
	dialer := net.Dialer{Timeout: p.timeout}

	conn, err := dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		// Refused, timed out or unresolved DNS: the service (or its DNS
		// record) may simply not exist yet.
		return NotReadyf("%s cannot be reached: %v", p.addr, err)
	}

	_ = conn.Close()

	return Ready()
}

func joinHostPort(host string, port int) (string, error) {
	if host == "" {
		return "", ErrEmptyHost
	}

	if port < 1 || port > 65535 {
		return "", fmt.Errorf("%w, got %d", ErrInvalidPort, port)
	}

	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}
