package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	zkCommand  = "ruok"
	zkResponse = "imok"
)

// ZooKeeperProbe sends the four-letter ruok command over a short-lived
// connection and expects imok back.
type ZooKeeperProbe struct {
	addr    string
	timeout time.Duration
}

func NewZooKeeper(host string, port int, timeout time.Duration) (*ZooKeeperProbe, error) {
	addr, err := joinHostPort(host, port)
	if err != nil {
		return nil, err
	}

	return &ZooKeeperProbe{addr: addr, timeout: timeout}, nil
}

func (p *ZooKeeperProbe) Name() string {
	return "zookeeper " + p.addr
}

func (p *ZooKeeperProbe) Check(ctx context.Context) Result {
	dialer := net.Dialer{Timeout: p.timeout}

	conn, err := dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return NotReadyf("%s cannot be reached: %v", p.addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := conn.SetDeadline(deadline); err != nil {
		return NotReadyf("%s: set deadline: %v", p.addr, err)
	}

	if _, err := conn.Write([]byte(zkCommand)); err != nil {
		return NotReadyf("%s: send %s: %v", p.addr, zkCommand, err)
	}

	// ZooKeeper answers the four-letter word and closes the connection.
	response, err := io.ReadAll(conn)
	if err != nil && len(response) == 0 {
		return NotReadyf("%s: no response to %s: %v", p.addr, zkCommand, err)
	}

	if !strings.Contains(string(response), zkResponse) {
		return NotReadyf("%s answered %q, want %q", p.addr, strings.TrimSpace(string(response)), zkResponse)
	}

	return Ready()
}

// NewZooKeeperEnsemble builds a probe for a ZooKeeper connect string
// (host:port[,host:port...]). Multi-host strings aggregate per-host probes
// with an all-must-be-ready policy.
func NewZooKeeperEnsemble(connect string, timeout time.Duration) (Probe, error) {
	targets, err := ParseConnectString(connect)
	if err != nil {
		return nil, err
	}

	probes := make([]Probe, 0, len(targets))

	for _, target := range targets {
		zk, err := NewZooKeeper(target.Host, target.Port, timeout)
		if err != nil {
			return nil, err
		}

		probes = append(probes, zk)
	}

	if len(probes) == 1 {
		return probes[0], nil
	}

	return All("zookeeper ensemble "+connect, probes...), nil
}

// Target is one host:port endpoint parsed from a connect string.
type Target struct {
	Host string
	Port int
}

// ParseConnectString splits a host:port[,host:port...] connect string.
func ParseConnectString(connect string) ([]Target, error) {
	var targets []Target

	for _, part := range strings.Split(connect, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		host, portStr, err := net.SplitHostPort(part)
		if err != nil {
			return nil, fmt.Errorf("parse connect string entry %q: %w", part, err)
		}

		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("parse connect string entry %q: %w", part, err)
		}

		if host == "" {
			return nil, fmt.Errorf("parse connect string entry %q: %w", part, ErrEmptyHost)
		}

		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("parse connect string entry %q: %w", part, ErrInvalidPort)
		}

		targets = append(targets, Target{Host: host, Port: port})
	}

	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	return targets, nil
}
