package probe_test

import (
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsbelt/dockerbelt/internal/infra/probe"
)

// fakeZooKeeper answers every connection's four-letter command with the
// given response and closes, like a real ensemble member.
func fakeZooKeeper(t *testing.T, response string) (string, int) {
	t.Helper()

	ln, host, port := listenerHostPort(t)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			go func(conn net.Conn) {
				defer conn.Close()

				buf := make([]byte, 4)
				if _, err := io.ReadFull(conn, buf); err != nil {
					return
				}

				_, _ = conn.Write([]byte(response))
			}(conn)
		}
	}()

	return host, port
}

func TestZooKeeperProbe(t *testing.T) {
	t.Parallel()

	t.Run("imok means ready", func(t *testing.T) {
		t.Parallel()

		host, port := fakeZooKeeper(t, "imok")

		p, err := probe.NewZooKeeper(host, port, time.Second)
		require.NoError(t, err)

		result := p.Check(t.Context())
		require.Equal(t, probe.StatusReady, result.Status)
	})

	t.Run("other response means not ready", func(t *testing.T) {
		t.Parallel()

		// A node still syncing answers ruok but is not serving requests.
		host, port := fakeZooKeeper(t, "This ZooKeeper instance is not currently serving requests")

		p, err := probe.NewZooKeeper(host, port, time.Second)
		require.NoError(t, err)

		result := p.Check(t.Context())
		require.Equal(t, probe.StatusNotReady, result.Status)
		require.Contains(t, result.Message(), "imok")
	})

	t.Run("unreachable means not ready", func(t *testing.T) {
		t.Parallel()

		ln, host, port := listenerHostPort(t)
		require.NoError(t, ln.Close())

		p, err := probe.NewZooKeeper(host, port, 200*time.Millisecond)
		require.NoError(t, err)

		result := p.Check(t.Context())
		require.Equal(t, probe.StatusNotReady, result.Status)
	})
}

func TestNewZooKeeperEnsemble(t *testing.T) {
	t.Parallel()

	t.Run("all members must answer", func(t *testing.T) {
		t.Parallel()

		okHost, okPort := fakeZooKeeper(t, "imok")
		badHost, badPort := fakeZooKeeper(t, "nope")

		connect := net.JoinHostPort(okHost, strconv.Itoa(okPort)) + "," + net.JoinHostPort(badHost, strconv.Itoa(badPort))

		p, err := probe.NewZooKeeperEnsemble(connect, time.Second)
		require.NoError(t, err)

		result := p.Check(t.Context())
		require.Equal(t, probe.StatusNotReady, result.Status)
		require.Contains(t, result.Message(), "1 of 2 targets not ready")
	})

	t.Run("single member ready", func(t *testing.T) {
		t.Parallel()

		host, port := fakeZooKeeper(t, "imok")

		p, err := probe.NewZooKeeperEnsemble(net.JoinHostPort(host, strconv.Itoa(port)), time.Second)
		require.NoError(t, err)

		result := p.Check(t.Context())
		require.Equal(t, probe.StatusReady, result.Status)
	})
}

func TestParseConnectString(t *testing.T) {
	t.Parallel()

	t.Run("multiple entries", func(t *testing.T) {
		t.Parallel()

		targets, err := probe.ParseConnectString("zk1:2181, zk2:2181,zk3:2181")
		require.NoError(t, err)
		require.Equal(t, []probe.Target{
			{Host: "zk1", Port: 2181},
			{Host: "zk2", Port: 2181},
			{Host: "zk3", Port: 2181},
		}, targets)
	})

	t.Run("missing port rejected", func(t *testing.T) {
		t.Parallel()

		_, err := probe.ParseConnectString("zk1")
		require.Error(t, err)
	})

	t.Run("empty string rejected", func(t *testing.T) {
		t.Parallel()

		_, err := probe.ParseConnectString(" , ")
		require.ErrorIs(t, err, probe.ErrNoTargets)
	})

	t.Run("port out of range rejected", func(t *testing.T) {
		t.Parallel()

		_, err := probe.ParseConnectString("zk1:99999")
		require.ErrorIs(t, err, probe.ErrInvalidPort)
	})
}

