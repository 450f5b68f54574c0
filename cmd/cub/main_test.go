package main

import (
	"flag"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsbelt/dockerbelt/internal/logic/waiter"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	newSet := func() (*flag.FlagSet, *string) {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		b := fs.String("b", "", "")

		return fs, b
	}

	t.Run("flags after positionals", func(t *testing.T) {
		t.Parallel()

		fs, b := newSet()

		positionals, err := parseArgs(fs, []string{"3", "40", "-b", "kafka:9092"})
		require.NoError(t, err)
		require.Equal(t, []string{"3", "40"}, positionals)
		require.Equal(t, "kafka:9092", *b)
	})

	t.Run("flags before positionals", func(t *testing.T) {
		t.Parallel()

		fs, b := newSet()

		positionals, err := parseArgs(fs, []string{"-b", "kafka:9092", "3", "40"})
		require.NoError(t, err)
		require.Equal(t, []string{"3", "40"}, positionals)
		require.Equal(t, "kafka:9092", *b)
	})

	t.Run("positionals only", func(t *testing.T) {
		t.Parallel()

		fs, _ := newSet()

		positionals, err := parseArgs(fs, []string{"zookeeper:2181", "30"})
		require.NoError(t, err)
		require.Equal(t, []string{"zookeeper:2181", "30"}, positionals)
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		fs, _ := newSet()
		fs.SetOutput(&strings.Builder{})

		_, err := parseArgs(fs, []string{"3", "--nope"})
		require.Error(t, err)
	})
}

func TestParseTimeoutSeconds(t *testing.T) {
	t.Parallel()

	d, err := parseTimeoutSeconds("40")
	require.NoError(t, err)
	require.Equal(t, 40*time.Second, d)

	_, err = parseTimeoutSeconds("-1")
	require.ErrorContains(t, err, "negative")

	_, err = parseTimeoutSeconds("soon")
	require.ErrorContains(t, err, "parse timeout")
}

// No t.Parallel in the run tests: they rely on t.Setenv.
func TestRunListeners(t *testing.T) {
	var out strings.Builder

	err := run(t.Context(), []string{"listeners", "PLAINTEXT://kafka-1:9092,SSL://kafka-1:9093"}, &out)
	require.NoError(t, err)
	require.Equal(t, "PLAINTEXT://0.0.0.0:9092,SSL://0.0.0.0:9093\n", out.String())
}

func TestRunClasspath(t *testing.T) {
	t.Setenv("CUB_CLASSPATH_DIRS", "/opt/app/libs")

	var out strings.Builder

	err := run(t.Context(), []string{"classpath"}, &out)
	require.NoError(t, err)
	require.Equal(t, "\"/usr/share/java/cp-base/*:/usr/share/java/cp-base-new/*:/opt/app/libs/*\"\n", out.String())
}

func TestRunPathWait(t *testing.T) {
	t.Setenv("CUB_POLL_INTERVAL", "200ms")
	t.Setenv("CUB_ATTEMPT_TIMEOUT", "50ms")

	t.Run("appears while waiting", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kafka.properties")

		go func() {
			time.Sleep(300 * time.Millisecond)

			_ = os.WriteFile(path, []byte("ok"), 0o600)
		}()

		var out strings.Builder

		err := run(t.Context(), []string{"path-wait", path, "5"}, &out)
		require.NoError(t, err)
	})

	t.Run("never appears", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent")

		var out strings.Builder

		err := run(t.Context(), []string{"path-wait", path, "1"}, &out)
		require.ErrorIs(t, err, waiter.ErrTimeout)
	})
}

func TestRunTCPReady(t *testing.T) {
	t.Setenv("CUB_POLL_INTERVAL", "200ms")
	t.Setenv("CUB_ATTEMPT_TIMEOUT", "50ms")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	var out strings.Builder

	require.NoError(t, run(t.Context(), []string{"tcp-ready", host, port, "5"}, &out))

	err = run(t.Context(), []string{"tcp-ready", host, "1", "0"}, &out)
	require.ErrorIs(t, err, waiter.ErrTimeout)
}

func TestRunUnknownAction(t *testing.T) {
	var out strings.Builder

	err := run(t.Context(), []string{"frobnicate"}, &out)
	require.ErrorContains(t, err, `unknown action "frobnicate"`)
}

func TestRunNoAction(t *testing.T) {
	var out strings.Builder

	err := run(t.Context(), nil, &out)
	require.ErrorContains(t, err, "no action given")
}
