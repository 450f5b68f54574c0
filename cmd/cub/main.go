// Command cub is the container utility belt: readiness checks and small
// administrative actions needed by platform containers at boot. Every
// invocation is a fresh, stateless check; exit code 0 means success and
// diagnostics go to stderr so entrypoints and healthchecks can branch on it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/opsbelt/dockerbelt/internal/config"
	"github.com/opsbelt/dockerbelt/internal/infra/logging"
)

const usage = `usage: cub <action> [arguments]

Readiness actions:
  zk-ready <connect_string> <timeout>        ZooKeeper answers ruok with imok
  kafka-ready <min_brokers> <timeout>        cluster metadata lists enough brokers
  topic-ready <topic> <timeout>              topic appears in cluster metadata
  sr-ready <host> <port> <timeout>           Schema Registry serves /config
  kr-ready <host> <port> <timeout>           REST Proxy serves /topics
  connect-ready <host> <port> <timeout>      Connect worker reports its version
  ksql-server-ready <host> <port> <timeout>  KSQL server serves /info
  control-center-ready <host> <port> <timeout>
  tcp-ready <host> <port> <timeout>          something accepts TCP connections
  http-ready <host> <port> <timeout>         generic HTTP health check
  path-wait <path> [timeout]                 filesystem path exists

Admin actions:
  ensure-topic <name>                        create topic if absent, verify shape
  listeners <advertised_listeners>           derive listeners (hosts -> 0.0.0.0)
  classpath                                  print the resolved CLASSPATH

Timeouts are in seconds. Flags go before or after positional arguments;
see 'cub <action> -h' for per-action flags.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "cub:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)

		return errors.New("no action given")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	action, rest := args[0], args[1:]

	switch action {
	case "zk-ready":
		return runZkReady(ctx, logger, cfg, rest)
	case "kafka-ready":
		return runKafkaReady(ctx, logger, cfg, rest)
	case "topic-ready":
		return runTopicReady(ctx, logger, cfg, rest)
	case "tcp-ready":
		return runTCPReady(ctx, logger, cfg, rest)
	case "sr-ready", "kr-ready", "connect-ready", "ksql-server-ready", "control-center-ready", "http-ready":
		return runHTTPReady(ctx, logger, cfg, action, rest)
	case "path-wait":
		return runPathWait(ctx, logger, cfg, rest)
	case "ensure-topic":
		return runEnsureTopic(ctx, logger, cfg, rest)
	case "listeners":
		return runListeners(stdout, rest)
	case "classpath":
		return runClasspath(stdout, cfg)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stderr, usage)

		return nil
	default:
		fmt.Fprint(os.Stderr, usage)

		return fmt.Errorf("unknown action %q", action)
	}
}

// parseArgs accepts flags before or after the positional arguments, matching
// how this command has historically been invoked from entrypoint scripts.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positionals []string

	i := 0
	for i < len(args) && !strings.HasPrefix(args[i], "-") {
		positionals = append(positionals, args[i])
		i++
	}

	if err := fs.Parse(args[i:]); err != nil {
		return nil, err
	}

	return append(positionals, fs.Args()...), nil
}

func parseTimeoutSeconds(arg string) (time.Duration, error) {
	seconds, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("parse timeout %q: %w", arg, err)
	}

	if seconds < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %d", seconds)
	}

	return time.Duration(seconds) * time.Second, nil
}

func parsePort(arg string) (int, error) {
	port, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("parse port %q: %w", arg, err)
	}

	return port, nil
}
