package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkaadapter "github.com/opsbelt/dockerbelt/internal/adapters/outbound/kafka"
	"github.com/opsbelt/dockerbelt/internal/config"
	"github.com/opsbelt/dockerbelt/internal/infra/probe"
	"github.com/opsbelt/dockerbelt/internal/logic/waiter"
)

// await drives a probe with the standard policy and logs the outcome.
func await(ctx context.Context, logger *slog.Logger, cfg *config.Config, p probe.Probe, maxWait time.Duration) error {
	policy := waiter.Policy{
		MaxWait:        maxWait,
		Interval:       cfg.PollInterval,
		AttemptTimeout: cfg.AttemptTimeout,
	}

	outcome, err := waiter.WaitFor(ctx, logger, p, policy)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "ready",
		"probe", p.Name(),
		"attempts", outcome.Attempts,
		"elapsed", outcome.Elapsed.Round(time.Millisecond),
	)

	return nil
}

func runZkReady(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("zk-ready", flag.ContinueOnError)

	positionals, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	if len(positionals) != 2 {
		return fmt.Errorf("usage: cub zk-ready <connect_string> <timeout>")
	}

	timeout, err := parseTimeoutSeconds(positionals[1])
	if err != nil {
		return err
	}

	zk, err := probe.NewZooKeeperEnsemble(positionals[0], cfg.AttemptTimeout)
	if err != nil {
		return err
	}

	return await(ctx, logger, cfg, zk, timeout)
}

// kafkaFlags are the connection flags shared by the Kafka-backed actions.
type kafkaFlags struct {
	bootstrap string
	security  kafkaadapter.SecurityConfig
}

func registerKafkaFlags(fs *flag.FlagSet) *kafkaFlags {
	kf := &kafkaFlags{}

	fs.StringVar(&kf.bootstrap, "b", "", "bootstrap server list (host:port[,host:port...])")
	fs.StringVar(&kf.bootstrap, "bootstrap-server", "", "bootstrap server list (host:port[,host:port...])")
	fs.StringVar(&kf.security.Protocol, "security-protocol", "", "PLAINTEXT, SSL, SASL_PLAINTEXT or SASL_SSL")
	fs.StringVar(&kf.security.Mechanism, "sasl-mechanism", "", "PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512")
	fs.StringVar(&kf.security.Username, "username", "", "SASL username")
	fs.StringVar(&kf.security.Password, "password", "", "SASL password")
	fs.BoolVar(&kf.security.IgnoreCert, "ignore-cert", false, "skip TLS certificate verification")

	return kf
}

func (kf *kafkaFlags) adapter(logger *slog.Logger, cfg *config.Config) (*kafkaadapter.Adapter, error) {
	if kf.bootstrap == "" {
		return nil, fmt.Errorf("bootstrap server list required (-b host:port)")
	}

	addrs, err := kafkaadapter.ParseBootstrapServers(kf.bootstrap)
	if err != nil {
		return nil, err
	}

	return kafkaadapter.New(logger, addrs, kf.security, cfg.AttemptTimeout)
}

func runKafkaReady(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("kafka-ready", flag.ContinueOnError)
	kf := registerKafkaFlags(fs)

	positionals, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	if len(positionals) != 2 {
		return fmt.Errorf("usage: cub kafka-ready <min_brokers> <timeout> -b <bootstrap>")
	}

	minBrokers, err := strconv.Atoi(positionals[0])
	if err != nil {
		return fmt.Errorf("parse expected broker count %q: %w", positionals[0], err)
	}

	timeout, err := parseTimeoutSeconds(positionals[1])
	if err != nil {
		return err
	}

	cluster, err := kf.adapter(logger, cfg)
	if err != nil {
		return err
	}

	brokers, err := probe.NewKafkaBrokers(cluster, minBrokers)
	if err != nil {
		return err
	}

	return await(ctx, logger, cfg, brokers, timeout)
}

func runTopicReady(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("topic-ready", flag.ContinueOnError)
	kf := registerKafkaFlags(fs)

	positionals, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	if len(positionals) != 2 {
		return fmt.Errorf("usage: cub topic-ready <topic> <timeout> -b <bootstrap>")
	}

	timeout, err := parseTimeoutSeconds(positionals[1])
	if err != nil {
		return err
	}

	cluster, err := kf.adapter(logger, cfg)
	if err != nil {
		return err
	}

	topic, err := probe.NewKafkaTopic(cluster, positionals[0])
	if err != nil {
		return err
	}

	return await(ctx, logger, cfg, topic, timeout)
}

func runTCPReady(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tcp-ready", flag.ContinueOnError)

	positionals, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	if len(positionals) != 3 {
		return fmt.Errorf("usage: cub tcp-ready <host> <port> <timeout>")
	}

	port, err := parsePort(positionals[1])
	if err != nil {
		return err
	}

	timeout, err := parseTimeoutSeconds(positionals[2])
	if err != nil {
		return err
	}

	tcp, err := probe.NewTCP(positionals[0], port, cfg.AttemptTimeout)
	if err != nil {
		return err
	}

	return await(ctx, logger, cfg, tcp, timeout)
}

func runHTTPReady(ctx context.Context, logger *slog.Logger, cfg *config.Config, action string, args []string) error {
	fs := flag.NewFlagSet(action, flag.ContinueOnError)

	var opts probe.HTTPOptions

	fs.BoolVar(&opts.Secure, "secure", false, "use TLS")
	fs.BoolVar(&opts.IgnoreCert, "ignore-cert", false, "skip TLS certificate verification")
	fs.StringVar(&opts.Username, "username", "", "basic auth username")
	fs.StringVar(&opts.Password, "password", "", "basic auth password")

	var path, expect string

	if action == "http-ready" {
		fs.StringVar(&path, "path", "", "request path")
		fs.StringVar(&expect, "expect", "", "substring the response body must contain")
	}

	positionals, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	if len(positionals) != 3 {
		return fmt.Errorf("usage: cub %s <host> <port> <timeout>", action)
	}

	host := positionals[0]

	port, err := parsePort(positionals[1])
	if err != nil {
		return err
	}

	timeout, err := parseTimeoutSeconds(positionals[2])
	if err != nil {
		return err
	}

	var p probe.Probe

	switch action {
	case "sr-ready":
		p, err = probe.NewSchemaRegistry(host, port, cfg.AttemptTimeout, opts)
	case "kr-ready":
		p, err = probe.NewKafkaRest(host, port, cfg.AttemptTimeout, opts)
	case "connect-ready":
		p, err = probe.NewConnect(host, port, cfg.AttemptTimeout, opts)
	case "ksql-server-ready":
		p, err = probe.NewKSQL(host, port, cfg.AttemptTimeout, opts)
	case "control-center-ready":
		p, err = probe.NewControlCenter(host, port, cfg.AttemptTimeout, opts)
	default:
		opts.Path = path
		opts.Expect = expect
		p, err = probe.NewHTTP("http "+host, host, port, cfg.AttemptTimeout, opts)
	}

	if err != nil {
		return err
	}

	return await(ctx, logger, cfg, p, timeout)
}

func runPathWait(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("path-wait", flag.ContinueOnError)

	positionals, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	if len(positionals) < 1 || len(positionals) > 2 {
		return fmt.Errorf("usage: cub path-wait <path> [timeout]")
	}

	timeout := 10 * time.Second

	if len(positionals) == 2 {
		timeout, err = parseTimeoutSeconds(positionals[1])
		if err != nil {
			return err
		}
	}

	file, err := probe.NewFile(positionals[0])
	if err != nil {
		return err
	}

	return await(ctx, logger, cfg, file, timeout)
}
