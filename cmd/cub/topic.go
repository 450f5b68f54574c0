package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/opsbelt/dockerbelt/internal/config"
	"github.com/opsbelt/dockerbelt/internal/logic/topics"
	"github.com/opsbelt/dockerbelt/internal/logic/waiter"
)

func runEnsureTopic(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ensure-topic", flag.ContinueOnError)
	kf := registerKafkaFlags(fs)

	var (
		partitions  = fs.Int("partitions", 1, "desired partition count")
		replication = fs.Int("replication-factor", 1, "desired replication factor")
		file        = fs.String("file", "", "TOML topic manifest (alternative to a single topic name)")
		timeoutSecs = fs.Int("timeout", 30, "seconds to wait for created topics to become visible")
	)

	topicConfig := map[string]string{}

	fs.Func("config", "topic config override as key=value (repeatable)", func(v string) error {
		k, val, ok := strings.Cut(v, "=")
		if !ok || k == "" {
			return fmt.Errorf("expected key=value, got %q", v)
		}

		topicConfig[k] = val

		return nil
	})

	positionals, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	var specs []topics.TopicSpec

	switch {
	case *file != "" && len(positionals) > 0:
		return fmt.Errorf("give either a topic name or --file, not both")
	case *file != "":
		specs, err = topics.LoadManifest(*file)
		if err != nil {
			return err
		}
	case len(positionals) == 1:
		specs = []topics.TopicSpec{{
			Name:              positionals[0],
			Partitions:        *partitions,
			ReplicationFactor: *replication,
			Config:            topicConfig,
		}}
	default:
		return fmt.Errorf("usage: cub ensure-topic <name> --partitions N --replication-factor R -b <bootstrap>")
	}

	admin, err := kf.adapter(logger, cfg)
	if err != nil {
		return err
	}

	policy := waiter.Policy{
		MaxWait:        time.Duration(*timeoutSecs) * time.Second,
		Interval:       cfg.PollInterval,
		AttemptTimeout: cfg.AttemptTimeout,
	}

	if err := policy.Validate(); err != nil {
		return err
	}

	service := topics.New(logger, admin, policy)

	return service.EnsureAll(ctx, specs)
}
