package kafka

import (
	"sort"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/opsbelt/dockerbelt/internal/infra/probe"
	"github.com/opsbelt/dockerbelt/internal/logic/topics"
)

func toDomainBrokers(brokers []kafkago.Broker) []probe.Broker {
	out := make([]probe.Broker, 0, len(brokers))

	for _, b := range brokers {
		out = append(out, probe.Broker{
			ID:   b.ID,
			Host: b.Host,
			Port: b.Port,
		})
	}

	return out
}

func toTopicMetadata(name string, partitions []kafkago.Partition) *topics.TopicMetadata {
	md := &topics.TopicMetadata{
		Name:       name,
		Partitions: len(partitions),
	}

	if len(partitions) > 0 {
		md.ReplicationFactor = len(partitions[0].Replicas)
	}

	return md
}

func toTopicConfig(spec topics.TopicSpec) kafkago.TopicConfig {
	cfg := kafkago.TopicConfig{
		Topic:             spec.Name,
		NumPartitions:     spec.Partitions,
		ReplicationFactor: spec.ReplicationFactor,
	}

	// Sorted for a deterministic request, mostly for the sake of tests and
	// request logs.
	keys := make([]string, 0, len(spec.Config))
	for k := range spec.Config {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		cfg.ConfigEntries = append(cfg.ConfigEntries, kafkago.ConfigEntry{
			ConfigName:  k,
			ConfigValue: spec.Config[k],
		})
	}

	return cfg
}
