package probe

import (
	"context"
	"errors"
	"fmt"
)

// Broker represents a registered Kafka broker in the domain layer.
type Broker struct {
	ID   int
	Host string
	Port int
}

// BrokersProbe is Ready when the cluster reports at least minBrokers
// registered brokers.
type BrokersProbe struct {
	cluster    ClusterClient
	minBrokers int
}

func NewKafkaBrokers(cluster ClusterClient, minBrokers int) (*BrokersProbe, error) {
	if cluster == nil {
		return nil, errors.New("cluster client must not be nil")
	}

	if minBrokers < 1 {
		return nil, fmt.Errorf("expected broker count must be at least 1, got %d", minBrokers)
	}

	return &BrokersProbe{cluster: cluster, minBrokers: minBrokers}, nil
}

func (p *BrokersProbe) Name() string {
	return fmt.Sprintf("kafka %d broker(s)", p.minBrokers)
}

func (p *BrokersProbe) Check(ctx context.Context) Result {
	brokers, err := p.cluster.BrokersQuery(ctx)
	if err != nil {
		return NotReadyf("cluster metadata unavailable: %v", err)
	}

	if len(brokers) < p.minBrokers {
		return NotReadyf("%d of %d expected brokers registered", len(brokers), p.minBrokers)
	}

	return Ready()
}

// TopicProbe is Ready when the named topic appears in cluster metadata.
type TopicProbe struct {
	cluster ClusterClient
	topic   string
}

func NewKafkaTopic(cluster ClusterClient, topic string) (*TopicProbe, error) {
	if cluster == nil {
		return nil, errors.New("cluster client must not be nil")
	}

	if topic == "" {
		return nil, ErrEmptyTopic
	}

	return &TopicProbe{cluster: cluster, topic: topic}, nil
}

func (p *TopicProbe) Name() string {
	return "kafka topic " + p.topic
}

func (p *TopicProbe) Check(ctx context.Context) Result {
	partitions, err := p.cluster.TopicPartitionsQuery(ctx, p.topic)
	if err != nil {
		var nf notFound
		if errors.As(err, &nf) {
			return NotReadyf("topic %q not in cluster metadata", p.topic)
		}

		return NotReadyf("topic metadata unavailable: %v", err)
	}

	if partitions < 1 {
		return NotReadyf("topic %q has no partitions yet", p.topic)
	}

	return Ready()
}
