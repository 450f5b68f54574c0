package probe

import "context"

// Probe is a single readiness check against one target. Implementations must
// be safe to call repeatedly: every Check opens and fully closes its own
// network resources before returning.
type Probe interface {
	Name() string
	Check(ctx context.Context) Result
}

// ClusterClient is the port interface for Kafka cluster metadata.
// Implementations are provided by adapters in the outbound layer.
type ClusterClient interface {
	BrokersQuery(ctx context.Context) ([]Broker, error)

	TopicPartitionsQuery(
		ctx context.Context,
		topic string,
	) (int, error)
}

// notFound is a private interface for checking "unknown topic" errors
// without importing the adapter package.
type notFound interface {
	IsNotFound()
}
