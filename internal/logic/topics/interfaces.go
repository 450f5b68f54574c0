package topics

import "context"

// Admin is the port interface for Kafka topic administration.
// Implementations are provided by adapters in the outbound layer.
type Admin interface {
	TopicMetadataQuery(
		ctx context.Context,
		name string,
	) (*TopicMetadata, error)

	CreateTopicCommand(
		ctx context.Context,
		spec TopicSpec,
	) error
}

// notFound is a private interface for checking "unknown topic" errors
// without importing the adapter package.
type notFound interface {
	IsNotFound()
}

// alreadyExists is a private interface for the benign create race: another
// caller created the topic between our metadata query and create request.
type alreadyExists interface {
	IsAlreadyExists()
}
