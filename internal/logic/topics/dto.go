package topics

import "fmt"

// TopicSpec describes the desired shape of one topic. It is request-scoped:
// built from CLI flags or a manifest, consumed by one Ensure call.
type TopicSpec struct {
	Name              string            `toml:"name"`
	Partitions        int               `toml:"partitions"`
	ReplicationFactor int               `toml:"replication_factor"`
	Config            map[string]string `toml:"config"`
}

func (s TopicSpec) Validate() error {
	if s.Name == "" {
		return ErrEmptyName
	}

	if s.Partitions < 1 {
		return fmt.Errorf("topic %q: %w, got %d", s.Name, ErrInvalidPartitions, s.Partitions)
	}

	if s.ReplicationFactor < 1 {
		return fmt.Errorf("topic %q: %w, got %d", s.Name, ErrInvalidReplication, s.ReplicationFactor)
	}

	return nil
}

// TopicMetadata is the broker-reported shape of an existing topic.
type TopicMetadata struct {
	Name              string
	Partitions        int
	ReplicationFactor int
}
