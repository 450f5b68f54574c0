package topics

import "errors"

var (
	ErrEmptyName          = errors.New("topic name must not be empty")
	ErrInvalidPartitions  = errors.New("partition count must be at least 1")
	ErrInvalidReplication = errors.New("replication factor must be at least 1")

	// ErrConfigMismatch is returned when the topic already exists with an
	// incompatible partition count. Nothing on the broker is modified;
	// destructive recreation is out of scope.
	ErrConfigMismatch = errors.New("topic exists with different configuration")
)
