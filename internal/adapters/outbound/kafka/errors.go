package kafka

// TopicNotFoundError represents an "unknown topic" case that is not a hard
// failure: readiness probes treat it as not-yet-ready, the ensurer as
// not-yet-created.
type TopicNotFoundError struct{}

func (e *TopicNotFoundError) Error() string {
	return "topic not found"
}

func (e *TopicNotFoundError) IsNotFound() {}

var errTopicNotFound = &TopicNotFoundError{}

// TopicExistsError represents the benign create race: the topic appeared
// between the metadata query and the create request.
type TopicExistsError struct{}

func (e *TopicExistsError) Error() string {
	return "topic already exists"
}

func (e *TopicExistsError) IsAlreadyExists() {}

var errTopicExists = &TopicExistsError{}
