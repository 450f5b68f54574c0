package probe

import "errors"

var (
	ErrEmptyHost   = errors.New("host must not be empty")
	ErrInvalidPort = errors.New("port must be in range 1-65535")
	ErrEmptyPath   = errors.New("path must not be empty")
	ErrEmptyTopic  = errors.New("topic must not be empty")
	ErrNoTargets   = errors.New("at least one target required")
)
