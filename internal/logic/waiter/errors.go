package waiter

import "errors"

var (
	// ErrInvalidPolicy is returned when a wait policy fails validation.
	ErrInvalidPolicy = errors.New("invalid wait policy")

	// ErrTimeout is returned when the deadline expires while the target is
	// still not ready. The last not-ready reason is attached.
	ErrTimeout = errors.New("timed out while not ready")

	// ErrProbeFault is returned when a probe reports an execution fault.
	// Retrying cannot fix a malformed spec, so the engine stops immediately.
	ErrProbeFault = errors.New("probe fault")

	// ErrInterrupted is returned when the caller's context is cancelled
	// before the target became ready.
	ErrInterrupted = errors.New("wait interrupted")
)
