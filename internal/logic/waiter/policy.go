package waiter

import (
	"fmt"
	"time"
)

// Policy is the pure data governing how long and how often a probe is
// retried. One generic engine consumes it; probes never carry retry logic.
type Policy struct {
	// MaxWait bounds the total wait. Zero means exactly one attempt.
	MaxWait time.Duration

	// Interval is the initial delay between attempts.
	Interval time.Duration

	// AttemptTimeout bounds a single probe attempt. Zero leaves the attempt
	// bounded only by the caller's context.
	AttemptTimeout time.Duration

	// BackoffFactor multiplies the interval after every attempt. Values
	// below 1 are rejected; 0 is treated as fixed-interval polling.
	BackoffFactor float64

	// MaxInterval caps the interval once backoff is applied. Zero means
	// uncapped.
	MaxInterval time.Duration
}

// NewPolicy builds a fixed-interval policy. Invalid durations are rejected
// here, at construction time, so they are never retried by the engine.
func NewPolicy(maxWait, interval, attemptTimeout time.Duration) (Policy, error) {
	p := Policy{
		MaxWait:        maxWait,
		Interval:       interval,
		AttemptTimeout: attemptTimeout,
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}

	return p, nil
}

func (p Policy) Validate() error {
	if p.Interval <= 0 {
		return fmt.Errorf("%w: interval %s", ErrInvalidPolicy, p.Interval)
	}

	if p.MaxWait < 0 {
		return fmt.Errorf("%w: max wait %s", ErrInvalidPolicy, p.MaxWait)
	}

	if p.AttemptTimeout < 0 {
		return fmt.Errorf("%w: attempt timeout %s", ErrInvalidPolicy, p.AttemptTimeout)
	}

	if p.BackoffFactor != 0 && p.BackoffFactor < 1 {
		return fmt.Errorf("%w: backoff factor %v", ErrInvalidPolicy, p.BackoffFactor)
	}

	if p.MaxInterval < 0 {
		return fmt.Errorf("%w: max interval %s", ErrInvalidPolicy, p.MaxInterval)
	}

	return nil
}

// nextInterval applies the backoff factor to the current interval, capped at
// MaxInterval when set.
func (p Policy) nextInterval(current time.Duration) time.Duration {
	if p.BackoffFactor <= 1 {
		return current
	}

	next := time.Duration(float64(current) * p.BackoffFactor)
	if p.MaxInterval > 0 && next > p.MaxInterval {
		next = p.MaxInterval
	}

	return next
}
