package probe

import "fmt"

// Status classifies the outcome of a single probe attempt.
type Status int

const (
	// StatusReady means the service answered and is usable.
	StatusReady Status = iota

	// StatusNotReady means the probe ran but the service is not yet usable.
	// Network-level failures (refused, timeout, DNS) land here: under
	// orchestration races they are transient, not configuration faults.
	StatusNotReady

	// StatusError means the probe itself could not execute. Never retried.
	StatusError
)

// Result is the tagged outcome of one probe attempt.
type Result struct {
	Status Status
	Reason string
	Err    error
}

func Ready() Result {
	return Result{Status: StatusReady}
}

func NotReadyf(format string, args ...any) Result {
	return Result{Status: StatusNotReady, Reason: fmt.Sprintf(format, args...)}
}

func Fault(err error) Result {
	return Result{Status: StatusError, Err: err}
}

// Message returns the one-line diagnostic for logs and stderr.
func (r Result) Message() string {
	switch r.Status {
	case StatusReady:
		return "ready"
	case StatusError:
		if r.Err != nil {
			return r.Err.Error()
		}

		return "probe error"
	default:
		if r.Reason == "" {
			return "not ready"
		}

		return r.Reason
	}
}
