package waiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsbelt/dockerbelt/internal/infra/probe"
)

// Outcome reports how a wait ended: the final probe result, how many
// attempts were made and how long the wait took.
type Outcome struct {
	Result   probe.Result
	Attempts int
	Elapsed  time.Duration
}

// WaitFor drives the probe until it is ready, it faults, or the policy's
// deadline expires. The probe is evaluated at least once; a ready result
// returns immediately without a trailing sleep; a fault is never retried.
// The sleep between attempts is interruptible through ctx so external
// cancellation is honored promptly.
func WaitFor(ctx context.Context, logger *slog.Logger, p probe.Probe, policy Policy) (Outcome, error) {
	if err := policy.Validate(); err != nil {
		return Outcome{}, err
	}

	start := time.Now()
	interval := policy.Interval

	for attempts := 1; ; attempts++ {
		result := check(ctx, p, policy.AttemptTimeout)

		outcome := Outcome{
			Result:   result,
			Attempts: attempts,
			Elapsed:  time.Since(start),
		}

		switch result.Status {
		case probe.StatusReady:
			logger.DebugContext(ctx, "probe ready",
				"probe", p.Name(),
				"attempts", attempts,
				"elapsed", outcome.Elapsed,
			)

			return outcome, nil
		case probe.StatusError:
			return outcome, fmt.Errorf("%w: %s: %v", ErrProbeFault, p.Name(), result.Err)
		case probe.StatusNotReady:
		}

		logger.DebugContext(ctx, "probe not ready",
			"probe", p.Name(),
			"attempt", attempts,
			"reason", result.Message(),
		)

		// Stop when another sleep would push the wait past the deadline, so
		// the engine never overshoots MaxWait by more than one attempt.
		if time.Since(start)+interval > policy.MaxWait {
			return outcome, fmt.Errorf("%w: %s after %d attempt(s) in %s: %s",
				ErrTimeout, p.Name(), attempts,
				outcome.Elapsed.Round(time.Millisecond), result.Message())
		}

		select {
		case <-ctx.Done():
			return outcome, fmt.Errorf("%w: %s: %v", ErrInterrupted, p.Name(), ctx.Err())
		case <-time.After(interval):
		}

		interval = policy.nextInterval(interval)
	}
}

// check runs one attempt, bounded by the policy's per-attempt timeout so a
// single hung attempt cannot starve the retry loop's scheduling.
func check(ctx context.Context, p probe.Probe, attemptTimeout time.Duration) probe.Result {
	if attemptTimeout <= 0 {
		return p.Check(ctx)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	return p.Check(attemptCtx)
}
