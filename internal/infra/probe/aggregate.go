package probe

import (
	"context"
	"strings"
	"sync"
)

// allProbe evaluates member probes concurrently and is Ready only when every
// member is Ready.
type allProbe struct {
	name   string
	probes []Probe
}

// All aggregates probes with an all-must-be-ready policy. Members run
// concurrently so a slow target does not serialize the attempt.
func All(name string, probes ...Probe) Probe {
	return &allProbe{name: name, probes: probes}
}

func (a *allProbe) Name() string {
	return a.name
}

func (a *allProbe) Check(ctx context.Context) Result {
	results := make([]Result, len(a.probes))

	var wg sync.WaitGroup

	for i, member := range a.probes {
		wg.Add(1)

		go func(i int, member Probe) {
			defer wg.Done()

			results[i] = member.Check(ctx)
		}(i, member)
	}

	wg.Wait()

	var reasons []string

	for i, result := range results {
		switch result.Status {
		case StatusError:
			// A malformed member spec fails the whole aggregate, unretried.
			return result
		case StatusNotReady:
			reasons = append(reasons, a.probes[i].Name()+": "+result.Message())
		case StatusReady:
		}
	}

	if len(reasons) > 0 {
		return NotReadyf("%d of %d targets not ready: %s",
			len(reasons), len(a.probes), strings.Join(reasons, "; "))
	}

	return Ready()
}
