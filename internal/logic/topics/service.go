package topics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/opsbelt/dockerbelt/internal/infra/probe"
	"github.com/opsbelt/dockerbelt/internal/logic/waiter"
)

// Service ensures topics exist with their desired shape. Ensure is
// idempotent: repeated or concurrent invocations for the same spec converge
// on one created topic and all report success.
type Service struct {
	logger *slog.Logger
	admin  Admin
	policy waiter.Policy
}

// New creates a new topic ensure service. The policy governs how long a
// freshly created topic is polled for metadata visibility.
func New(
	logger *slog.Logger,
	admin Admin,
	policy waiter.Policy,
) *Service {
	return &Service{
		logger: logger,
		admin:  admin,
		policy: policy,
	}
}

// Ensure makes the topic exist with the spec's partition count.
func (s *Service) Ensure(ctx context.Context, spec TopicSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	existing, err := s.admin.TopicMetadataQuery(ctx, spec.Name)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("query topic %q: %w", spec.Name, err)
	}

	if existing != nil {
		if existing.Partitions != spec.Partitions {
			return fmt.Errorf("%w: topic %q has %d partitions, want %d",
				ErrConfigMismatch, spec.Name, existing.Partitions, spec.Partitions)
		}

		s.logger.InfoContext(ctx, "topic already present",
			"topic", spec.Name,
			"partitions", existing.Partitions,
		)

		return nil
	}

	if err := s.admin.CreateTopicCommand(ctx, spec); err != nil {
		var exists alreadyExists
		if !errors.As(err, &exists) {
			return fmt.Errorf("create topic %q: %w", spec.Name, err)
		}

		// Benign race: a concurrent caller created it first. Fall through to
		// the visibility wait.
		s.logger.InfoContext(ctx, "topic created concurrently elsewhere", "topic", spec.Name)
	} else {
		s.logger.InfoContext(ctx, "topic create requested",
			"topic", spec.Name,
			"partitions", spec.Partitions,
			"replication", spec.ReplicationFactor,
		)
	}

	// Creation is asynchronous on the broker side; wait until the topic
	// shows up in metadata before declaring success.
	outcome, err := waiter.WaitFor(ctx, s.logger, &visibilityProbe{admin: s.admin, topic: spec.Name}, s.policy)
	if err != nil {
		return fmt.Errorf("topic %q not visible: %w", spec.Name, err)
	}

	s.logger.InfoContext(ctx, "topic visible",
		"topic", spec.Name,
		"attempts", outcome.Attempts,
		"elapsed", outcome.Elapsed,
	)

	return nil
}

// EnsureAll applies Ensure to every spec in order, stopping at the first
// failure.
func (s *Service) EnsureAll(ctx context.Context, specs []TopicSpec) error {
	for _, spec := range specs {
		if err := s.Ensure(ctx, spec); err != nil {
			return err
		}
	}

	return nil
}

func isNotFound(err error) bool {
	var nf notFound

	return errors.As(err, &nf)
}

// visibilityProbe reports Ready once the topic appears in cluster metadata.
type visibilityProbe struct {
	admin Admin
	topic string
}

func (p *visibilityProbe) Name() string {
	return "topic " + p.topic
}

func (p *visibilityProbe) Check(ctx context.Context) probe.Result {
	md, err := p.admin.TopicMetadataQuery(ctx, p.topic)
	if err != nil {
		if isNotFound(err) {
			return probe.NotReadyf("topic %q not in cluster metadata", p.topic)
		}

		return probe.NotReadyf("topic metadata unavailable: %v", err)
	}

	if md == nil || md.Partitions < 1 {
		return probe.NotReadyf("topic %q has no partitions yet", p.topic)
	}

	return probe.Ready()
}
