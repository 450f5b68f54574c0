package topics_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsbelt/dockerbelt/internal/logic/topics"
	"github.com/opsbelt/dockerbelt/internal/logic/waiter"
)

type notFoundError struct{}

func (notFoundError) Error() string { return "topic not found" }

func (notFoundError) IsNotFound() {}

type existsError struct{}

func (existsError) Error() string { return "topic already exists" }

func (existsError) IsAlreadyExists() {}

// fakeAdmin is a broker stand-in: created topics become visible after
// visibleAfter additional metadata queries, and concurrent creates of the
// same topic surface the broker's already-exists race.
type fakeAdmin struct {
	mu           sync.Mutex
	topics       map[string]topics.TopicMetadata
	pending      map[string]int
	visibleAfter int
	creates      int
}

func newFakeAdmin() *fakeAdmin {
	return &fakeAdmin{
		topics:  make(map[string]topics.TopicMetadata),
		pending: make(map[string]int),
	}
}

func (f *fakeAdmin) TopicMetadataQuery(_ context.Context, name string) (*topics.TopicMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if remaining, ok := f.pending[name]; ok {
		if remaining > 0 {
			f.pending[name] = remaining - 1

			return nil, notFoundError{}
		}

		delete(f.pending, name)
	}

	md, ok := f.topics[name]
	if !ok {
		return nil, notFoundError{}
	}

	return &md, nil
}

func (f *fakeAdmin) CreateTopicCommand(_ context.Context, spec topics.TopicSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.topics[spec.Name]; ok {
		return existsError{}
	}

	f.creates++
	f.topics[spec.Name] = topics.TopicMetadata{
		Name:              spec.Name,
		Partitions:        spec.Partitions,
		ReplicationFactor: spec.ReplicationFactor,
	}

	if f.visibleAfter > 0 {
		f.pending[spec.Name] = f.visibleAfter
	}

	return nil
}

func testPolicy() waiter.Policy {
	return waiter.Policy{MaxWait: time.Second, Interval: 5 * time.Millisecond}
}

func TestServiceEnsure(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	spec := topics.TopicSpec{Name: "orders", Partitions: 6, ReplicationFactor: 3}

	t.Run("absent topic is created and awaited", func(t *testing.T) {
		t.Parallel()

		admin := newFakeAdmin()
		svc := topics.New(logger, admin, testPolicy())

		err := svc.Ensure(t.Context(), spec)
		require.NoError(t, err)
		require.Equal(t, 1, admin.creates)
	})

	t.Run("existing matching topic is a no-op", func(t *testing.T) {
		t.Parallel()

		admin := newFakeAdmin()
		admin.topics["orders"] = topics.TopicMetadata{Name: "orders", Partitions: 6, ReplicationFactor: 3}

		svc := topics.New(logger, admin, testPolicy())

		err := svc.Ensure(t.Context(), spec)
		require.NoError(t, err)
		require.Zero(t, admin.creates)
	})

	t.Run("partition mismatch fails without touching the broker", func(t *testing.T) {
		t.Parallel()

		admin := newFakeAdmin()
		admin.topics["orders"] = topics.TopicMetadata{Name: "orders", Partitions: 3, ReplicationFactor: 3}

		svc := topics.New(logger, admin, testPolicy())

		err := svc.Ensure(t.Context(), spec)
		require.ErrorIs(t, err, topics.ErrConfigMismatch)
		require.Zero(t, admin.creates)
		require.Equal(t, 3, admin.topics["orders"].Partitions)
	})

	t.Run("delayed visibility is polled through", func(t *testing.T) {
		t.Parallel()

		admin := newFakeAdmin()
		admin.visibleAfter = 3

		svc := topics.New(logger, admin, testPolicy())

		err := svc.Ensure(t.Context(), spec)
		require.NoError(t, err)
	})

	t.Run("never visible times out", func(t *testing.T) {
		t.Parallel()

		admin := newFakeAdmin()
		admin.visibleAfter = 1 << 30

		svc := topics.New(logger, admin, waiter.Policy{MaxWait: 20 * time.Millisecond, Interval: 5 * time.Millisecond})

		err := svc.Ensure(t.Context(), spec)
		require.ErrorIs(t, err, waiter.ErrTimeout)
	})

	t.Run("concurrent creates both succeed, one topic created", func(t *testing.T) {
		t.Parallel()

		admin := newFakeAdmin()
		svc := topics.New(logger, admin, testPolicy())

		var wg sync.WaitGroup

		errs := make([]error, 2)

		for i := range errs {
			wg.Add(1)

			go func(i int) {
				defer wg.Done()

				errs[i] = svc.Ensure(t.Context(), spec)
			}(i)
		}

		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])
		require.Equal(t, 1, admin.creates)
	})

	t.Run("invalid spec rejected before any broker call", func(t *testing.T) {
		t.Parallel()

		admin := newFakeAdmin()
		svc := topics.New(logger, admin, testPolicy())

		err := svc.Ensure(t.Context(), topics.TopicSpec{Name: "", Partitions: 1, ReplicationFactor: 1})
		require.ErrorIs(t, err, topics.ErrEmptyName)

		err = svc.Ensure(t.Context(), topics.TopicSpec{Name: "x", Partitions: 0, ReplicationFactor: 1})
		require.ErrorIs(t, err, topics.ErrInvalidPartitions)

		err = svc.Ensure(t.Context(), topics.TopicSpec{Name: "x", Partitions: 1, ReplicationFactor: 0})
		require.ErrorIs(t, err, topics.ErrInvalidReplication)
	})
}

func TestServiceEnsureAll(t *testing.T) {
	t.Parallel()

	logger := slog.Default()
	admin := newFakeAdmin()
	svc := topics.New(logger, admin, testPolicy())

	specs := []topics.TopicSpec{
		{Name: "a", Partitions: 1, ReplicationFactor: 1},
		{Name: "b", Partitions: 2, ReplicationFactor: 1},
	}

	require.NoError(t, svc.EnsureAll(t.Context(), specs))
	require.Equal(t, 2, admin.creates)
}
