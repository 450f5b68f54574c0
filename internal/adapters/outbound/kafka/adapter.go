package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/opsbelt/dockerbelt/internal/infra/probe"
	"github.com/opsbelt/dockerbelt/internal/logic/topics"
)

// Adapter implements the probe metadata port and the topic admin port on a
// kafka-go connection. Every call dials, performs one request and closes the
// connection; nothing is cached between attempts.
type Adapter struct {
	logger    *slog.Logger
	dialer    *kafkago.Dialer
	bootstrap []string
}

// New creates a new Kafka adapter for the given bootstrap servers.
func New(
	logger *slog.Logger,
	bootstrap []string,
	security SecurityConfig,
	dialTimeout time.Duration,
) (*Adapter, error) {
	if len(bootstrap) == 0 {
		return nil, errors.New("at least one bootstrap server required")
	}

	dialer, err := newDialer(security, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("build dialer: %w", err)
	}

	return &Adapter{
		logger:    logger,
		dialer:    dialer,
		bootstrap: bootstrap,
	}, nil
}

var _ probe.ClusterClient = (*Adapter)(nil)
var _ topics.Admin = (*Adapter)(nil)

func (a *Adapter) BrokersQuery(ctx context.Context) ([]probe.Broker, error) {
	conn, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	brokers, err := conn.Brokers()
	if err != nil {
		return nil, fmt.Errorf("read brokers: %w", err)
	}

	return toDomainBrokers(brokers), nil
}

func (a *Adapter) TopicPartitionsQuery(
	ctx context.Context,
	topic string,
) (int, error) {
	md, err := a.TopicMetadataQuery(ctx, topic)
	if err != nil {
		return 0, err
	}

	return md.Partitions, nil
}

func (a *Adapter) TopicMetadataQuery(
	ctx context.Context,
	name string,
) (*topics.TopicMetadata, error) {
	conn, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(name)
	if err != nil {
		if isUnknownTopic(err) {
			return nil, errTopicNotFound
		}

		return nil, fmt.Errorf("read partitions for %q: %w", name, err)
	}

	// Brokers may briefly report a topic with no partition metadata while
	// creation is still propagating.
	if len(partitions) == 0 {
		return nil, errTopicNotFound
	}

	return toTopicMetadata(name, partitions), nil
}

func (a *Adapter) CreateTopicCommand(
	ctx context.Context,
	spec topics.TopicSpec,
) error {
	conn, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Topic creation must go to the controller broker.
	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("find controller: %w", err)
	}

	controllerAddr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))

	controllerConn, err := a.dial(ctx, controllerAddr)
	if err != nil {
		return fmt.Errorf("dial controller %s: %w", controllerAddr, err)
	}
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(toTopicConfig(spec))
	if err != nil {
		if isAlreadyExists(err) {
			return errTopicExists
		}

		return fmt.Errorf("create topic %q: %w", spec.Name, err)
	}

	return nil
}

// connect dials the first reachable bootstrap server.
func (a *Adapter) connect(ctx context.Context) (*kafkago.Conn, error) {
	var lastErr error

	for _, addr := range a.bootstrap {
		conn, err := a.dial(ctx, addr)
		if err != nil {
			a.logger.DebugContext(ctx, "bootstrap server unreachable",
				"addr", addr,
				"reason", err,
			)

			lastErr = err

			continue
		}

		return conn, nil
	}

	return nil, fmt.Errorf("no bootstrap server reachable: %w", lastErr)
}

func (a *Adapter) dial(ctx context.Context, addr string) (*kafkago.Conn, error) {
	conn, err := a.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()

			return nil, fmt.Errorf("set deadline: %w", err)
		}
	}

	return conn, nil
}

func isUnknownTopic(err error) bool {
	var kerr kafkago.Error

	return errors.As(err, &kerr) && kerr == kafkago.UnknownTopicOrPartition
}

func isAlreadyExists(err error) bool {
	var kerr kafkago.Error

	return errors.As(err, &kerr) && kerr == kafkago.TopicAlreadyExists
}

// ParseBootstrapServers splits a host:port[,host:port...] bootstrap list.
func ParseBootstrapServers(servers string) ([]string, error) {
	var addrs []string

	for _, part := range strings.Split(servers, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if _, _, err := net.SplitHostPort(part); err != nil {
			return nil, fmt.Errorf("parse bootstrap server %q: %w", part, err)
		}

		addrs = append(addrs, part)
	}

	if len(addrs) == 0 {
		return nil, errors.New("bootstrap server list is empty")
	}

	return addrs, nil
}
