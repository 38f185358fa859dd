package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// EventBroker is a disposable single-node Kafka broker for event tests.
type EventBroker struct {
	Brokers []string
}

// NewEventBroker starts a KRaft broker with topic auto-creation enabled.
// The container is terminated when t finishes.
func NewEventBroker(ctx context.Context, t *testing.T) *EventBroker {
	t.Helper()

	container, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.6.1",
		kafka.WithClusterID("credit-risk-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { terminate(t, "kafka", container) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	return &EventBroker{Brokers: brokers}
}
