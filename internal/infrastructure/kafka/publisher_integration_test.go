//go:build integration

package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/event"
	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/kafka"
	"github.com/JWang8249/credit-risk-pipeline/internal/testutil"
)

func TestPublishConsume_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := testutil.NewEventBroker(ctx, t)
	const topic = "credit-risk.predictions"
	cfg := kafka.Config{Brokers: broker.Brokers}

	producer, err := kafka.NewProducer(cfg)
	require.NoError(t, err)
	defer producer.Close()

	pub := kafka.NewPublisher(producer, topic, testLogger())
	rec := testRecord(t)
	require.Eventually(t, func() bool {
		return pub.Record(ctx, rec) == nil
	}, 30*time.Second, time.Second, "topic is auto-created on first write")

	consumeCtx, stop := context.WithCancel(ctx)
	defer stop()

	var got []event.PredictionCompleted
	consumer, err := kafka.NewConsumer(cfg, topic, "integration-test", func(_ context.Context, evt event.PredictionCompleted) error {
		got = append(got, evt)
		stop()
		return nil
	}, testLogger())
	require.NoError(t, err)
	defer consumer.Close()

	require.NoError(t, consumer.Start(consumeCtx))

	require.Len(t, got, 1)
	assert.Equal(t, rec.PredictionID(), got[0].PredictionID)
	assert.Equal(t, "High Risk", got[0].Risk)
	assert.Equal(t, "120000.00", got[0].CreditLimit)
}
