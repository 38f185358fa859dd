package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/event"
	"github.com/JWang8249/credit-risk-pipeline/internal/domain/model"
)

// MessagePublisher is satisfied by *Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, topic string, messages ...Message) error
}

// Publisher sends PredictionCompleted events to Kafka, keyed by prediction
// ID. It is wired into the audit fan-out as a sink.
type Publisher struct {
	producer MessagePublisher
	logger   *slog.Logger
	topic    string
}

// NewPublisher creates a new Kafka event publisher.
func NewPublisher(producer MessagePublisher, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends prediction events to Kafka.
func (p *Publisher) Publish(ctx context.Context, events ...event.PredictionCompleted) error {
	messages := make([]Message, 0, len(events))
	for _, evt := range events {
		eventType := evt.EventType()

		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
		}

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", eventType),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(payload)),
		)

		messages = append(messages, Message{
			Key:   []byte(evt.AggregateID().String()),
			Value: payload,
			Headers: map[string]string{
				"event_type":   eventType,
				"content-type": "application/json",
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}

	return nil
}

// Name identifies the sink in logs and metrics.
func (p *Publisher) Name() string { return "kafka" }

// Record publishes a PredictionCompleted event for an audit record, so the
// publisher can sit next to the database in the audit fan-out.
func (p *Publisher) Record(ctx context.Context, rec model.AuditRecord) error {
	return p.Publish(ctx, event.NewPredictionCompleted(rec))
}
