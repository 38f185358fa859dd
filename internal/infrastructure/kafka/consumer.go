package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/event"
	"github.com/JWang8249/credit-risk-pipeline/internal/domain/valueobject"
)

// EventHandler processes a consumed prediction event.
type EventHandler func(ctx context.Context, evt event.PredictionCompleted) error

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads PredictionCompleted events from a topic.
type Consumer struct {
	reader  MessageReader
	handler EventHandler
	logger  *slog.Logger
	commit  bool
}

// NewConsumer creates a Consumer for topic. With an empty group the reader
// starts at the newest offset and nothing is committed.
func NewConsumer(cfg Config, topic, group string, handler EventHandler, logger *slog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}

	readerCfg := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  group,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024, // 10 MB
	}
	if group == "" {
		readerCfg.StartOffset = kafkago.LastOffset
	}

	dialer, err := cfg.dialer()
	if err != nil {
		return nil, err
	}
	if dialer != nil {
		readerCfg.Dialer = dialer
	}

	return newConsumer(kafkago.NewReader(readerCfg), handler, group != "", logger), nil
}

func newConsumer(reader MessageReader, handler EventHandler, commit bool, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader:  reader,
		handler: handler,
		logger:  logger,
		commit:  commit,
	}
}

// Start consumes events until the context is canceled. Messages of other
// event types and undecodable payloads are skipped.
func (c *Consumer) Start(ctx context.Context) error {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumer stopping due to context cancellation")
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		if err := c.handle(ctx, m); err != nil {
			c.logger.Error("handler error",
				"topic", m.Topic,
				"partition", m.Partition,
				"offset", m.Offset,
				"error", err,
			)
			continue
		}

		if !c.commit {
			continue
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit error",
				"topic", m.Topic,
				"partition", m.Partition,
				"offset", m.Offset,
				"error", err,
			)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, m kafkago.Message) error {
	if t := headerValue(m.Headers, "event_type"); t != "" && t != event.EventTypePredictionCompleted {
		c.logger.Debug("skipping event", "event_type", t, "offset", m.Offset)
		return nil
	}

	var evt event.PredictionCompleted
	if err := json.Unmarshal(m.Value, &evt); err != nil {
		c.logger.Warn("skipping undecodable event", "offset", m.Offset, "error", err)
		return nil
	}
	if _, err := valueobject.RiskCategoryFromString(evt.Risk); err != nil {
		c.logger.Warn("skipping event with unknown risk category", "offset", m.Offset, "error", err)
		return nil
	}
	return c.handler(ctx, evt)
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}

func headerValue(headers []kafkago.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
