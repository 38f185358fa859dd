package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	urfave "github.com/urfave/cli/v2"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/event"
	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/config"
	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/kafka"
)

var (
	topicFlag = &urfave.StringFlag{
		Name:  "topic",
		Usage: "Topic to read (default: KAFKA_TOPIC)",
	}

	groupFlag = &urfave.StringFlag{
		Name:  "group",
		Usage: "Consumer group; without one reading starts at the newest offset",
	}

	limitFlag = &urfave.IntFlag{
		Name:  "limit",
		Usage: "Stop after this many events (0 = until interrupted)",
	}

	eventsCmd = &urfave.Command{
		Name:  "events",
		Usage: "Inspect published prediction events",
		Subcommands: []*urfave.Command{
			{
				Name:   "tail",
				Usage:  "Print prediction events as JSON lines",
				Action: cmdEventsTail,
				Flags: []urfave.Flag{
					topicFlag,
					groupFlag,
					limitFlag,
				},
			},
		},
	}
)

func cmdEventsTail(c *urfave.Context) error {
	cfg := config.Load().Kafka
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is not set")
	}
	topic := c.String(topicFlag.Name)
	if topic == "" {
		topic = cfg.Topic
	}

	ctx, cancel := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	handler := printEvents(c.App.Writer, c.Int(limitFlag.Name), cancel)
	consumer, err := kafka.NewConsumer(kafka.FromSettings(cfg), topic, c.String(groupFlag.Name), handler, slog.Default())
	if err != nil {
		return err
	}
	defer consumer.Close()

	slog.Info("tailing prediction events", "topic", topic, "brokers", cfg.Brokers)
	return consumer.Start(ctx)
}

// printEvents writes each event as one JSON line and calls stop once limit
// events were written. A limit of 0 never stops.
func printEvents(w io.Writer, limit int, stop context.CancelFunc) kafka.EventHandler {
	enc := json.NewEncoder(w)
	seen := 0
	return func(_ context.Context, evt event.PredictionCompleted) error {
		if err := enc.Encode(evt); err != nil {
			return err
		}
		seen++
		if limit > 0 && seen >= limit {
			stop()
		}
		return nil
	}
}
