// Package audit fans audit records out to the configured sinks off the
// request path.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/JWang8249/credit-risk-pipeline/internal/domain/model"
)

// Sink is one audit destination.
type Sink interface {
	Name() string
	Record(ctx context.Context, rec model.AuditRecord) error
}

// Metrics records dispatcher outcomes.
type Metrics interface {
	RecordAuditFailure(ctx context.Context, sink string)
	RecordAuditDropped(ctx context.Context)
}

// ErrClosed is returned by Close when called twice.
var ErrClosed = errors.New("audit dispatcher closed")

// Dispatcher implements port.AuditSink. Record hands the record to a
// background goroutine per sink and returns at once; it never reports an
// error. At most maxInFlight records are being written at any time, and
// records arriving beyond that are dropped.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	slots   chan struct{}
	metrics Metrics
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. metrics may be nil.
func NewDispatcher(sinks []Sink, timeout time.Duration, maxInFlight int, metrics Metrics, logger *slog.Logger) *Dispatcher {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	return &Dispatcher{
		sinks:   sinks,
		timeout: timeout,
		slots:   make(chan struct{}, maxInFlight),
		metrics: metrics,
		logger:  logger,
	}
}

// Record schedules rec for every sink. The caller's context only carries
// values into the write; its cancellation does not abort it.
func (d *Dispatcher) Record(ctx context.Context, rec model.AuditRecord) error {
	if len(d.sinks) == 0 {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(ctx, rec, "dispatcher closed")
		return nil
	}

	select {
	case d.slots <- struct{}{}:
	default:
		d.drop(ctx, rec, "too many audit writes in flight")
		return nil
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() { <-d.slots }()
		d.write(context.WithoutCancel(ctx), rec)
	}()
	return nil
}

func (d *Dispatcher) write(ctx context.Context, rec model.AuditRecord) {
	var wg sync.WaitGroup
	for _, sink := range d.sinks {
		wg.Add(1)
		go func(sink Sink) {
			defer wg.Done()

			writeCtx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()

			if err := sink.Record(writeCtx, rec); err != nil {
				d.logger.Warn("audit write failed",
					"sink", sink.Name(),
					"prediction_id", rec.PredictionID(),
					"error", err,
				)
				if d.metrics != nil {
					d.metrics.RecordAuditFailure(ctx, sink.Name())
				}
				return
			}
			d.logger.Debug("audit record written", "sink", sink.Name(), "prediction_id", rec.PredictionID())
		}(sink)
	}
	wg.Wait()
}

func (d *Dispatcher) drop(ctx context.Context, rec model.AuditRecord, reason string) {
	d.logger.Warn("audit record dropped", "prediction_id", rec.PredictionID(), "reason", reason)
	if d.metrics != nil {
		d.metrics.RecordAuditDropped(ctx)
	}
}

// Close stops accepting records and waits for in-flight writes until ctx
// is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
