// Package worker relays outbox entries to the event stream.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	audit "wasl/pkg/platform/audit"
)

// Producer publishes a batch of entries. It must return only after every
// entry has been acknowledged, or an error.
type Producer interface {
	Produce(ctx context.Context, entries []audit.OutboxEntry) error
}

// RelayMetrics is optional instrumentation.
type RelayMetrics interface {
	ObserveRelayed(n int)
	IncRelayFailures()
}

const (
	defaultInterval  = time.Second
	defaultBatchSize = 100
)

// Worker polls the outbox and publishes pending entries. Delivery is
// at-least-once: a crash between Produce and MarkPublished republishes the batch.
type Worker struct {
	outbox    audit.Outbox
	producer  Producer
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	metrics   RelayMetrics
}

type Option func(*Worker)

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) { w.logger = logger }
}

func WithMetrics(m RelayMetrics) Option {
	return func(w *Worker) { w.metrics = m }
}

func NewWorker(outbox audit.Outbox, producer Producer, opts ...Option) *Worker {
	w := &Worker{
		outbox:    outbox,
		producer:  producer,
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run relays until ctx is cancelled. Relay errors are logged and retried on
// the next tick.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for {
				n, err := w.RelayOnce(ctx)
				if err != nil {
					w.logger.WarnContext(ctx, "outbox relay failed", "error", err)
					break
				}
				if n < w.batchSize {
					break
				}
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many entries it relayed.
func (w *Worker) RelayOnce(ctx context.Context) (int, error) {
	entries, err := w.outbox.Pending(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("reading outbox: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	if err := w.producer.Produce(ctx, entries); err != nil {
		if w.metrics != nil {
			w.metrics.IncRelayFailures()
		}
		return 0, fmt.Errorf("producing %d entries: %w", len(entries), err)
	}

	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	if err := w.outbox.MarkPublished(ctx, ids, time.Now()); err != nil {
		return 0, fmt.Errorf("marking outbox published: %w", err)
	}
	if w.metrics != nil {
		w.metrics.ObserveRelayed(len(entries))
	}
	return len(entries), nil
}
