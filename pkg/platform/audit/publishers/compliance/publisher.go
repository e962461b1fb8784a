// Package compliance emits audit events with fail-closed semantics: the
// write joins the caller's transaction and a failed write fails the
// operation being audited.
package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	audit "wasl/pkg/platform/audit"
	"wasl/pkg/requestcontext"
)

type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

// New creates a compliance publisher. The store must be outbox-backed for
// guaranteed delivery.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit writes event synchronously, filling request id, actor and client
// from ctx when unset. The caller must abort on error.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	start := time.Now()

	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	if event.CandidateID.IsNil() && event.Subject == "" {
		return fmt.Errorf("audit event requires CandidateID or Subject")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ActorID == "" {
		if op := requestcontext.OperatorID(ctx); !op.IsNil() {
			event.ActorID = op.String()
		}
	}
	if event.Client == "" {
		event.Client = requestcontext.Client(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		if p.metrics != nil {
			p.metrics.IncPersistFailures()
		}
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "CRITICAL: audit write failed",
				"action", event.Action,
				"candidate_id", event.CandidateID.String(),
				"error", err,
			)
		}
		return fmt.Errorf("audit persistence failed: %w", err)
	}

	if p.metrics != nil {
		p.metrics.ObservePersistDuration(time.Since(start))
		p.metrics.IncEventsEmitted(event.Action)
	}
	return nil
}
