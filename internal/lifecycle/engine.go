package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wasl/internal/batch"
	"wasl/internal/documents"
)

var tracer = otel.Tracer("wasl/lifecycle")

// Attempt is one in-flight transition as seen by guards and effects.
// Effects mutate Candidate; the engine persists it afterwards.
type Attempt struct {
	Candidate *Candidate
	From      Status
	Target    Status
	Payload   Payload
	Store     Store
	Checklist documents.Checklist
	Now       time.Time

	capacityExceeded bool
}

// Engine gates every status change through the rule table.
type Engine struct {
	rules     map[Edge]Rule
	checklist documents.Checklist
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithChecklist(c documents.Checklist) Option {
	return func(e *Engine) { e.checklist = c }
}

// WithRules replaces the rule table.
func WithRules(rules map[Edge]Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules:     DefaultRules(),
		checklist: documents.DefaultChecklist(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Checklist is the document checklist guards evaluate against.
func (e *Engine) Checklist() documents.Checklist {
	return e.checklist
}

// Validate fails when any graph edge lacks a rule. Call it at startup.
func (e *Engine) Validate() error {
	var missing []Edge
	for _, edge := range Edges() {
		if _, ok := e.rules[edge]; !ok {
			missing = append(missing, edge)
		}
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// Transition attempts to move c to target. Guard rejections come back as
// Result issues with c untouched; errors mean invalid input, a missing
// rule or an infrastructure failure. store should be bound to the caller's
// transaction.
func (e *Engine) Transition(ctx context.Context, store Store, c *Candidate, target string, payload Payload) (Result, error) {
	to, err := ParseStatus(target)
	if err != nil {
		return Result{}, err
	}

	ctx, span := tracer.Start(ctx, "lifecycle.transition", trace.WithAttributes(
		attribute.String("candidate.id", c.ID.String()),
		attribute.String("transition.from", string(c.Status)),
		attribute.String("transition.to", string(to)),
	))
	defer span.End()

	from := c.Status
	switch {
	case c.IsArchived():
		return rejected(from, "Candidate is archived"), nil
	case from == to:
		return rejected(from, fmt.Sprintf("already in %s", to)), nil
	case !from.CanTransitionTo(to):
		return rejected(from, fmt.Sprintf("cannot move from %s to %s", from, to)), nil
	}

	edge := Edge{From: from, To: to}
	rule, ok := e.rules[edge]
	if !ok {
		cfgErr := &ConfigurationError{Missing: []Edge{edge}}
		e.logger.ErrorContext(ctx, "no rule registered for lifecycle edge",
			"candidate_id", c.ID.String(),
			"edge", edge.String(),
		)
		span.RecordError(cfgErr)
		span.SetStatus(codes.Error, "missing rule")
		return Result{}, cfgErr
	}

	working := *c
	a := &Attempt{
		Candidate: &working,
		From:      from,
		Target:    to,
		Payload:   payload,
		Store:     store,
		Checklist: e.checklist,
		Now:       e.now(),
	}

	if rule.Guard != nil {
		issues, err := rule.Guard(ctx, a)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "guard failed")
			return Result{}, fmt.Errorf("evaluating %s guard: %w", edge, err)
		}
		if len(issues) > 0 {
			span.SetAttributes(attribute.Int("transition.issues", len(issues)))
			res := rejected(from, issues...)
			res.CapacityExceeded = a.capacityExceeded
			return res, nil
		}
	}

	if rule.Apply != nil {
		if err := rule.Apply(ctx, a); err != nil {
			var capErr *batch.CapacityExceededError
			if errors.As(err, &capErr) {
				res := rejected(from, capErr.Error())
				res.CapacityExceeded = true
				return res, nil
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "apply failed")
			return Result{}, fmt.Errorf("applying %s: %w", edge, err)
		}
	}

	working.Status = to
	working.UpdatedAt = a.Now
	if err := store.UpdateCandidate(ctx, &working); err != nil {
		return Result{}, fmt.Errorf("saving candidate: %w", err)
	}
	*c = working

	return Result{
		Success: true,
		Status:  to,
		Issues:  []string{},
		Events: []Event{TransitionOccurred{
			CandidateID: c.ID,
			From:        from,
			To:          to,
			Reason:      payload.Reason,
			At:          a.Now,
		}},
	}, nil
}

// ForceReject moves c to rejected without consulting guards. It is the
// screening-failure short-circuit and refuses only terminal candidates.
func (e *Engine) ForceReject(ctx context.Context, store Store, c *Candidate, reason string) (Result, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.force_reject", trace.WithAttributes(
		attribute.String("candidate.id", c.ID.String()),
		attribute.String("transition.from", string(c.Status)),
	))
	defer span.End()

	from := c.Status
	if from.IsTerminal() {
		return rejected(from, fmt.Sprintf("cannot reject a %s candidate", from)), nil
	}

	now := e.now()
	working := *c
	working.Status = StatusRejected
	working.Remarks = reason
	working.UpdatedAt = now
	if err := store.UpdateCandidate(ctx, &working); err != nil {
		return Result{}, fmt.Errorf("saving candidate: %w", err)
	}
	*c = working

	e.logger.InfoContext(ctx, "candidate force-rejected",
		"candidate_id", c.ID.String(),
		"from", string(from),
		"reason", reason,
	)
	return Result{
		Success: true,
		Status:  StatusRejected,
		Issues:  []string{},
		Events: []Event{TransitionOccurred{
			CandidateID: c.ID,
			From:        from,
			To:          StatusRejected,
			Reason:      reason,
			Forced:      true,
			At:          now,
		}},
	}, nil
}
