// Package service is the transactional boundary around the lifecycle
// engine. It serialises work per candidate, runs guards and effects inside
// one transaction, writes the audit trail and publishes domain events after
// commit.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"wasl/internal/lifecycle"
	"wasl/internal/lifecycle/metrics"
	"wasl/internal/screening"
	"wasl/internal/training"
	"wasl/internal/visa"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
	"wasl/pkg/platform/audit"
	"wasl/pkg/platform/sentinel"
)

// StoreTx runs fn inside a transaction. fn must use the ctx it is given so
// SQL stores pick up the transaction.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store lifecycle.Store) error) error
}

// AuditPublisher records compliance events. Emit runs inside the caller's
// transaction; an error aborts the change.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Locker serialises work on one key, across processes when backed by Redis.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Service coordinates lifecycle commands.
type Service struct {
	store      lifecycle.Store
	tx         StoreTx
	engine     *lifecycle.Engine
	dispatcher *lifecycle.Dispatcher
	locker     Locker
	auditor    AuditPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time

	attendanceThreshold decimal.Decimal
	maxCallAttempts     int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithLocker(l Locker) Option {
	return func(s *Service) { s.locker = l }
}

func WithTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

func WithDispatcher(d *lifecycle.Dispatcher) Option {
	return func(s *Service) { s.dispatcher = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithAttendanceThreshold sets the minimum attendance percentage for certificates.
func WithAttendanceThreshold(t decimal.Decimal) Option {
	return func(s *Service) { s.attendanceThreshold = t }
}

func WithMaxCallAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxCallAttempts = n
		}
	}
}

// New builds a service over store. Without WithTx the service serialises
// transactions in memory, which only suits the in-memory store.
func New(store lifecycle.Store, engine *lifecycle.Engine, opts ...Option) *Service {
	s := &Service{
		store:               store,
		engine:              engine,
		logger:              slog.Default(),
		now:                 time.Now,
		attendanceThreshold: training.DefaultAttendanceThreshold,
		maxCallAttempts:     screening.DefaultMaxCallAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewMemoryTx(store)
	}
	if s.locker == nil {
		s.locker = NewLocalLocker()
	}
	if s.dispatcher == nil {
		s.dispatcher = lifecycle.NewDispatcher(s.logger)
	}
	return s
}

// Dispatcher exposes the event bus so callers can subscribe listeners.
func (s *Service) Dispatcher() *lifecycle.Dispatcher {
	return s.dispatcher
}

func candidateKey(candidateID id.CandidateID) string {
	return "candidate:" + candidateID.String()
}

// withCandidate locks the candidate, opens a transaction and hands fn a
// fresh copy of the record. Archived candidates are refused.
func (s *Service) withCandidate(ctx context.Context, candidateID id.CandidateID, fn func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error) error {
	unlock, err := s.locker.Lock(ctx, candidateKey(candidateID))
	if err != nil {
		return err
	}
	defer unlock()

	return s.tx.RunInTx(WithTxKey(ctx, candidateKey(candidateID)), func(ctx context.Context, store lifecycle.Store) error {
		c, err := store.GetCandidate(ctx, candidateID)
		if err != nil {
			return translate(err, "candidate")
		}
		if c.IsArchived() {
			return dErrors.New(dErrors.CodeNotFound, "candidate not found")
		}
		return fn(ctx, store, c)
	})
}

// emit writes an audit event in the current transaction when an auditor is wired.
func (s *Service) emit(ctx context.Context, c *lifecycle.Candidate, action audit.AuditEvent, fill func(e *audit.Event)) error {
	if s.auditor == nil {
		return nil
	}
	e := audit.Event{Action: string(action)}
	if c != nil {
		e.CandidateID = c.ID
		e.Subject = c.ApplicationID
	}
	if fill != nil {
		fill(&e)
	}
	if err := s.auditor.Emit(ctx, e); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

// publish delivers committed events. Listener failures are logged by the
// dispatcher and never undo the committed change.
func (s *Service) publish(ctx context.Context, events []lifecycle.Event) {
	if len(events) == 0 {
		return
	}
	if err := s.dispatcher.Publish(ctx, events...); err != nil {
		s.logger.WarnContext(ctx, "event listeners reported errors", "error", err)
	}
}

// translate maps store sentinels onto domain codes. Errors that already
// carry a code pass through.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	var prereq *visa.PrerequisiteNotMetError
	if errors.As(err, &prereq) {
		return dErrors.Wrap(err, dErrors.CodeUnprocessable, prereq.Error())
	}
	var cfgErr *lifecycle.ConfigurationError
	if errors.As(err, &cfgErr) {
		return dErrors.Wrap(err, dErrors.CodeConfiguration, "lifecycle is misconfigured")
	}
	if !sentinel.IsStoreFact(err) {
		switch {
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			return dErrors.Wrap(err, dErrors.CodeTimeout, "operation timed out")
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("%s store failure", what))
		}
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, what+" not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, what+" already exists")
	case errors.Is(err, sentinel.ErrLockHeld):
		return dErrors.Wrap(err, dErrors.CodeConflict, what+" is being updated by another request")
	default:
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, err.Error())
	}
}

func requireNotTerminal(c *lifecycle.Candidate) error {
	if c.Status.IsTerminal() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "candidate is %s", c.Status)
	}
	return nil
}

func requireStatus(c *lifecycle.Candidate, allowed ...lifecycle.Status) error {
	for _, st := range allowed {
		if c.Status == st {
			return nil
		}
	}
	return dErrors.Newf(dErrors.CodeInvariantViolation, "not allowed while candidate is %s", c.Status)
}
