package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"wasl/internal/screening"
	id "wasl/pkg/domain"
)

type EventType string

const (
	EventTransitionOccurred EventType = "transition_occurred"
	EventScreeningRecorded  EventType = "screening_recorded"
	EventCertificateIssued  EventType = "certificate_issued"
)

// Event is published after the change it describes has been committed.
type Event interface {
	Type() EventType
	Candidate() id.CandidateID
}

type TransitionOccurred struct {
	CandidateID id.CandidateID
	From        Status
	To          Status
	Reason      string
	// Forced marks a short-circuit that skipped guards.
	Forced bool
	At     time.Time
}

func (e TransitionOccurred) Type() EventType           { return EventTransitionOccurred }
func (e TransitionOccurred) Candidate() id.CandidateID { return e.CandidateID }

type ScreeningRecorded struct {
	CandidateID id.CandidateID
	Screening   screening.Screening
	Signal      screening.Signal
	At          time.Time
}

func (e ScreeningRecorded) Type() EventType           { return EventScreeningRecorded }
func (e ScreeningRecorded) Candidate() id.CandidateID { return e.CandidateID }

type CertificateIssued struct {
	CandidateID id.CandidateID
	BatchID     id.BatchID
	Number      string
	At          time.Time
}

func (e CertificateIssued) Type() EventType           { return EventCertificateIssued }
func (e CertificateIssued) Candidate() id.CandidateID { return e.CandidateID }

// Listener reacts to an event. Errors are collected, not fatal to other listeners.
type Listener func(ctx context.Context, e Event) error

// Dispatcher delivers events synchronously to subscribers in subscription order.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]Listener
	logger    *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{listeners: make(map[EventType][]Listener), logger: logger}
}

func (d *Dispatcher) Subscribe(t EventType, l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[t] = append(d.listeners[t], l)
}

// Publish runs every listener for each event and joins their errors.
func (d *Dispatcher) Publish(ctx context.Context, events ...Event) error {
	var errs []error
	for _, e := range events {
		d.mu.RLock()
		ls := append([]Listener(nil), d.listeners[e.Type()]...)
		d.mu.RUnlock()

		for _, l := range ls {
			if err := l(ctx, e); err != nil {
				d.logger.WarnContext(ctx, "event listener failed",
					"event", string(e.Type()),
					"candidate_id", e.Candidate().String(),
					"error", err,
				)
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
