package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wasl/internal/departure"
	"wasl/internal/lifecycle"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
	"wasl/pkg/platform/audit"
	"wasl/pkg/platform/sentinel"
)

type DepartureInput struct {
	FlightNumber  string
	Destination   string
	DepartureDate time.Time
}

// RecordDeparture creates or reschedules the departure plan. Plans are
// accepted from visa processing onwards and frozen once departed.
func (s *Service) RecordDeparture(ctx context.Context, candidateID id.CandidateID, in DepartureInput) (*departure.Departure, error) {
	var out *departure.Departure
	err := s.withCandidate(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error {
		if err := requireStatus(c, lifecycle.StatusVisaProcess, lifecycle.StatusReady); err != nil {
			return err
		}
		now := s.now()
		d, err := store.GetDeparture(ctx, c.ID)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			d, err = departure.New(c.ID, in.FlightNumber, in.Destination, in.DepartureDate, now)
			if err != nil {
				return err
			}
		case err != nil:
			return translate(err, "departure")
		default:
			if err := d.Reschedule(in.FlightNumber, in.Destination, in.DepartureDate, now); err != nil {
				return err
			}
		}
		if err := store.SaveDeparture(ctx, d); err != nil {
			return translate(err, "departure")
		}
		out = d
		return s.emit(ctx, c, audit.EventDepartureRecorded, func(e *audit.Event) {
			e.Subject = d.FlightNumber
			e.Reason = d.DepartureDate.Format(time.DateOnly)
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteBriefing records the pre-departure briefing.
func (s *Service) CompleteBriefing(ctx context.Context, candidateID id.CandidateID) (*departure.Departure, error) {
	var out *departure.Departure
	err := s.withCandidate(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error {
		if err := requireStatus(c, lifecycle.StatusVisaProcess, lifecycle.StatusReady); err != nil {
			return err
		}
		d, err := store.GetDeparture(ctx, c.ID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeUnprocessable, "record the departure before the briefing")
		}
		if err != nil {
			return translate(err, "departure")
		}
		if err := d.CompleteBriefing(s.now()); err != nil {
			return err
		}
		if err := store.SaveDeparture(ctx, d); err != nil {
			return translate(err, "departure")
		}
		out = d
		return s.emit(ctx, c, audit.EventBriefingCompleted, nil)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type RemittanceInput struct {
	Amount       decimal.Decimal
	Currency     string
	TransferDate time.Time
	Purpose      string
}

// RecordRemittance logs money sent home. Only departed candidates remit.
func (s *Service) RecordRemittance(ctx context.Context, candidateID id.CandidateID, in RemittanceInput) (*departure.Remittance, error) {
	var out *departure.Remittance
	err := s.withCandidate(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error {
		if c.Status != lifecycle.StatusDeparted {
			return dErrors.New(dErrors.CodeInvariantViolation, "remittances can only be recorded for departed candidates")
		}
		r, err := departure.NewRemittance(id.RemittanceID(uuid.New()), c.ID, in.Amount, in.Currency, in.TransferDate, in.Purpose, s.now())
		if err != nil {
			return err
		}
		if err := store.AddRemittance(ctx, r); err != nil {
			return translate(err, "remittance")
		}
		out = r
		return s.emit(ctx, c, audit.EventRemittanceRecorded, func(e *audit.Event) {
			e.Subject = r.Currency
			e.Decision = r.Amount.StringFixed(2)
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
