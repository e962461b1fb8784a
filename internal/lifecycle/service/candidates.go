package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"wasl/internal/lifecycle"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
	"wasl/pkg/platform/audit"
	"wasl/pkg/platform/sentinel"
)

// CreateCandidateInput is the intake form.
type CreateCandidateInput struct {
	NationalID string
	Name       string
	Phone      string
	District   string
	CampusID   id.CampusID
	TradeID    id.TradeID
	OEPID      id.OEPID
	Remarks    string
}

// CreateCandidate registers an intake record in status new with a
// generated application id. National ids are unique.
func (s *Service) CreateCandidate(ctx context.Context, in CreateCandidateInput) (*lifecycle.Candidate, error) {
	nationalID, err := id.ParseNationalID(in.NationalID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	candidateID := id.CandidateID(uuid.New())

	var created *lifecycle.Candidate
	err = s.tx.RunInTx(WithTxKey(ctx, "cnic:"+nationalID.String()), func(ctx context.Context, store lifecycle.Store) error {
		if _, err := store.FindCandidateByNationalID(ctx, nationalID); err == nil {
			return dErrors.Newf(dErrors.CodeConflict, "a candidate with CNIC %s already exists", nationalID.Masked())
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return translate(err, "candidate")
		}

		seq, err := store.NextApplicationSequence(ctx, now.Year())
		if err != nil {
			return translate(err, "application sequence")
		}
		c, err := lifecycle.NewCandidate(candidateID, ApplicationID(now.Year(), seq), nationalID, in.Name, now)
		if err != nil {
			return err
		}
		c.Phone = strings.TrimSpace(in.Phone)
		c.District = strings.TrimSpace(in.District)
		c.CampusID = in.CampusID
		c.TradeID = in.TradeID
		c.OEPID = in.OEPID
		c.Remarks = strings.TrimSpace(in.Remarks)

		if err := store.CreateCandidate(ctx, c); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Newf(dErrors.CodeConflict, "a candidate with CNIC %s already exists", nationalID.Masked())
			}
			return translate(err, "candidate")
		}
		created = c
		return s.emit(ctx, c, audit.EventCandidateCreated, func(e *audit.Event) {
			e.To = string(c.Status)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "candidate created",
		"candidate_id", created.ID.String(),
		"application_id", created.ApplicationID,
	)
	return created, nil
}

// ApplicationID formats the public reference, e.g. BTV-2026-000042.
func ApplicationID(year, seq int) string {
	return fmt.Sprintf("BTV-%d-%06d", year, seq)
}

func (s *Service) GetCandidate(ctx context.Context, candidateID id.CandidateID) (*lifecycle.Candidate, error) {
	c, err := s.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, translate(err, "candidate")
	}
	if c.IsArchived() {
		return nil, dErrors.New(dErrors.CodeNotFound, "candidate not found")
	}
	return c, nil
}

func (s *Service) ListCandidates(ctx context.Context, filter lifecycle.CandidateFilter) ([]lifecycle.Candidate, error) {
	out, err := s.store.ListCandidates(ctx, filter)
	if err != nil {
		return nil, translate(err, "candidate")
	}
	return out, nil
}

// StatusReport counts live candidates per status, with zero rows for
// statuses nobody is in.
func (s *Service) StatusReport(ctx context.Context) (map[lifecycle.Status]int, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, translate(err, "candidate")
	}
	out := make(map[lifecycle.Status]int, len(lifecycle.Statuses))
	for _, st := range lifecycle.Statuses {
		out[st] = counts[st]
	}
	return out, nil
}

// PlacementInput assigns where a candidate will train. Nil ids leave the
// current value in place.
type PlacementInput struct {
	CampusID id.CampusID
	TradeID  id.TradeID
	OEPID    id.OEPID
}

// AssignPlacement sets campus, trade and OEP. Placement is fixed once the
// candidate has started training.
func (s *Service) AssignPlacement(ctx context.Context, candidateID id.CandidateID, in PlacementInput) (*lifecycle.Candidate, error) {
	var updated *lifecycle.Candidate
	err := s.withCandidate(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error {
		if err := requireStatus(c,
			lifecycle.StatusNew, lifecycle.StatusListed, lifecycle.StatusPreDepartureDocs,
			lifecycle.StatusScreening, lifecycle.StatusDeferred, lifecycle.StatusRegistered,
		); err != nil {
			return err
		}
		if !in.CampusID.IsNil() {
			c.CampusID = in.CampusID
		}
		if !in.TradeID.IsNil() {
			c.TradeID = in.TradeID
		}
		if !in.OEPID.IsNil() {
			c.OEPID = in.OEPID
		}
		c.UpdatedAt = s.now()
		if err := store.UpdateCandidate(ctx, c); err != nil {
			return translate(err, "candidate")
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
