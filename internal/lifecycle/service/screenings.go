package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wasl/internal/lifecycle"
	"wasl/internal/screening"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
	"wasl/pkg/platform/audit"
	"wasl/pkg/platform/sentinel"
)

// RecordScreening moves one screening type to status. A failed screening
// rejects the candidate in the same transaction. ScreeningRecorded is
// published after commit; the listener advances candidates whose three
// screenings have all passed.
func (s *Service) RecordScreening(ctx context.Context, candidateID id.CandidateID, screeningType, status, remarks string) (*screening.Screening, error) {
	t, err := screening.ParseType(screeningType)
	if err != nil {
		return nil, err
	}
	target, err := screening.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	var (
		saved    *screening.Screening
		event    lifecycle.ScreeningRecorded
		from     lifecycle.Status
		rejected lifecycle.Result
	)
	err = s.withCandidate(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error {
		if err := requireStatus(c, lifecycle.StatusScreening, lifecycle.StatusDeferred); err != nil {
			return err
		}
		rec, err := s.loadScreening(ctx, store, c.ID, t)
		if err != nil {
			return err
		}
		now := s.now()
		if err := rec.Apply(target, remarks, now); err != nil {
			return err
		}
		if err := store.SaveScreening(ctx, rec); err != nil {
			return translate(err, "screening")
		}
		all, err := store.ListScreenings(ctx, c.ID)
		if err != nil {
			return translate(err, "screening")
		}
		saved = rec
		event = lifecycle.ScreeningRecorded{
			CandidateID: c.ID,
			Screening:   *rec,
			Signal:      screening.SignalFor(*rec, all),
			At:          now,
		}
		from = c.Status
		if err := s.emit(ctx, c, audit.EventScreeningRecorded, func(e *audit.Event) {
			e.Subject = string(t)
			e.To = string(rec.Status)
			e.Decision = string(event.Signal)
			e.Reason = rec.Remarks
		}); err != nil {
			return err
		}
		if event.Signal != screening.SignalFailed {
			return nil
		}
		// A failed screening rejects in the same transaction, so the
		// candidate can never sit in screening with a failed result.
		rejected, err = s.rejectInTx(ctx, store, c, failureReason(*rec))
		if err != nil {
			return err
		}
		if !rejected.Success {
			return dErrors.Newf(dErrors.CodeInvariantViolation, "failed screening could not reject candidate: %s",
				strings.Join(rejected.Issues, "; "))
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "candidate")
	}
	if rejected.Success {
		s.observe(ctx, candidateID, from, string(lifecycle.StatusRejected), rejected)
	}

	s.logger.InfoContext(ctx, "screening recorded",
		"candidate_id", candidateID.String(),
		"type", string(t),
		"status", string(saved.Status),
		"signal", string(event.Signal),
	)
	s.publish(ctx, append([]lifecycle.Event{event}, rejected.Events...))
	return saved, nil
}

func failureReason(rec screening.Screening) string {
	reason := fmt.Sprintf("%s screening failed", rec.Type)
	if rec.Remarks != "" {
		reason += ": " + rec.Remarks
	}
	return reason
}

// RecordCallAttempt counts one call screening attempt. Beyond the maximum
// the result reports max_attempts_reached and nothing changes.
func (s *Service) RecordCallAttempt(ctx context.Context, candidateID id.CandidateID) (screening.AttemptResult, error) {
	var result screening.AttemptResult
	err := s.withCandidate(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error {
		if err := requireStatus(c, lifecycle.StatusScreening, lifecycle.StatusDeferred); err != nil {
			return err
		}
		rec, err := s.loadScreening(ctx, store, c.ID, screening.TypeCall)
		if err != nil {
			return err
		}
		result, err = rec.RecordCallAttempt(s.maxCallAttempts, s.now())
		if err != nil {
			return err
		}
		if result.MaxAttemptsReached {
			return nil
		}
		if err := store.SaveScreening(ctx, rec); err != nil {
			return translate(err, "screening")
		}
		return s.emit(ctx, c, audit.EventCallAttemptLogged, func(e *audit.Event) {
			e.Subject = string(screening.TypeCall)
			e.To = string(rec.Status)
		})
	})
	if err != nil {
		return screening.AttemptResult{}, err
	}
	if result.MaxAttemptsReached {
		s.logger.InfoContext(ctx, "call attempt refused: maximum reached",
			"candidate_id", candidateID.String(),
			"max_attempts", result.MaxAttempts,
		)
	}
	return result, nil
}

func (s *Service) loadScreening(ctx context.Context, store lifecycle.Store, candidateID id.CandidateID, t screening.Type) (*screening.Screening, error) {
	rec, err := store.GetScreening(ctx, candidateID, t)
	if errors.Is(err, sentinel.ErrNotFound) {
		return screening.New(candidateID, t, s.now()), nil
	}
	if err != nil {
		return nil, translate(err, "screening")
	}
	return rec, nil
}
