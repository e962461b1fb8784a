package service

import (
	"context"
	"fmt"

	"wasl/internal/lifecycle"
	"wasl/internal/screening"
)

// RegisterListeners subscribes the screening reactions. All three passed
// advances the candidate to registered; failures are only counted here.
func (s *Service) RegisterListeners() {
	s.dispatcher.Subscribe(lifecycle.EventScreeningRecorded, s.onScreeningRecorded)
}

func (s *Service) onScreeningRecorded(ctx context.Context, e lifecycle.Event) error {
	rec, ok := e.(lifecycle.ScreeningRecorded)
	if !ok {
		return nil
	}
	switch rec.Signal {
	case screening.SignalFailed:
		// RecordScreening already rejected the candidate in its transaction.
		s.metrics.IncrementScreeningCascade(string(rec.Signal))
	case screening.SignalAllPassed:
		s.metrics.IncrementScreeningCascade(string(rec.Signal))
		res, err := s.Transition(ctx, rec.CandidateID, string(lifecycle.StatusRegistered), lifecycle.Payload{})
		if err != nil {
			return fmt.Errorf("advancing after passed screenings: %w", err)
		}
		if !res.Success {
			s.logger.InfoContext(ctx, "screenings passed but candidate not advanced",
				"candidate_id", rec.CandidateID.String(), "issues", res.Issues)
		}
	}
	return nil
}
