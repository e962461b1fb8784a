package service

import (
	"context"

	"wasl/internal/lifecycle"
	"wasl/internal/visa"
	id "wasl/pkg/domain"
	"wasl/pkg/platform/audit"
)

// UpdateVisaStage sets one visa sub-stage. Stages must be cleared in order;
// a skipped prerequisite is reported as a PrerequisiteNotMetError wrapped
// with the unprocessable code.
func (s *Service) UpdateVisaStage(ctx context.Context, candidateID id.CandidateID, stage, status, value string) (*visa.Process, error) {
	st, err := visa.ParseStage(stage)
	if err != nil {
		return nil, err
	}
	update := visa.Update{Stage: st, Status: visa.StageStatus(status), Value: value}

	var process *visa.Process
	err = s.withCandidate(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error {
		if err := requireStatus(c, lifecycle.StatusVisaProcess); err != nil {
			return err
		}
		p, err := store.GetVisaProcess(ctx, c.ID)
		if err != nil {
			return translate(err, "visa process")
		}
		if err := visa.Apply(p, update, s.now()); err != nil {
			return translate(err, "visa process")
		}
		if err := store.SaveVisaProcess(ctx, p); err != nil {
			return translate(err, "visa process")
		}
		process = p
		return s.emit(ctx, c, audit.EventVisaStageUpdated, func(e *audit.Event) {
			e.Subject = string(st)
			e.To = status
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "visa stage updated",
		"candidate_id", candidateID.String(),
		"stage", string(st),
		"status", status,
	)
	return process, nil
}
