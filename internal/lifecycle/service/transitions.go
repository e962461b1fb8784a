package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"wasl/internal/lifecycle"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
	"wasl/pkg/platform/audit"
	"wasl/pkg/platform/sentinel"
	pkgstrings "wasl/pkg/platform/strings"
)

// Transition moves a candidate through the lifecycle engine. Guard
// rejections come back in the Result; errors are faults.
func (s *Service) Transition(ctx context.Context, candidateID id.CandidateID, target string, payload lifecycle.Payload) (lifecycle.Result, error) {
	start := time.Now()
	defer s.metrics.ObserveTransitionLatency(start)

	var (
		res  lifecycle.Result
		from lifecycle.Status
	)
	err := s.withCandidate(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error {
		from = c.Status
		var err error
		res, err = s.engine.Transition(ctx, store, c, target, payload)
		if err != nil {
			return err
		}
		return s.auditTransition(ctx, c, from, res, payload.Reason)
	})
	if err != nil {
		s.metrics.IncrementTransition(string(from), target, "error")
		s.logTransitionError(ctx, candidateID, from, target, err)
		return lifecycle.Result{}, translate(err, "candidate")
	}

	s.observe(ctx, candidateID, from, target, res)
	s.publish(ctx, res.Events)
	return res, nil
}

// ForceReject is the screening-failure short-circuit: no guards, only
// terminal candidates are refused.
func (s *Service) ForceReject(ctx context.Context, candidateID id.CandidateID, reason string) (lifecycle.Result, error) {
	var (
		res  lifecycle.Result
		from lifecycle.Status
	)
	err := s.withCandidate(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error {
		from = c.Status
		var err error
		res, err = s.rejectInTx(ctx, store, c, reason)
		return err
	})
	if err != nil {
		return lifecycle.Result{}, translate(err, "candidate")
	}
	s.observe(ctx, candidateID, from, string(lifecycle.StatusRejected), res)
	s.publish(ctx, res.Events)
	return res, nil
}

// rejectInTx force-rejects c inside the caller's transaction and records
// the audit event there too.
func (s *Service) rejectInTx(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate, reason string) (lifecycle.Result, error) {
	from := c.Status
	res, err := s.engine.ForceReject(ctx, store, c, reason)
	if err != nil || !res.Success {
		return res, err
	}
	return res, s.emit(ctx, c, audit.EventCandidateRejected, func(e *audit.Event) {
		e.From = string(from)
		e.To = string(res.Status)
		e.Decision = "forced"
		e.Reason = reason
	})
}

func (s *Service) auditTransition(ctx context.Context, c *lifecycle.Candidate, from lifecycle.Status, res lifecycle.Result, reason string) error {
	if !res.Success {
		return nil
	}
	return s.emit(ctx, c, audit.EventCandidateTransitioned, func(e *audit.Event) {
		e.From = string(from)
		e.To = string(res.Status)
		e.Decision = "allowed"
		e.Reason = reason
	})
}

func (s *Service) observe(ctx context.Context, candidateID id.CandidateID, from lifecycle.Status, target string, res lifecycle.Result) {
	if res.CapacityExceeded {
		s.metrics.IncrementCapacityExceeded()
	}
	if !res.Success {
		s.metrics.IncrementTransition(string(from), target, "rejected")
		s.metrics.IncrementGuardRejection(target)
		s.logger.InfoContext(ctx, "transition rejected",
			"candidate_id", candidateID.String(),
			"from", string(from),
			"to", target,
			"issues", res.Issues,
		)
		return
	}
	s.metrics.IncrementTransition(string(from), string(res.Status), "success")
	s.logger.InfoContext(ctx, "candidate transitioned",
		"candidate_id", candidateID.String(),
		"from", string(from),
		"to", string(res.Status),
	)
}

func (s *Service) logTransitionError(ctx context.Context, candidateID id.CandidateID, from lifecycle.Status, target string, err error) {
	var cfgErr *lifecycle.ConfigurationError
	if errors.As(err, &cfgErr) {
		// Already logged by the engine; keep the service log for the request trail.
		s.logger.ErrorContext(ctx, "transition failed: lifecycle misconfigured",
			"candidate_id", candidateID.String(), "from", string(from), "to", target, "error", err)
		return
	}
	if dErrors.HasCode(err, dErrors.CodeValidation) || dErrors.HasCode(err, dErrors.CodeNotFound) {
		return
	}
	s.logger.ErrorContext(ctx, "transition failed",
		"candidate_id", candidateID.String(), "from", string(from), "to", target, "error", err)
}

// BulkItem is the outcome for one candidate of a bulk assignment.
type BulkItem struct {
	CandidateID id.CandidateID   `json:"candidate_id"`
	Success     bool             `json:"success"`
	Status      lifecycle.Status `json:"status,omitempty"`
	Issues      []string         `json:"issues"`
}

// BulkResult aggregates a bulk assignment.
type BulkResult struct {
	BatchID   id.BatchID `json:"batch_id"`
	Total     int        `json:"total"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Items     []BulkItem `json:"items"`
}

// BulkAssignBatch starts training in batchID for every listed candidate
// inside one transaction. Each candidate takes a seat through the atomic
// enrollment increment, so candidates that would overflow the batch get a
// capacity issue while those that fit commit. Duplicate ids are ignored.
func (s *Service) BulkAssignBatch(ctx context.Context, batchID id.BatchID, candidateIDs []id.CandidateID) (BulkResult, error) {
	ids := pkgstrings.Unique(candidateIDs)
	if len(ids) == 0 {
		return BulkResult{}, dErrors.New(dErrors.CodeValidation, "candidate_ids must not be empty")
	}
	if _, err := s.store.GetBatch(ctx, batchID); err != nil {
		return BulkResult{}, translate(err, "batch")
	}

	// Lock in a stable order so two bulk runs over overlapping sets cannot deadlock.
	ordered := append([]id.CandidateID(nil), ids...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].String() < ordered[j].String() })
	for _, cid := range ordered {
		unlock, err := s.locker.Lock(ctx, candidateKey(cid))
		if err != nil {
			return BulkResult{}, err
		}
		defer unlock()
	}

	result := BulkResult{BatchID: batchID, Total: len(ids), Items: make([]BulkItem, 0, len(ids))}
	type attempt struct {
		candidateID id.CandidateID
		from        lifecycle.Status
		res         lifecycle.Result
	}
	var attempts []attempt
	target := string(lifecycle.StatusTraining)

	err := s.tx.RunInTx(WithTxKey(ctx, "batch:"+batchID.String()), func(ctx context.Context, store lifecycle.Store) error {
		for _, cid := range ids {
			item := BulkItem{CandidateID: cid, Issues: []string{}}
			c, err := store.GetCandidate(ctx, cid)
			if errors.Is(err, sentinel.ErrNotFound) || (err == nil && c.IsArchived()) {
				item.Issues = append(item.Issues, "Candidate not found")
				result.Items = append(result.Items, item)
				continue
			}
			if err != nil {
				return translate(err, "candidate")
			}

			from := c.Status
			res, err := s.engine.Transition(ctx, store, c, target, lifecycle.Payload{BatchID: batchID})
			if err != nil {
				return err
			}
			if err := s.auditTransition(ctx, c, from, res, ""); err != nil {
				return err
			}
			item.Success = res.Success
			item.Status = res.Status
			item.Issues = res.Issues
			result.Items = append(result.Items, item)
			attempts = append(attempts, attempt{candidateID: cid, from: from, res: res})
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "bulk assignment aborted", "batch_id", batchID.String(), "error", err)
		return BulkResult{}, translate(err, "batch")
	}

	var events []lifecycle.Event
	for _, a := range attempts {
		s.observe(ctx, a.candidateID, a.from, target, a.res)
		events = append(events, a.res.Events...)
	}
	for _, item := range result.Items {
		if item.Success {
			result.Succeeded++
			s.metrics.IncrementBulkAssignment("success")
		} else {
			result.Failed++
			s.metrics.IncrementBulkAssignment("rejected")
		}
	}
	s.logger.InfoContext(ctx, "bulk batch assignment finished",
		"batch_id", batchID.String(),
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	s.publish(ctx, events)
	return result, nil
}
