package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wasl/internal/batch"
	"wasl/internal/documents"
	"wasl/internal/screening"
	"wasl/internal/training"
	"wasl/internal/visa"
	"wasl/pkg/platform/sentinel"
)

// Guard returns the issues blocking a transition. An empty slice allows it.
// Errors are reserved for infrastructure failures.
type Guard func(ctx context.Context, a *Attempt) ([]string, error)

// Effect performs the side effects of an allowed transition.
type Effect func(ctx context.Context, a *Attempt) error

// Rule pairs a guard with the side effects of one edge. Nil members are no-ops.
type Rule struct {
	Guard Guard
	Apply Effect
}

// DefaultRules is the rule table for every edge of the status graph.
func DefaultRules() map[Edge]Rule {
	rejectRule := Rule{Guard: requireReason, Apply: recordReason}

	return map[Edge]Rule{
		{StatusNew, StatusListed}:                 {Guard: requireIdentity},
		{StatusListed, StatusPreDepartureDocs}:    {Guard: requirePlacement},
		{StatusPreDepartureDocs, StatusScreening}: {Guard: requireDocuments(documents.PhasePreDeparture)},
		{StatusScreening, StatusRegistered}:       {Guard: requireScreeningsPassed},
		{StatusScreening, StatusDeferred}:         {Guard: requireReason, Apply: recordReason},
		{StatusDeferred, StatusScreening}:         {},
		{StatusRegistered, StatusTraining}:        {Guard: requireEnrollable, Apply: enroll},
		{StatusTraining, StatusVisaProcess}:       {Guard: requireCertificate, Apply: openVisaProcess},
		{StatusVisaProcess, StatusReady}:          {Guard: requireVisaIssued},
		{StatusReady, StatusDeparted}:             {Guard: requireBriefing, Apply: markDeparted},

		{StatusNew, StatusRejected}:              rejectRule,
		{StatusListed, StatusRejected}:           rejectRule,
		{StatusPreDepartureDocs, StatusRejected}: rejectRule,
		{StatusScreening, StatusRejected}:        rejectRule,
		{StatusDeferred, StatusRejected}:         rejectRule,
	}
}

func requireIdentity(_ context.Context, a *Attempt) ([]string, error) {
	var issues []string
	if a.Candidate.NationalID == "" {
		issues = append(issues, "National ID is required")
	}
	if strings.TrimSpace(a.Candidate.Name) == "" {
		issues = append(issues, "Name is required")
	}
	return issues, nil
}

func requirePlacement(_ context.Context, a *Attempt) ([]string, error) {
	var issues []string
	if a.Candidate.TradeID.IsNil() {
		issues = append(issues, "Trade not assigned")
	}
	if a.Candidate.CampusID.IsNil() {
		issues = append(issues, "Campus not assigned")
	}
	return issues, nil
}

func requireDocuments(phase documents.Phase) Guard {
	return func(ctx context.Context, a *Attempt) ([]string, error) {
		docs, err := a.Store.ListDocuments(ctx, a.Candidate.ID)
		if err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		return documents.Evaluate(docs, a.Checklist, phase, a.Now).Issues, nil
	}
}

func requireScreeningsPassed(ctx context.Context, a *Attempt) ([]string, error) {
	records, err := a.Store.ListScreenings(ctx, a.Candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("listing screenings: %w", err)
	}
	out := screening.Aggregate(records)
	if out.AllPassed {
		return nil, nil
	}
	return out.Issues, nil
}

func requireEnrollable(ctx context.Context, a *Attempt) ([]string, error) {
	issues, err := requireDocuments(documents.PhaseRegistration)(ctx, a)
	if err != nil {
		return nil, err
	}

	if _, err := a.Store.GetTraining(ctx, a.Candidate.ID); err == nil {
		issues = append(issues, "Candidate already enrolled in a batch")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, fmt.Errorf("loading training: %w", err)
	}

	if a.Payload.BatchID.IsNil() {
		return append(issues, "batch_id is required to start training"), nil
	}
	b, err := a.Store.GetBatch(ctx, a.Payload.BatchID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return append(issues, fmt.Sprintf("Batch %s not found", a.Payload.BatchID)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading batch: %w", err)
	}
	if !a.Candidate.TradeID.IsNil() && b.TradeID != a.Candidate.TradeID {
		issues = append(issues, fmt.Sprintf("Batch %s is for a different trade", b.Code))
	}
	if !b.HasCapacity() {
		a.capacityExceeded = true
		issues = append(issues, (&batch.CapacityExceededError{BatchID: b.ID, Code: b.Code, Capacity: b.Capacity}).Error())
	}
	return issues, nil
}

// enroll takes the seat first so a lost race leaves nothing else written.
func enroll(ctx context.Context, a *Attempt) error {
	batchID := a.Payload.BatchID
	if err := a.Store.IncrementEnrollment(ctx, batchID, a.Now); err != nil {
		return err
	}
	t := &training.Training{
		CandidateID: a.Candidate.ID,
		BatchID:     batchID,
		Status:      training.StatusInProgress,
		StartedAt:   a.Now,
	}
	if err := a.Store.SaveTraining(ctx, t); err != nil {
		return fmt.Errorf("creating training record: %w", err)
	}
	a.Candidate.BatchID = batchID
	a.Candidate.TrainingStatus = training.StatusInProgress
	return nil
}

func requireCertificate(ctx context.Context, a *Attempt) ([]string, error) {
	var issues []string
	_, err := a.Store.GetCertificate(ctx, a.Candidate.ID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		issues = append(issues, "Training certificate not issued")
	case err != nil:
		return nil, fmt.Errorf("loading certificate: %w", err)
	}
	if a.Candidate.TrainingStatus != training.StatusCompleted {
		issues = append(issues, "Training not completed")
	}
	return issues, nil
}

func openVisaProcess(ctx context.Context, a *Attempt) error {
	if err := a.Store.SaveVisaProcess(ctx, visa.NewProcess(a.Candidate.ID, a.Now)); err != nil {
		return fmt.Errorf("opening visa process: %w", err)
	}
	return nil
}

func requireVisaIssued(ctx context.Context, a *Attempt) ([]string, error) {
	p, err := a.Store.GetVisaProcess(ctx, a.Candidate.ID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return []string{"Visa process not started"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading visa process: %w", err)
	}
	if !p.IsIssued() {
		return []string{"Visa not issued"}, nil
	}
	return nil, nil
}

func requireBriefing(ctx context.Context, a *Attempt) ([]string, error) {
	d, err := a.Store.GetDeparture(ctx, a.Candidate.ID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return []string{"Departure record missing"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading departure: %w", err)
	}
	return d.ReadyToDepart(), nil
}

func markDeparted(ctx context.Context, a *Attempt) error {
	d, err := a.Store.GetDeparture(ctx, a.Candidate.ID)
	if err != nil {
		return fmt.Errorf("loading departure: %w", err)
	}
	d.MarkDeparted(a.Now)
	if err := a.Store.SaveDeparture(ctx, d); err != nil {
		return fmt.Errorf("saving departure: %w", err)
	}
	return nil
}

func requireReason(_ context.Context, a *Attempt) ([]string, error) {
	if strings.TrimSpace(a.Payload.Reason) == "" {
		return []string{"A reason is required"}, nil
	}
	return nil, nil
}

func recordReason(_ context.Context, a *Attempt) error {
	a.Candidate.Remarks = strings.TrimSpace(a.Payload.Reason)
	return nil
}
