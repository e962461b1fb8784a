package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"wasl/internal/lifecycle"
	"wasl/internal/training"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
	"wasl/pkg/platform/audit"
	"wasl/pkg/platform/sentinel"
)

// RecordAttendance marks one training day. Marking the same date again
// replaces the earlier mark.
func (s *Service) RecordAttendance(ctx context.Context, candidateID id.CandidateID, date time.Time, present bool) (*training.Attendance, error) {
	if date.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "date is required")
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if day.After(s.now()) {
		return nil, dErrors.New(dErrors.CodeValidation, "attendance cannot be recorded for a future date")
	}

	var rec *training.Attendance
	err := s.withTraining(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate, t *training.Training) error {
		a := training.Attendance{CandidateID: c.ID, BatchID: t.BatchID, Date: day, Present: present}
		if err := store.UpsertAttendance(ctx, a); err != nil {
			return translate(err, "attendance")
		}
		rec = &a
		return s.emit(ctx, c, audit.EventAttendanceRecorded, func(e *audit.Event) {
			e.Subject = day.Format(time.DateOnly)
			e.Decision = "absent"
			if present {
				e.Decision = "present"
			}
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// RecordAssessment stores a scored assessment; the pass/fail result is derived.
func (s *Service) RecordAssessment(ctx context.Context, candidateID id.CandidateID, assessmentType string, score, total decimal.Decimal) (*training.Assessment, error) {
	t, err := training.ParseAssessmentType(assessmentType)
	if err != nil {
		return nil, err
	}
	var rec *training.Assessment
	err = s.withTraining(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate, tr *training.Training) error {
		a, err := training.NewAssessment(c.ID, tr.BatchID, t, score, total, s.now())
		if err != nil {
			return err
		}
		if err := store.AddAssessment(ctx, a); err != nil {
			return translate(err, "assessment")
		}
		rec = a
		return s.emit(ctx, c, audit.EventAssessmentRecorded, func(e *audit.Event) {
			e.Subject = string(a.Type)
			e.Decision = string(a.Result)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CertificateResult mirrors lifecycle.Result: unmet conditions are data.
type CertificateResult struct {
	Issued      bool                  `json:"issued"`
	Certificate *training.Certificate `json:"certificate,omitempty"`
	Progress    training.Progress     `json:"progress"`
	Issues      []string              `json:"issues"`
}

// IssueCertificate issues the training certificate when attendance,
// assessments and the final assessment all qualify. It completes the
// training record but leaves the lifecycle status to the engine.
func (s *Service) IssueCertificate(ctx context.Context, candidateID id.CandidateID) (CertificateResult, error) {
	var (
		result CertificateResult
		event  lifecycle.CertificateIssued
	)
	err := s.withTraining(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate, tr *training.Training) error {
		if _, err := store.GetCertificate(ctx, c.ID); err == nil {
			return dErrors.New(dErrors.CodeConflict, "certificate already issued")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return translate(err, "certificate")
		}

		attendance, err := store.ListAttendance(ctx, c.ID)
		if err != nil {
			return translate(err, "attendance")
		}
		assessments, err := store.ListAssessments(ctx, c.ID)
		if err != nil {
			return translate(err, "assessment")
		}
		progress := training.Compute(attendance, assessments, s.attendanceThreshold)
		result.Progress = progress
		if !progress.EligibleForCertificate {
			result.Issues = progress.Issues
			return nil
		}

		b, err := store.GetBatch(ctx, tr.BatchID)
		if err != nil {
			return translate(err, "batch")
		}
		seq, err := store.NextCertificateSequence(ctx, b.ID)
		if err != nil {
			return translate(err, "certificate sequence")
		}
		now := s.now()
		cert := &training.Certificate{
			CandidateID: c.ID,
			BatchID:     b.ID,
			Number:      training.CertificateNumber(b.Code, seq),
			IssuedAt:    now,
		}
		if err := store.CreateCertificate(ctx, cert); err != nil {
			return translate(err, "certificate")
		}

		tr.Status = training.StatusCompleted
		tr.CompletedAt = &now
		if err := store.SaveTraining(ctx, tr); err != nil {
			return translate(err, "training")
		}
		c.TrainingStatus = training.StatusCompleted
		c.UpdatedAt = now
		if err := store.UpdateCandidate(ctx, c); err != nil {
			return translate(err, "candidate")
		}

		result.Issued = true
		result.Certificate = cert
		result.Issues = []string{}
		event = lifecycle.CertificateIssued{CandidateID: c.ID, BatchID: b.ID, Number: cert.Number, At: now}
		return s.emit(ctx, c, audit.EventCertificateIssued, func(e *audit.Event) {
			e.Decision = cert.Number
		})
	})
	if err != nil {
		return CertificateResult{}, err
	}
	if result.Issued {
		s.logger.InfoContext(ctx, "certificate issued",
			"candidate_id", candidateID.String(),
			"certificate", result.Certificate.Number,
		)
		s.publish(ctx, []lifecycle.Event{event})
	}
	return result, nil
}

// withTraining narrows withCandidate to candidates in training with a
// training record.
func (s *Service) withTraining(ctx context.Context, candidateID id.CandidateID, fn func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate, t *training.Training) error) error {
	return s.withCandidate(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error {
		if err := requireStatus(c, lifecycle.StatusTraining); err != nil {
			return err
		}
		t, err := store.GetTraining(ctx, c.ID)
		if err != nil {
			return translate(err, "training")
		}
		return fn(ctx, store, c, t)
	})
}
