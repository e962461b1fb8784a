package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"wasl/internal/departure"
	"wasl/internal/documents"
	"wasl/internal/lifecycle"
	"wasl/internal/screening"
	"wasl/internal/training"
	"wasl/internal/visa"
	id "wasl/pkg/domain"
	"wasl/pkg/platform/sentinel"
)

// Progress is the combined read model of every tracker for one candidate.
type Progress struct {
	Candidate             lifecycle.Candidate   `json:"candidate"`
	NextStatuses          []lifecycle.Status    `json:"next_statuses"`
	PreDepartureDocuments documents.Readiness   `json:"pre_departure_documents"`
	RegistrationDocuments documents.Readiness   `json:"registration_documents"`
	Documents             []documents.Document  `json:"documents"`
	Screening             screening.Outcome     `json:"screening"`
	Screenings            []screening.Screening `json:"screenings"`
	Training              *training.Training    `json:"training,omitempty"`
	TrainingProgress      *training.Progress    `json:"training_progress,omitempty"`
	Certificate           *training.Certificate `json:"certificate,omitempty"`
	Visa                  *visa.Process         `json:"visa,omitempty"`
	Departure             *departure.Departure  `json:"departure,omitempty"`
	Remittances           departure.Summary     `json:"remittances"`
}

// GetProgress reads every sub-record concurrently.
func (s *Service) GetProgress(ctx context.Context, candidateID id.CandidateID) (*Progress, error) {
	c, err := s.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p := &Progress{Candidate: *c, NextStatuses: nextStatuses(c.Status)}
	checklist := s.engine.Checklist()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := s.store.ListDocuments(gctx, c.ID)
		if err != nil {
			return translate(err, "document")
		}
		p.Documents = docs
		p.PreDepartureDocuments = documents.Evaluate(docs, checklist, documents.PhasePreDeparture, now)
		p.RegistrationDocuments = documents.Evaluate(docs, checklist, documents.PhaseRegistration, now)
		return nil
	})
	g.Go(func() error {
		recs, err := s.store.ListScreenings(gctx, c.ID)
		if err != nil {
			return translate(err, "screening")
		}
		p.Screenings = recs
		p.Screening = screening.Aggregate(recs)
		return nil
	})
	g.Go(func() error {
		t, err := optional(s.store.GetTraining(gctx, c.ID))
		if err != nil || t == nil {
			return translate(err, "training")
		}
		attendance, err := s.store.ListAttendance(gctx, c.ID)
		if err != nil {
			return translate(err, "attendance")
		}
		assessments, err := s.store.ListAssessments(gctx, c.ID)
		if err != nil {
			return translate(err, "assessment")
		}
		cert, err := optional(s.store.GetCertificate(gctx, c.ID))
		if err != nil {
			return translate(err, "certificate")
		}
		tp := training.Compute(attendance, assessments, s.attendanceThreshold)
		p.Training, p.TrainingProgress, p.Certificate = t, &tp, cert
		return nil
	})
	g.Go(func() error {
		v, err := optional(s.store.GetVisaProcess(gctx, c.ID))
		if err != nil {
			return translate(err, "visa process")
		}
		p.Visa = v
		return nil
	})
	g.Go(func() error {
		d, err := optional(s.store.GetDeparture(gctx, c.ID))
		if err != nil {
			return translate(err, "departure")
		}
		remittances, err := s.store.ListRemittances(gctx, c.ID)
		if err != nil {
			return translate(err, "remittance")
		}
		p.Departure = d
		p.Remittances = departure.Summarize(remittances)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

// optional turns a not-found lookup into a nil value.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

func nextStatuses(from lifecycle.Status) []lifecycle.Status {
	out := []lifecycle.Status{}
	for _, e := range lifecycle.Edges() {
		if e.From == from {
			out = append(out, e.To)
		}
	}
	return out
}
