package store_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"wasl/internal/batch"
	"wasl/internal/departure"
	"wasl/internal/documents"
	"wasl/internal/lifecycle"
	"wasl/internal/screening"
	"wasl/internal/training"
	"wasl/internal/visa"
	id "wasl/pkg/domain"
	"wasl/pkg/platform/sentinel"
)

var now = time.Date(2026, 5, 11, 9, 0, 0, 0, time.UTC)

// storeSuite is the behaviour every lifecycle.Store must share. Concrete
// suites embed it and set store in SetupTest.
type storeSuite struct {
	suite.Suite
	ctx   context.Context
	store lifecycle.Store
	seq   int
}

func (s *storeSuite) candidate(status lifecycle.Status) *lifecycle.Candidate {
	s.seq++
	c, err := lifecycle.NewCandidate(
		id.CandidateID(uuid.New()),
		fmt.Sprintf("BTV-2026-%06d", s.seq),
		id.NationalID(fmt.Sprintf("35202%08d", s.seq)),
		"Usman Tariq",
		now.Add(time.Duration(s.seq)*time.Minute),
	)
	s.Require().NoError(err)
	c.Status = status
	s.Require().NoError(s.store.CreateCandidate(s.ctx, c))
	return c
}

func (s *storeSuite) batch(code string, capacity int) *batch.Batch {
	b, err := batch.New(id.BatchID(uuid.New()), code, id.CampusID(uuid.New()), id.TradeID(uuid.New()), capacity, now, now.AddDate(0, 3, 0), now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateBatch(s.ctx, b))
	return b
}

func (s *storeSuite) TestCandidates() {
	c := s.candidate(lifecycle.StatusNew)

	s.Run("round trip", func() {
		got, err := s.store.GetCandidate(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(c.NationalID, got.NationalID)
		s.Equal(lifecycle.StatusNew, got.Status)
		s.True(c.CreatedAt.Equal(got.CreatedAt))

		byCNIC, err := s.store.FindCandidateByNationalID(s.ctx, c.NationalID)
		s.Require().NoError(err)
		s.Equal(c.ID, byCNIC.ID)
	})

	s.Run("national id is unique", func() {
		dup := *c
		dup.ID = id.CandidateID(uuid.New())
		dup.ApplicationID = "BTV-2026-999999"
		s.ErrorIs(s.store.CreateCandidate(s.ctx, &dup), sentinel.ErrConflict)
	})

	s.Run("update and filter", func() {
		c.Status = lifecycle.StatusListed
		c.UpdatedAt = now.Add(time.Hour)
		s.Require().NoError(s.store.UpdateCandidate(s.ctx, c))
		s.candidate(lifecycle.StatusNew)

		listed, err := s.store.ListCandidates(s.ctx, lifecycle.CandidateFilter{Status: lifecycle.StatusListed})
		s.Require().NoError(err)
		s.Require().Len(listed, 1)
		s.Equal(c.ID, listed[0].ID)

		counts, err := s.store.CountByStatus(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, counts[lifecycle.StatusListed])
		s.Equal(1, counts[lifecycle.StatusNew])
	})

	s.Run("missing rows", func() {
		_, err := s.store.GetCandidate(s.ctx, id.CandidateID(uuid.New()))
		s.ErrorIs(err, sentinel.ErrNotFound)
		ghost := *c
		ghost.ID = id.CandidateID(uuid.New())
		s.ErrorIs(s.store.UpdateCandidate(s.ctx, &ghost), sentinel.ErrNotFound)
	})

	s.Run("application sequence is per year", func() {
		first, err := s.store.NextApplicationSequence(s.ctx, 2026)
		s.Require().NoError(err)
		second, err := s.store.NextApplicationSequence(s.ctx, 2026)
		s.Require().NoError(err)
		other, err := s.store.NextApplicationSequence(s.ctx, 2027)
		s.Require().NoError(err)
		s.Equal(first+1, second)
		s.Equal(1, other)
	})
}

func (s *storeSuite) TestDocuments() {
	c := s.candidate(lifecycle.StatusPreDepartureDocs)
	doc, err := documents.NewDocument(id.DocumentID(uuid.New()), c.ID, documents.ItemPassport, "passport.pdf", nil, documents.DefaultChecklist(), now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveDocument(s.ctx, doc))

	s.Require().NoError(doc.Verify(now))
	s.Require().NoError(s.store.SaveDocument(s.ctx, doc))

	got, err := s.store.GetDocument(s.ctx, c.ID, doc.ID)
	s.Require().NoError(err)
	s.True(got.IsVerified())

	_, err = s.store.GetDocument(s.ctx, id.CandidateID(uuid.New()), doc.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	all, err := s.store.ListDocuments(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *storeSuite) TestScreenings() {
	c := s.candidate(lifecycle.StatusScreening)
	rec := screening.New(c.ID, screening.TypeCall, now)
	_, err := rec.RecordCallAttempt(3, now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveScreening(s.ctx, rec))

	s.Require().NoError(rec.Apply(screening.StatusPassed, "reachable", now))
	s.Require().NoError(s.store.SaveScreening(s.ctx, rec))

	got, err := s.store.GetScreening(s.ctx, c.ID, screening.TypeCall)
	s.Require().NoError(err)
	s.Equal(screening.StatusPassed, got.Status)
	s.Equal(1, got.CallAttempts)
	s.Equal("reachable", got.Remarks)

	_, err = s.store.GetScreening(s.ctx, c.ID, screening.TypeDesk)
	s.ErrorIs(err, sentinel.ErrNotFound)

	all, err := s.store.ListScreenings(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *storeSuite) TestBatchCapacity() {
	b := s.batch("ELEC-01", 2)

	s.Require().NoError(s.store.IncrementEnrollment(s.ctx, b.ID, now))
	s.Require().NoError(s.store.IncrementEnrollment(s.ctx, b.ID, now))

	err := s.store.IncrementEnrollment(s.ctx, b.ID, now)
	var capErr *batch.CapacityExceededError
	s.Require().True(errors.As(err, &capErr))
	s.Equal("ELEC-01", capErr.Code)

	got, err := s.store.GetBatch(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(2, got.EnrollmentCount)

	_, err = s.store.ResizeBatch(s.ctx, b.ID, 1, now)
	s.ErrorIs(err, sentinel.ErrInvalidState)

	resized, err := s.store.ResizeBatch(s.ctx, b.ID, 3, now)
	s.Require().NoError(err)
	s.Equal(3, resized.Capacity)

	dup, err := batch.New(id.BatchID(uuid.New()), "ELEC-01", id.CampusID{}, id.TradeID{}, 5, now, now, now)
	s.Require().NoError(err)
	s.ErrorIs(s.store.CreateBatch(s.ctx, dup), sentinel.ErrConflict)

	_, err = s.store.ResizeBatch(s.ctx, id.BatchID(uuid.New()), 3, now)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *storeSuite) TestTraining() {
	b := s.batch("WELD-01", 10)
	c := s.candidate(lifecycle.StatusTraining)

	t := &training.Training{CandidateID: c.ID, BatchID: b.ID, Status: training.StatusInProgress, StartedAt: now}
	s.Require().NoError(s.store.SaveTraining(s.ctx, t))

	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.UpsertAttendance(s.ctx, training.Attendance{CandidateID: c.ID, BatchID: b.ID, Date: day, Present: false}))
	s.Require().NoError(s.store.UpsertAttendance(s.ctx, training.Attendance{CandidateID: c.ID, BatchID: b.ID, Date: day, Present: true}))
	s.Require().NoError(s.store.UpsertAttendance(s.ctx, training.Attendance{CandidateID: c.ID, BatchID: b.ID, Date: day.AddDate(0, 0, 1), Present: false}))

	att, err := s.store.ListAttendance(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().Len(att, 2)
	s.True(att[0].Present)
	s.False(att[1].Present)

	a, err := training.NewAssessment(c.ID, b.ID, training.AssessmentFinal, decimal.NewFromInt(72), decimal.NewFromInt(100), now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.AddAssessment(s.ctx, a))
	assessments, err := s.store.ListAssessments(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().Len(assessments, 1)
	s.True(assessments[0].Score.Equal(decimal.NewFromInt(72)))

	seq, err := s.store.NextCertificateSequence(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(1, seq)
	cert := &training.Certificate{CandidateID: c.ID, BatchID: b.ID, Number: training.CertificateNumber(b.Code, seq), IssuedAt: now}
	s.Require().NoError(s.store.CreateCertificate(s.ctx, cert))
	s.ErrorIs(s.store.CreateCertificate(s.ctx, cert), sentinel.ErrConflict)

	got, err := s.store.GetCertificate(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("CERT-WELD-01-0001", got.Number)

	stored, err := s.store.GetTraining(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(b.ID, stored.BatchID)
}

func (s *storeSuite) TestVisaAndDeparture() {
	c := s.candidate(lifecycle.StatusVisaProcess)

	p := visa.NewProcess(c.ID, now)
	s.Require().NoError(s.store.SaveVisaProcess(s.ctx, p))
	s.Require().NoError(visa.Apply(p, visa.Update{Stage: visa.StageInterview, Status: visa.StatusPassed}, now))
	s.Require().NoError(s.store.SaveVisaProcess(s.ctx, p))

	gotVisa, err := s.store.GetVisaProcess(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(visa.StatusPassed, gotVisa.InterviewStatus)
	s.Equal(visa.StatusPending, gotVisa.TakamolStatus)

	d, err := departure.New(c.ID, "pk741", "Riyadh", now.AddDate(0, 0, 7), now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveDeparture(s.ctx, d))
	gotDep, err := s.store.GetDeparture(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("PK741", gotDep.FlightNumber)

	r, err := departure.NewRemittance(id.RemittanceID(uuid.New()), c.ID, decimal.RequireFromString("350.25"), "usd", now, "school fees", now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.AddRemittance(s.ctx, r))
	rs, err := s.store.ListRemittances(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().Len(rs, 1)
	s.Equal("USD", rs[0].Currency)
	s.True(rs[0].Amount.Equal(decimal.RequireFromString("350.25")))
}
