package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"wasl/internal/documents"
	"wasl/internal/lifecycle"
	"wasl/internal/training"
	"wasl/internal/visa"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
	"wasl/pkg/platform/audit"
	"wasl/pkg/platform/audit/publishers/compliance"
)

type ServiceSuite struct {
	suite.Suite
	f *fixture
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.f = newFixture(s.T())
}

func (s *ServiceSuite) TestCreateCandidate() {
	s.Run("generates application id and starts in new", func() {
		c := s.f.candidate()
		s.Equal(lifecycle.StatusNew, c.Status)
		s.Equal(training.StatusNotStarted, c.TrainingStatus)
		s.Regexp(`^BTV-2026-\d{6}$`, c.ApplicationID)
	})

	s.Run("sequence increments per year", func() {
		a := s.f.candidate()
		b := s.f.candidate()
		s.NotEqual(a.ApplicationID, b.ApplicationID)
	})

	s.Run("duplicate CNIC is a conflict", func() {
		_, err := s.f.svc.CreateCandidate(s.f.ctx, CreateCandidateInput{NationalID: "35202-1234567-1", Name: "First"})
		s.Require().NoError(err)
		_, err = s.f.svc.CreateCandidate(s.f.ctx, CreateCandidateInput{NationalID: "3520212345671", Name: "Second"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("malformed CNIC is invalid input", func() {
		_, err := s.f.svc.CreateCandidate(s.f.ctx, CreateCandidateInput{NationalID: "12345", Name: "Short"})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("name is required", func() {
		_, err := s.f.svc.CreateCandidate(s.f.ctx, CreateCandidateInput{NationalID: s.f.nextCNIC(), Name: "  "})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestTransitionOutcomes() {
	s.Run("unknown target is a validation error", func() {
		c := s.f.candidate()
		_, err := s.f.svc.Transition(s.f.ctx, c.ID, "emigrated", lifecycle.Payload{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("same status is rejected as already there", func() {
		c := s.f.candidate()
		res, err := s.f.svc.Transition(s.f.ctx, c.ID, "new", lifecycle.Payload{})
		s.Require().NoError(err)
		s.False(res.Success)
		s.Equal([]string{"already in new"}, res.Issues)
	})

	s.Run("edge outside the graph is rejected", func() {
		c := s.f.candidate()
		res, err := s.f.svc.Transition(s.f.ctx, c.ID, "training", lifecycle.Payload{})
		s.Require().NoError(err)
		s.Equal([]string{"cannot move from new to training"}, res.Issues)
		s.Equal(lifecycle.StatusNew, s.f.reload(c).Status)
	})

	s.Run("missing placement blocks pre-departure docs", func() {
		c, err := s.f.svc.CreateCandidate(s.f.ctx, CreateCandidateInput{NationalID: s.f.nextCNIC(), Name: "No Trade"})
		s.Require().NoError(err)
		s.f.advance(c, lifecycle.StatusListed, lifecycle.Payload{})

		res, err := s.f.svc.Transition(s.f.ctx, c.ID, "pre_departure_docs", lifecycle.Payload{})
		s.Require().NoError(err)
		s.False(res.Success)
		s.Equal([]string{"Trade not assigned", "Campus not assigned"}, res.Issues)

		_, err = s.f.svc.AssignPlacement(s.f.ctx, c.ID, PlacementInput{TradeID: s.f.tradeID, CampusID: s.f.campusID})
		s.Require().NoError(err)
		s.f.advance(c, lifecycle.StatusPreDepartureDocs, lifecycle.Payload{})
	})

	s.Run("rejection needs a reason and records it", func() {
		c := s.f.candidate()
		res, err := s.f.svc.Transition(s.f.ctx, c.ID, "rejected", lifecycle.Payload{})
		s.Require().NoError(err)
		s.Equal([]string{"A reason is required"}, res.Issues)

		s.f.advance(c, lifecycle.StatusRejected, lifecycle.Payload{Reason: "withdrew application"})
		got := s.f.reload(c)
		s.Equal(lifecycle.StatusRejected, got.Status)
		s.Equal("withdrew application", got.Remarks)
	})

	s.Run("legacy alias resolves to registered", func() {
		c := s.f.candidate()
		s.f.toScreening(c)
		res, err := s.f.svc.Transition(s.f.ctx, c.ID, "screening_passed", lifecycle.Payload{})
		s.Require().NoError(err)
		s.False(res.Success)
		s.Contains(res.Issues, "desk screening not started")
	})

	s.Run("deferral round trip", func() {
		c := s.f.candidate()
		s.f.toScreening(c)
		s.f.advance(c, lifecycle.StatusDeferred, lifecycle.Payload{Reason: "candidate travelling"})
		s.f.advance(c, lifecycle.StatusScreening, lifecycle.Payload{})
	})

	s.Run("unknown candidate is not found", func() {
		_, err := s.f.svc.Transition(s.f.ctx, id.CandidateID(uuid.New()), "listed", lifecycle.Payload{})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestDocumentsGateScreening() {
	c := s.f.candidate()
	s.f.advance(c, lifecycle.StatusListed, lifecycle.Payload{})
	s.f.advance(c, lifecycle.StatusPreDepartureDocs, lifecycle.Payload{})

	s.f.verifyDocs(c, documents.ItemCNIC, documents.ItemPassport, documents.ItemDomicile)
	for _, item := range []documents.ItemCode{documents.ItemFRC, documents.ItemPCC} {
		_, err := s.f.svc.UploadDocument(s.f.ctx, c.ID, UploadDocumentInput{Item: item, FileRef: "scan.pdf"})
		s.Require().NoError(err)
	}

	res, err := s.f.svc.Transition(s.f.ctx, c.ID, "screening", lifecycle.Payload{})
	s.Require().NoError(err)
	s.False(res.Success)
	s.Equal([]string{"FRC document not verified", "PCC document not verified"}, res.Issues)
	s.Equal(lifecycle.StatusPreDepartureDocs, s.f.reload(c).Status)

	s.Run("rejected upload names the reason", func() {
		docs, err := s.f.store.ListDocuments(s.f.ctx, c.ID)
		s.Require().NoError(err)
		for _, d := range docs {
			if d.Item == documents.ItemPCC {
				_, err := s.f.svc.RejectDocument(s.f.ctx, c.ID, d.ID, "blurred scan")
				s.Require().NoError(err)
			}
		}
		res, err := s.f.svc.Transition(s.f.ctx, c.ID, "screening", lifecycle.Payload{})
		s.Require().NoError(err)
		s.Contains(res.Issues, "PCC document rejected: blurred scan")
	})

	s.Run("unknown checklist item", func() {
		_, err := s.f.svc.UploadDocument(s.f.ctx, c.ID, UploadDocumentInput{Item: "visa_photo", FileRef: "x"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestScreeningCascade() {
	s.Run("all three passed auto-advances to registered", func() {
		c := s.f.candidate()
		s.f.toScreening(c)

		_, err := s.f.svc.RecordScreening(s.f.ctx, c.ID, "desk", "passed", "")
		s.Require().NoError(err)
		_, err = s.f.svc.RecordScreening(s.f.ctx, c.ID, "call", "passed", "")
		s.Require().NoError(err)
		s.Equal(lifecycle.StatusScreening, s.f.reload(c).Status)

		_, err = s.f.svc.RecordScreening(s.f.ctx, c.ID, "physical", "passed", "fit for trade")
		s.Require().NoError(err)
		s.Equal(lifecycle.StatusRegistered, s.f.reload(c).Status)
	})

	s.Run("any failure rejects regardless of other screenings", func() {
		c := s.f.candidate()
		s.f.toScreening(c)
		_, err := s.f.svc.RecordScreening(s.f.ctx, c.ID, "desk", "passed", "")
		s.Require().NoError(err)
		_, err = s.f.svc.RecordCallAttempt(s.f.ctx, c.ID)
		s.Require().NoError(err)

		_, err = s.f.svc.RecordScreening(s.f.ctx, c.ID, "physical", "failed", "vision test")
		s.Require().NoError(err)

		got := s.f.reload(c)
		s.Equal(lifecycle.StatusRejected, got.Status)
		s.Equal("physical screening failed: vision test", got.Remarks)
	})

	s.Run("failure rejects in the same transaction without listeners", func() {
		c := s.f.candidate()
		s.f.toScreening(c)

		bare := New(s.f.store, lifecycle.NewEngine(lifecycle.WithClock(s.f.svc.now), lifecycle.WithLogger(s.f.svc.logger)),
			WithClock(s.f.svc.now),
			WithLogger(s.f.svc.logger),
			WithAuditPublisher(compliance.New(s.f.audit)),
		)
		var published []lifecycle.EventType
		bare.Dispatcher().Subscribe(lifecycle.EventTransitionOccurred, func(_ context.Context, e lifecycle.Event) error {
			published = append(published, e.Type())
			return nil
		})

		_, err := bare.RecordScreening(s.f.ctx, c.ID, "desk", "failed", "incomplete papers")
		s.Require().NoError(err)

		got := s.f.reload(c)
		s.Equal(lifecycle.StatusRejected, got.Status)
		s.Equal("desk screening failed: incomplete papers", got.Remarks)
		s.Equal([]lifecycle.EventType{lifecycle.EventTransitionOccurred}, published)

		events, err := s.f.audit.ListByCandidate(s.f.ctx, c.ID)
		s.Require().NoError(err)
		var actions []string
		for _, e := range events {
			actions = append(actions, e.Action)
		}
		s.Contains(actions, string(audit.EventScreeningRecorded))
		s.Contains(actions, string(audit.EventCandidateRejected))
	})

	s.Run("terminal screening is immutable", func() {
		c := s.f.candidate()
		s.f.toScreening(c)
		_, err := s.f.svc.RecordScreening(s.f.ctx, c.ID, "desk", "passed", "")
		s.Require().NoError(err)
		_, err = s.f.svc.RecordScreening(s.f.ctx, c.ID, "desk", "failed", "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("invalid status", func() {
		c := s.f.candidate()
		_, err := s.f.svc.RecordScreening(s.f.ctx, c.ID, "desk", "maybe", "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("screening outside screening phase", func() {
		c := s.f.candidate()
		_, err := s.f.svc.RecordScreening(s.f.ctx, c.ID, "desk", "passed", "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *ServiceSuite) TestCallAttempts() {
	c := s.f.candidate()
	s.f.toScreening(c)

	for i := 1; i <= 3; i++ {
		res, err := s.f.svc.RecordCallAttempt(s.f.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(i, res.Attempts)
		s.False(res.MaxAttemptsReached)
	}

	res, err := s.f.svc.RecordCallAttempt(s.f.ctx, c.ID)
	s.Require().NoError(err)
	s.True(res.MaxAttemptsReached)
	s.Equal(3, res.Attempts)

	rec, err := s.f.store.GetScreening(s.f.ctx, c.ID, "call")
	s.Require().NoError(err)
	s.Equal(3, rec.CallAttempts)
	s.Equal(lifecycle.StatusScreening, s.f.reload(c).Status)
}

func (s *ServiceSuite) TestStartTraining() {
	b := s.f.batch("ELEC-01", 5)

	s.Run("enrolls and consumes one seat", func() {
		c := s.f.candidate()
		s.f.toTraining(c, b)

		got := s.f.reload(c)
		s.Equal(lifecycle.StatusTraining, got.Status)
		s.Equal(training.StatusInProgress, got.TrainingStatus)
		s.Equal(b.ID, got.BatchID)

		stored, err := s.f.svc.GetBatch(s.f.ctx, b.ID)
		s.Require().NoError(err)
		s.Equal(1, stored.EnrollmentCount)

		s.Run("repeat attempt is a no-op rejection", func() {
			res, err := s.f.svc.Transition(s.f.ctx, c.ID, "training", lifecycle.Payload{BatchID: b.ID})
			s.Require().NoError(err)
			s.Equal([]string{"already in training"}, res.Issues)
			again, err := s.f.svc.GetBatch(s.f.ctx, b.ID)
			s.Require().NoError(err)
			s.Equal(1, again.EnrollmentCount)
		})
	})

	s.Run("batch id is required", func() {
		c := s.f.candidate()
		s.f.toRegistered(c)
		res, err := s.f.svc.Transition(s.f.ctx, c.ID, "training", lifecycle.Payload{})
		s.Require().NoError(err)
		s.Equal([]string{"batch_id is required to start training"}, res.Issues)
	})

	s.Run("registration documents are required", func() {
		c := s.f.candidate()
		s.f.toScreening(c)
		for _, typ := range []string{"desk", "call", "physical"} {
			_, err := s.f.svc.RecordScreening(s.f.ctx, c.ID, typ, "passed", "")
			s.Require().NoError(err)
		}
		res, err := s.f.svc.Transition(s.f.ctx, c.ID, "training", lifecycle.Payload{BatchID: b.ID})
		s.Require().NoError(err)
		s.Equal([]string{"Photograph document missing", "Undertaking document missing"}, res.Issues)
	})

	s.Run("full batch is reported as an issue", func() {
		full := s.f.batch("ELEC-02", 1)
		first := s.f.candidate()
		s.f.toTraining(first, full)

		second := s.f.candidate()
		s.f.toRegistered(second)
		res, err := s.f.svc.Transition(s.f.ctx, second.ID, "training", lifecycle.Payload{BatchID: full.ID})
		s.Require().NoError(err)
		s.False(res.Success)
		s.Equal([]string{"batch ELEC-02 is full (capacity 1)"}, res.Issues)
		s.True(res.CapacityExceeded)
	})
}

func (s *ServiceSuite) TestCertificate() {
	b := s.f.batch("WELD-07", 10)

	s.Run("attendance below threshold is refused", func() {
		c := s.f.candidate()
		s.f.toTraining(c, b)
		s.f.attend(c, 85, 100)
		s.f.assess(c, "final", 70)

		res, err := s.f.svc.IssueCertificate(s.f.ctx, c.ID)
		s.Require().NoError(err)
		s.False(res.Issued)
		s.Equal("85", res.Progress.AttendancePercentage.String())
		s.Equal([]string{"Attendance 85% below 90% threshold"}, res.Issues)
	})

	s.Run("failed assessment and missing final are named", func() {
		c := s.f.candidate()
		s.f.toTraining(c, b)
		s.f.attend(c, 10, 10)
		s.f.assess(c, "midterm", 41)

		res, err := s.f.svc.IssueCertificate(s.f.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal([]string{"midterm assessment failed (41/100)", "No final assessment recorded"}, res.Issues)
	})

	s.Run("qualified candidate gets a numbered certificate once", func() {
		c := s.f.candidate()
		s.f.toTraining(c, b)
		s.f.attend(c, 9, 10)
		s.f.assess(c, "final", 50)

		res, err := s.f.svc.IssueCertificate(s.f.ctx, c.ID)
		s.Require().NoError(err)
		s.Require().True(res.Issued, res.Issues)
		s.Equal("CERT-WELD-07-0001", res.Certificate.Number)
		s.Equal(training.StatusCompleted, s.f.reload(c).TrainingStatus)
		s.Equal(lifecycle.StatusTraining, s.f.reload(c).Status)

		_, err = s.f.svc.IssueCertificate(s.f.ctx, c.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("visa process needs the certificate", func() {
		c := s.f.candidate()
		s.f.toTraining(c, b)
		res, err := s.f.svc.Transition(s.f.ctx, c.ID, "visa_process", lifecycle.Payload{})
		s.Require().NoError(err)
		s.Equal([]string{"Training certificate not issued", "Training not completed"}, res.Issues)
	})
}

func (s *ServiceSuite) TestVisaGate() {
	b := s.f.batch("PLMB-02", 10)
	c := s.f.candidate()

	s.Run("updates refused before visa processing", func() {
		_, err := s.f.svc.UpdateVisaStage(s.f.ctx, c.ID, "interview", "passed", "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.f.toVisaProcess(c, b)
	_, err := s.f.svc.UpdateVisaStage(s.f.ctx, c.ID, "interview", "passed", "")
	s.Require().NoError(err)

	s.Run("skipping takamol is a prerequisite failure", func() {
		_, err := s.f.svc.UpdateVisaStage(s.f.ctx, c.ID, "medical", "fit", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnprocessable))
		s.Contains(err.Error(), "takamol not passed")
		var prereq *visa.PrerequisiteNotMetError
		s.Require().True(errors.As(err, &prereq))
		s.Equal(visa.StageTakamol, prereq.Stage)
	})

	s.Run("status outside the stage enum", func() {
		_, err := s.f.svc.UpdateVisaStage(s.f.ctx, c.ID, "takamol", "fit", "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("ready requires an issued visa", func() {
		res, err := s.f.svc.Transition(s.f.ctx, c.ID, "ready", lifecycle.Payload{})
		s.Require().NoError(err)
		s.Equal([]string{"Visa not issued"}, res.Issues)
	})
}

func (s *ServiceSuite) TestDepartureAndRemittances() {
	b := s.f.batch("DRV-11", 10)
	c := s.f.candidate()
	s.f.toVisaProcess(c, b)
	s.f.clearVisa(c)
	s.f.advance(c, lifecycle.StatusReady, lifecycle.Payload{})

	res, err := s.f.svc.Transition(s.f.ctx, c.ID, "departed", lifecycle.Payload{})
	s.Require().NoError(err)
	s.Equal([]string{"Departure record missing"}, res.Issues)

	_, err = s.f.svc.RecordDeparture(s.f.ctx, c.ID, DepartureInput{FlightNumber: "sv723", Destination: "Jeddah", DepartureDate: testNow.AddDate(0, 0, 3)})
	s.Require().NoError(err)
	res, err = s.f.svc.Transition(s.f.ctx, c.ID, "departed", lifecycle.Payload{})
	s.Require().NoError(err)
	s.Equal([]string{"Pre-departure briefing not completed"}, res.Issues)

	_, err = s.f.svc.RecordRemittance(s.f.ctx, c.ID, RemittanceInput{Amount: decimalFromString(s.T(), "100"), Currency: "SAR", TransferDate: testNow})
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = s.f.svc.CompleteBriefing(s.f.ctx, c.ID)
	s.Require().NoError(err)
	s.f.advance(c, lifecycle.StatusDeparted, lifecycle.Payload{})

	dep, err := s.f.store.GetDeparture(s.f.ctx, c.ID)
	s.Require().NoError(err)
	s.NotNil(dep.DepartedAt)

	s.Run("departed candidates are frozen", func() {
		res, err := s.f.svc.Transition(s.f.ctx, c.ID, "rejected", lifecycle.Payload{Reason: "late"})
		s.Require().NoError(err)
		s.False(res.Success)
		_, err = s.f.svc.RecordDeparture(s.f.ctx, c.ID, DepartureInput{FlightNumber: "x", DepartureDate: testNow})
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("remittances summarise per currency", func() {
		for _, amt := range []string{"1500.50", "499.50"} {
			_, err := s.f.svc.RecordRemittance(s.f.ctx, c.ID, RemittanceInput{Amount: decimalFromString(s.T(), amt), Currency: "sar", TransferDate: testNow, Purpose: "family"})
			s.Require().NoError(err)
		}
		p, err := s.f.svc.GetProgress(s.f.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(2, p.Remittances.Count)
		s.Equal("2000", p.Remittances.Totals["SAR"].String())
	})
}

func (s *ServiceSuite) TestGetProgress() {
	b := s.f.batch("TAIL-03", 4)
	c := s.f.candidate()
	s.f.toTraining(c, b)
	s.f.attend(c, 3, 4)

	p, err := s.f.svc.GetProgress(s.f.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(lifecycle.StatusTraining, p.Candidate.Status)
	s.Equal([]lifecycle.Status{lifecycle.StatusVisaProcess}, p.NextStatuses)
	s.True(p.PreDepartureDocuments.IsComplete)
	s.True(p.RegistrationDocuments.IsComplete)
	s.True(p.Screening.AllPassed)
	s.Require().NotNil(p.TrainingProgress)
	s.Equal("75", p.TrainingProgress.AttendancePercentage.String())
	s.Nil(p.Certificate)
	s.Nil(p.Visa)
	s.Nil(p.Departure)
}

func (s *ServiceSuite) TestBatches() {
	b := s.f.batch("HVAC-01", 2)

	s.Run("duplicate code conflicts", func() {
		_, err := s.f.svc.CreateBatch(s.f.ctx, CreateBatchInput{Code: "HVAC-01", Capacity: 3, TradeID: s.f.tradeID})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	c := s.f.candidate()
	s.f.toTraining(c, b)

	s.Run("capacity cannot drop below enrollment", func() {
		_, err := s.f.svc.ResizeBatch(s.f.ctx, b.ID, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		resized, err := s.f.svc.ResizeBatch(s.f.ctx, b.ID, 1)
		s.Require().NoError(err)
		s.Equal(1, resized.Capacity)

		other := s.f.batch("HVAC-02", 3)
		second := s.f.candidate()
		s.f.toTraining(second, other)
		third := s.f.candidate()
		s.f.toTraining(third, other)
		_, err = s.f.svc.ResizeBatch(s.f.ctx, other.ID, 1)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("trade mismatch", func() {
		foreign, err := s.f.svc.CreateBatch(s.f.ctx, CreateBatchInput{Code: "COOK-01", Capacity: 3, CampusID: s.f.campusID})
		s.Require().NoError(err)
		c := s.f.candidate()
		s.f.toRegistered(c)
		res, err := s.f.svc.Transition(s.f.ctx, c.ID, "training", lifecycle.Payload{BatchID: foreign.ID})
		s.Require().NoError(err)
		s.Equal([]string{"Batch COOK-01 is for a different trade"}, res.Issues)
	})
}

func (s *ServiceSuite) TestStatusReportAndAudit() {
	c := s.f.candidate()
	s.f.advance(c, lifecycle.StatusListed, lifecycle.Payload{})
	s.f.candidate()

	report, err := s.f.svc.StatusReport(s.f.ctx)
	s.Require().NoError(err)
	s.Equal(1, report[lifecycle.StatusNew])
	s.Equal(1, report[lifecycle.StatusListed])
	s.Contains(report, lifecycle.StatusDeparted)

	events, err := s.f.audit.ListByCandidate(s.f.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("candidate_created", events[0].Action)
	s.Equal("candidate_transitioned", events[1].Action)
	s.Equal("new", events[1].From)
	s.Equal("listed", events[1].To)
}

func (s *ServiceSuite) TestMisconfiguredEngine() {
	rules := lifecycle.DefaultRules()
	delete(rules, lifecycle.Edge{From: lifecycle.StatusNew, To: lifecycle.StatusListed})
	engine := lifecycle.NewEngine(lifecycle.WithRules(rules))
	s.Error(engine.Validate())

	svc := New(s.f.store, engine)
	c := s.f.candidate()
	_, err := svc.Transition(s.f.ctx, c.ID, "listed", lifecycle.Payload{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
	var cfgErr *lifecycle.ConfigurationError
	s.True(errors.As(err, &cfgErr))
	s.Equal(lifecycle.StatusNew, s.f.reload(c).Status)
}
