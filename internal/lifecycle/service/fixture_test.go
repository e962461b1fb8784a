package service

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"wasl/internal/batch"
	"wasl/internal/documents"
	"wasl/internal/lifecycle"
	"wasl/internal/lifecycle/metrics"
	"wasl/internal/lifecycle/store"
	"wasl/internal/visa"
	id "wasl/pkg/domain"
	"wasl/pkg/platform/audit/publishers/compliance"
	auditmemory "wasl/pkg/platform/audit/store/memory"
)

var testNow = time.Date(2026, 5, 11, 9, 0, 0, 0, time.UTC)

// fixture walks candidates through the lifecycle by satisfying each guard
// the way an operator would.
type fixture struct {
	t        *testing.T
	ctx      context.Context
	svc      *Service
	store    *store.InMemoryStore
	audit    *auditmemory.InMemoryStore
	metrics  *metrics.Metrics
	tradeID  id.TradeID
	campusID id.CampusID
	cnicSeq  int
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	st := store.NewInMemoryStore()
	auditStore := auditmemory.NewInMemoryStore()
	logger := slog.New(slog.DiscardHandler)
	clock := func() time.Time { return testNow }
	m := metrics.NewWith(prometheus.NewRegistry())

	engine := lifecycle.NewEngine(lifecycle.WithClock(clock), lifecycle.WithLogger(logger))
	base := []Option{
		WithClock(clock),
		WithLogger(logger),
		WithMetrics(m),
		WithAuditPublisher(compliance.New(auditStore)),
	}
	svc := New(st, engine, append(base, opts...)...)
	svc.RegisterListeners()

	return &fixture{
		t:        t,
		ctx:      context.Background(),
		svc:      svc,
		store:    st,
		audit:    auditStore,
		metrics:  m,
		tradeID:  id.TradeID(uuid.New()),
		campusID: id.CampusID(uuid.New()),
	}
}

func (f *fixture) nextCNIC() string {
	f.cnicSeq++
	return fmt.Sprintf("35202%08d", f.cnicSeq)
}

// candidate creates an intake record with trade and campus assigned.
func (f *fixture) candidate() *lifecycle.Candidate {
	f.t.Helper()
	c, err := f.svc.CreateCandidate(f.ctx, CreateCandidateInput{
		NationalID: f.nextCNIC(),
		Name:       "Ali Raza",
		District:   "Lahore",
		TradeID:    f.tradeID,
		CampusID:   f.campusID,
	})
	require.NoError(f.t, err)
	return c
}

func (f *fixture) reload(c *lifecycle.Candidate) *lifecycle.Candidate {
	f.t.Helper()
	got, err := f.svc.GetCandidate(f.ctx, c.ID)
	require.NoError(f.t, err)
	return got
}

func (f *fixture) advance(c *lifecycle.Candidate, target lifecycle.Status, payload lifecycle.Payload) {
	f.t.Helper()
	res, err := f.svc.Transition(f.ctx, c.ID, string(target), payload)
	require.NoError(f.t, err)
	require.True(f.t, res.Success, "transition to %s rejected: %v", target, res.Issues)
}

func (f *fixture) verifyDocs(c *lifecycle.Candidate, items ...documents.ItemCode) {
	f.t.Helper()
	for _, item := range items {
		d, err := f.svc.UploadDocument(f.ctx, c.ID, UploadDocumentInput{Item: item, FileRef: "s3://docs/" + string(item)})
		require.NoError(f.t, err)
		_, err = f.svc.VerifyDocument(f.ctx, c.ID, d.ID)
		require.NoError(f.t, err)
	}
}

var preDepartureItems = []documents.ItemCode{
	documents.ItemCNIC, documents.ItemPassport, documents.ItemDomicile, documents.ItemFRC, documents.ItemPCC,
}

func (f *fixture) toScreening(c *lifecycle.Candidate) {
	f.t.Helper()
	f.advance(c, lifecycle.StatusListed, lifecycle.Payload{})
	f.advance(c, lifecycle.StatusPreDepartureDocs, lifecycle.Payload{})
	f.verifyDocs(c, preDepartureItems...)
	f.advance(c, lifecycle.StatusScreening, lifecycle.Payload{})
}

// toRegistered relies on the all-passed listener to advance the candidate.
func (f *fixture) toRegistered(c *lifecycle.Candidate) {
	f.t.Helper()
	f.toScreening(c)
	for _, typ := range []string{"desk", "call", "physical"} {
		_, err := f.svc.RecordScreening(f.ctx, c.ID, typ, "passed", "")
		require.NoError(f.t, err)
	}
	require.Equal(f.t, lifecycle.StatusRegistered, f.reload(c).Status)
	f.verifyDocs(c, documents.ItemPhotograph, documents.ItemUndertaking)
}

func (f *fixture) batch(code string, capacity int) *batch.Batch {
	f.t.Helper()
	b, err := f.svc.CreateBatch(f.ctx, CreateBatchInput{
		Code:      code,
		CampusID:  f.campusID,
		TradeID:   f.tradeID,
		Capacity:  capacity,
		StartDate: testNow.AddDate(0, 0, -30),
		EndDate:   testNow.AddDate(0, 2, 0),
	})
	require.NoError(f.t, err)
	return b
}

func (f *fixture) toTraining(c *lifecycle.Candidate, b *batch.Batch) {
	f.t.Helper()
	f.toRegistered(c)
	f.advance(c, lifecycle.StatusTraining, lifecycle.Payload{BatchID: b.ID})
}

// attend records present days out of total, most recent first.
func (f *fixture) attend(c *lifecycle.Candidate, present, total int) {
	f.t.Helper()
	for i := 0; i < total; i++ {
		_, err := f.svc.RecordAttendance(f.ctx, c.ID, testNow.AddDate(0, 0, -i), i < present)
		require.NoError(f.t, err)
	}
}

func (f *fixture) assess(c *lifecycle.Candidate, typ string, score int64) {
	f.t.Helper()
	_, err := f.svc.RecordAssessment(f.ctx, c.ID, typ, decimal.NewFromInt(score), decimal.NewFromInt(100))
	require.NoError(f.t, err)
}

func (f *fixture) toVisaProcess(c *lifecycle.Candidate, b *batch.Batch) {
	f.t.Helper()
	f.toTraining(c, b)
	f.attend(c, 10, 10)
	f.assess(c, "final", 80)
	res, err := f.svc.IssueCertificate(f.ctx, c.ID)
	require.NoError(f.t, err)
	require.True(f.t, res.Issued, "certificate refused: %v", res.Issues)
	f.advance(c, lifecycle.StatusVisaProcess, lifecycle.Payload{})
}

func (f *fixture) clearVisa(c *lifecycle.Candidate) {
	f.t.Helper()
	steps := []struct{ stage, status, value string }{
		{string(visa.StageInterview), "passed", ""},
		{string(visa.StageTakamol), "passed", ""},
		{string(visa.StageMedical), "fit", ""},
		{string(visa.StageBiometric), "completed", ""},
		{string(visa.StageENumber), "generated", "E-778812"},
		{string(visa.StageVisa), "issued", "V-5521"},
	}
	for _, s := range steps {
		_, err := f.svc.UpdateVisaStage(f.ctx, c.ID, s.stage, s.status, s.value)
		require.NoError(f.t, err, "stage %s", s.stage)
	}
}

func (f *fixture) toDeparted(c *lifecycle.Candidate, b *batch.Batch) {
	f.t.Helper()
	f.toVisaProcess(c, b)
	f.clearVisa(c)
	f.advance(c, lifecycle.StatusReady, lifecycle.Payload{})
	_, err := f.svc.RecordDeparture(f.ctx, c.ID, DepartureInput{FlightNumber: "pk741", Destination: "Riyadh", DepartureDate: testNow.AddDate(0, 0, 7)})
	require.NoError(f.t, err)
	_, err = f.svc.CompleteBriefing(f.ctx, c.ID)
	require.NoError(f.t, err)
	f.advance(c, lifecycle.StatusDeparted, lifecycle.Payload{})
}
