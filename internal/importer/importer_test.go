package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"wasl/internal/lifecycle"
	"wasl/internal/lifecycle/service"
	"wasl/internal/lifecycle/store"
	dErrors "wasl/pkg/domain-errors"
)

type ImporterSuite struct {
	suite.Suite
	ctx   context.Context
	store *store.InMemoryStore
	svc   *service.Service
}

func TestImporterSuite(t *testing.T) {
	suite.Run(t, new(ImporterSuite))
}

func (s *ImporterSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemoryStore()
	logger := slog.New(slog.DiscardHandler)
	s.svc = service.New(s.store, lifecycle.NewEngine(lifecycle.WithLogger(logger)), service.WithLogger(logger))
}

func (s *ImporterSuite) importer(opts ...Option) *Importer {
	return New(s.svc, append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)...)
}

func (s *ImporterSuite) TestCreatesAndDeduplicates() {
	trade := uuid.New().String()
	file := strings.Join([]string{
		"CNIC,Name,Phone,District,Trade_ID,Campus_ID",
		"35202-1234567-1,Asad Ali,03001234567,Lahore," + trade + ",",
		"3520212345671,Asad Ali again,,,,",
		"3520298765432,Bilal Khan,,Kasur,,",
		",No CNIC,,,,",
		"12345,Short CNIC,,,,",
		"3520211111111,Bad Trade,,,welding,",
		"",
		"3520222222222,Zara Noor,,,,",
	}, "\n")

	report, err := s.importer().Import(s.ctx, strings.NewReader(file))
	s.Require().NoError(err)

	s.Equal(7, report.Total)
	s.Equal(3, report.Created)
	s.Equal(1, report.Duplicates)
	s.Equal(3, report.Invalid)
	s.Equal(0, report.Listed)

	s.Equal(OutcomeCreated, report.Rows[0].Outcome)
	s.Regexp(`^BTV-\d{4}-\d{6}$`, report.Rows[0].ApplicationID)
	s.Equal(lifecycle.StatusNew, report.Rows[0].Status)
	s.Equal("*********5671", report.Rows[0].NationalID)

	s.Equal(OutcomeDuplicate, report.Rows[1].Outcome)
	s.Equal([]string{"CNIC already appears on line 2"}, report.Rows[1].Issues)

	s.Equal([]string{"cnic is required"}, report.Rows[3].Issues)
	s.Equal([]string{"national_id must have 13 digits"}, report.Rows[4].Issues)
	s.Equal([]string{"trade_id must be a UUID"}, report.Rows[5].Issues)
	s.Equal(9, report.Rows[6].Line)

	counts, err := s.store.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, counts[lifecycle.StatusNew])
}

func (s *ImporterSuite) TestDuplicateAgainstStore() {
	_, err := s.svc.CreateCandidate(s.ctx, service.CreateCandidateInput{NationalID: "3520212345671", Name: "Existing"})
	s.Require().NoError(err)

	report, err := s.importer().Import(s.ctx, strings.NewReader("cnic,name\n35202-1234567-1,Someone\n"))
	s.Require().NoError(err)
	s.Equal(1, report.Duplicates)
	s.Equal([]string{"CNIC already registered"}, report.Rows[0].Issues)
}

func (s *ImporterSuite) TestTransitionsToListed() {
	report, err := s.importer(WithTarget("listed")).Import(s.ctx,
		strings.NewReader("national_id,full_name\n3520212345671,Asad Ali\n3520298765432,Bilal Khan\n"))
	s.Require().NoError(err)
	s.Equal(2, report.Created)
	s.Equal(2, report.Listed)
	for _, row := range report.Rows {
		s.Equal(lifecycle.StatusListed, row.Status)
		s.Empty(row.Issues)
	}
}

func (s *ImporterSuite) TestDryRunCreatesNothing() {
	report, err := s.importer(WithDryRun(true)).Import(s.ctx, strings.NewReader("cnic,name\n3520212345671,Asad Ali\n"))
	s.Require().NoError(err)
	s.Equal(1, report.Created)

	counts, err := s.store.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Zero(counts[lifecycle.StatusNew])
}

func (s *ImporterSuite) TestHeaderErrors() {
	_, err := s.importer().Import(s.ctx, strings.NewReader(""))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.importer().Import(s.ctx, strings.NewReader("phone,district\n0300,Lahore\n"))
	s.Require().Error(err)
	s.Equal("missing required columns: cnic, name", err.Error())
}

func (s *ImporterSuite) TestWriteRejects() {
	report, err := s.importer().Import(s.ctx, strings.NewReader("name,cnic\nAsad Ali,3520212345671\nNo Digits,abc\n"))
	s.Require().NoError(err)

	var buf bytes.Buffer
	s.Require().NoError(report.WriteRejects(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal([]string{"cnic", "name", "phone", "district", "trade_id", "campus_id", "line", "outcome", "issues"}, records[0])
	s.Equal("abc", records[1][0])
	s.Equal("No Digits", records[1][1])
	s.Equal("3", records[1][6])
	s.Equal("invalid", records[1][7])
}

func TestNormalizeHeaders(t *testing.T) {
	index, err := NormalizeHeaders([]string{"\ufeffCNIC No", " Full Name ", "Mobile", "Trade"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"cnic": 0, "name": 1, "phone": 2, "trade_id": 3}, index)

	_, err = NormalizeHeaders([]string{"cnic", "national_id", "name"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"cnic" appears more than once`)
}
