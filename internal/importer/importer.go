// Package importer loads intake candidates from CSV exports.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"wasl/internal/lifecycle"
	"wasl/internal/lifecycle/service"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

// Columns is the canonical header order.
var Columns = []string{"cnic", "name", "phone", "district", "trade_id", "campus_id"}

var requiredColumns = []string{"cnic", "name"}

// headerAliases maps spellings seen in district exports to canonical names.
var headerAliases = map[string]string{
	"national_id": "cnic",
	"cnic_no":     "cnic",
	"full_name":   "name",
	"candidate":   "name",
	"mobile":      "phone",
	"contact":     "phone",
	"trade":       "trade_id",
	"campus":      "campus_id",
}

// Service is the part of the lifecycle service an import drives.
type Service interface {
	CreateCandidate(ctx context.Context, in service.CreateCandidateInput) (*lifecycle.Candidate, error)
	Transition(ctx context.Context, candidateID id.CandidateID, target string, payload lifecycle.Payload) (lifecycle.Result, error)
}

// Row is one parsed CSV line.
type Row struct {
	CNIC     string `validate:"required,max=20"`
	Name     string `validate:"required,max=120"`
	Phone    string `validate:"omitempty,max=20"`
	District string `validate:"omitempty,max=60"`
	TradeID  string `validate:"omitempty,uuid"`
	CampusID string `validate:"omitempty,uuid"`
}

type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeFailed    Outcome = "failed"
)

// RowResult is the outcome of one line. Line is the file line, the header being 1.
type RowResult struct {
	Line          int
	NationalID    string
	Outcome       Outcome
	ApplicationID string
	Status        lifecycle.Status
	Issues        []string

	row Row
}

// Report summarises an import run.
type Report struct {
	Total      int
	Created    int
	Duplicates int
	Invalid    int
	Failed     int
	Listed     int
	Rows       []RowResult
}

// Importer reads candidates from CSV and creates them through Service.
type Importer struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
	target   string
	dryRun   bool
}

type Option func(*Importer)

func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) { i.logger = logger }
}

// WithTarget moves each created candidate on to target, usually "listed".
func WithTarget(target string) Option {
	return func(i *Importer) { i.target = strings.TrimSpace(target) }
}

// WithDryRun validates and deduplicates without creating anything.
func WithDryRun(dryRun bool) Option {
	return func(i *Importer) { i.dryRun = dryRun }
}

func New(svc Service, opts ...Option) *Importer {
	i := &Importer{
		service:  svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// NormalizeHeaders lowercases and trims headers, resolves aliases and maps
// each canonical column to its index. Missing required columns and repeated
// columns are errors.
func NormalizeHeaders(headers []string) (map[string]int, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		name = strings.ReplaceAll(name, " ", "_")
		if alias, ok := headerAliases[name]; ok {
			name = alias
		}
		if name == "" {
			continue
		}
		if _, dup := index[name]; dup {
			return nil, dErrors.Newf(dErrors.CodeValidation, "column %q appears more than once", name)
		}
		index[name] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, dErrors.Newf(dErrors.CodeValidation, "missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

// Import reads every row of r. Row problems are reported per line; only an
// unreadable file or a bad header fails the whole run. Rows are processed in
// file order so the first occurrence of a CNIC wins.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, dErrors.New(dErrors.CodeValidation, "file is empty")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "reading header")
	}
	index, err := NormalizeHeaders(headers)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	seen := make(map[id.NationalID]int)
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			line := 0
			if errors.As(err, &perr) {
				line = perr.Line
			}
			report.add(RowResult{Line: line, Outcome: OutcomeInvalid, Issues: []string{err.Error()}})
			continue
		}
		if blank(record) {
			continue
		}
		// Empty lines are skipped by the reader, so ask it for the line.
		line, _ := reader.FieldPos(0)
		report.add(i.importRow(ctx, line, record, index, seen))
	}

	i.logger.InfoContext(ctx, "candidate import finished",
		"total", report.Total,
		"created", report.Created,
		"duplicates", report.Duplicates,
		"invalid", report.Invalid,
		"failed", report.Failed,
		"listed", report.Listed,
		"dry_run", i.dryRun,
	)
	return report, nil
}

func (i *Importer) importRow(ctx context.Context, line int, record []string, index map[string]int, seen map[id.NationalID]int) RowResult {
	row := parseRow(record, index)
	res := RowResult{Line: line, row: row}

	if issues := i.check(row); len(issues) > 0 {
		res.Outcome, res.Issues = OutcomeInvalid, issues
		return res
	}
	nationalID, err := id.ParseNationalID(row.CNIC)
	if err != nil {
		res.Outcome, res.Issues = OutcomeInvalid, []string{messageOf(err)}
		return res
	}
	res.NationalID = nationalID.Masked()

	if first, ok := seen[nationalID]; ok {
		res.Outcome = OutcomeDuplicate
		res.Issues = []string{fmt.Sprintf("CNIC already appears on line %d", first)}
		return res
	}
	seen[nationalID] = line

	if i.dryRun {
		res.Outcome = OutcomeCreated
		return res
	}

	c, err := i.service.CreateCandidate(ctx, row.input())
	switch {
	case dErrors.HasCode(err, dErrors.CodeConflict):
		res.Outcome, res.Issues = OutcomeDuplicate, []string{"CNIC already registered"}
		return res
	case dErrors.HasCode(err, dErrors.CodeValidation), dErrors.HasCode(err, dErrors.CodeInvalidInput):
		res.Outcome, res.Issues = OutcomeInvalid, []string{messageOf(err)}
		return res
	case err != nil:
		i.logger.ErrorContext(ctx, "import row failed", "line", line, "error", err)
		res.Outcome, res.Issues = OutcomeFailed, []string{messageOf(err)}
		return res
	}
	res.Outcome = OutcomeCreated
	res.ApplicationID = c.ApplicationID
	res.Status = c.Status

	if i.target == "" {
		return res
	}
	tr, err := i.service.Transition(ctx, c.ID, i.target, lifecycle.Payload{})
	if err != nil {
		i.logger.WarnContext(ctx, "import transition failed", "line", line, "target", i.target, "error", err)
		res.Issues = []string{messageOf(err)}
		return res
	}
	res.Status = tr.Status
	res.Issues = tr.Issues
	return res
}

// check runs the struct tags and turns failures into readable issues.
func (i *Importer) check(row Row) []string {
	err := i.validate.Struct(row)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	issues := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		column := columnName(fe.Field())
		switch fe.Tag() {
		case "required":
			issues = append(issues, column+" is required")
		case "uuid":
			issues = append(issues, column+" must be a UUID")
		case "max":
			issues = append(issues, fmt.Sprintf("%s must be at most %s characters", column, fe.Param()))
		default:
			issues = append(issues, fmt.Sprintf("%s failed %s", column, fe.Tag()))
		}
	}
	return issues
}

func (r *Report) add(res RowResult) {
	r.Total++
	switch res.Outcome {
	case OutcomeCreated:
		r.Created++
		if res.Status == lifecycle.StatusListed {
			r.Listed++
		}
	case OutcomeDuplicate:
		r.Duplicates++
	case OutcomeInvalid:
		r.Invalid++
	case OutcomeFailed:
		r.Failed++
	}
	r.Rows = append(r.Rows, res)
}

// WriteRejects writes every row that was not created as CSV, with the line
// number and issues appended, so operators can fix and re-import them.
func (r *Report) WriteRejects(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, Columns...), "line", "outcome", "issues")); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if row.Outcome == OutcomeCreated {
			continue
		}
		rec := []string{
			row.row.CNIC, row.row.Name, row.row.Phone, row.row.District, row.row.TradeID, row.row.CampusID,
			strconv.Itoa(row.Line), string(row.Outcome), strings.Join(row.Issues, "; "),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseRow(record []string, index map[string]int) Row {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	return Row{
		CNIC:     get("cnic"),
		Name:     get("name"),
		Phone:    get("phone"),
		District: get("district"),
		TradeID:  get("trade_id"),
		CampusID: get("campus_id"),
	}
}

func (r Row) input() service.CreateCandidateInput {
	in := service.CreateCandidateInput{
		NationalID: r.CNIC,
		Name:       r.Name,
		Phone:      r.Phone,
		District:   r.District,
	}
	// The validator has already checked both ids.
	if t, err := id.ParseTradeID(r.TradeID); err == nil {
		in.TradeID = t
	}
	if c, err := id.ParseCampusID(r.CampusID); err == nil {
		in.CampusID = c
	}
	return in
}

func columnName(field string) string {
	switch field {
	case "CNIC":
		return "cnic"
	case "TradeID":
		return "trade_id"
	case "CampusID":
		return "campus_id"
	default:
		return strings.ToLower(field)
	}
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func messageOf(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
