package training

import (
	"time"

	"github.com/shopspring/decimal"

	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

// Status is the training sub-state, meaningful only while the candidate's
// lifecycle status is training.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Training is created when a candidate joins a batch.
type Training struct {
	CandidateID id.CandidateID `json:"candidate_id"`
	BatchID     id.BatchID     `json:"batch_id"`
	Status      Status         `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// Attendance is one day's mark. There is at most one row per date.
type Attendance struct {
	CandidateID id.CandidateID `json:"candidate_id"`
	BatchID     id.BatchID     `json:"batch_id"`
	Date        time.Time      `json:"date"`
	Present     bool           `json:"present"`
}

// AssessmentType distinguishes interim from final evaluations.
type AssessmentType string

const (
	AssessmentMidterm   AssessmentType = "midterm"
	AssessmentPractical AssessmentType = "practical"
	AssessmentFinal     AssessmentType = "final"
)

func ParseAssessmentType(s string) (AssessmentType, error) {
	switch t := AssessmentType(s); t {
	case AssessmentMidterm, AssessmentPractical, AssessmentFinal:
		return t, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "invalid assessment type %q", s)
}

// Result is the computed outcome of an assessment.
type Result string

const (
	ResultPass Result = "pass"
	ResultFail Result = "fail"
)

// DefaultPassPercentage is the share of total marks needed to pass.
var DefaultPassPercentage = decimal.NewFromInt(50)

// Assessment is a scored evaluation. Result is derived from the score.
type Assessment struct {
	CandidateID    id.CandidateID  `json:"candidate_id"`
	BatchID        id.BatchID      `json:"batch_id"`
	Type           AssessmentType  `json:"type"`
	Score          decimal.Decimal `json:"score"`
	TotalMarks     decimal.Decimal `json:"total_marks"`
	PassPercentage decimal.Decimal `json:"pass_percentage"`
	Result         Result          `json:"result"`
	AssessedAt     time.Time       `json:"assessed_at"`
}

// NewAssessment validates the score and computes the result.
func NewAssessment(candidateID id.CandidateID, batchID id.BatchID, t AssessmentType, score, total decimal.Decimal, now time.Time) (*Assessment, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, dErrors.New(dErrors.CodeValidation, "total marks must be positive")
	}
	if score.IsNegative() || score.GreaterThan(total) {
		return nil, dErrors.Newf(dErrors.CodeValidation, "score must be between 0 and %s", total)
	}
	a := &Assessment{
		CandidateID:    candidateID,
		BatchID:        batchID,
		Type:           t,
		Score:          score,
		TotalMarks:     total,
		PassPercentage: DefaultPassPercentage,
		AssessedAt:     now,
	}
	a.Result = a.computeResult()
	return a, nil
}

// Percentage is score over total, times 100.
func (a Assessment) Percentage() decimal.Decimal {
	if a.TotalMarks.IsZero() {
		return decimal.Zero
	}
	return a.Score.Mul(hundred).Div(a.TotalMarks)
}

func (a Assessment) computeResult() Result {
	if a.TotalMarks.IsPositive() && a.Score.Mul(hundred).GreaterThanOrEqual(a.PassPercentage.Mul(a.TotalMarks)) {
		return ResultPass
	}
	return ResultFail
}

// Certificate is issued once per candidate on completion.
type Certificate struct {
	CandidateID id.CandidateID `json:"candidate_id"`
	BatchID     id.BatchID     `json:"batch_id"`
	Number      string         `json:"number"`
	IssuedAt    time.Time      `json:"issued_at"`
}
