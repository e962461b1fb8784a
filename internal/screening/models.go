package screening

import (
	"time"

	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

// Type is one of the three screening interviews.
type Type string

const (
	TypeDesk     Type = "desk"
	TypeCall     Type = "call"
	TypePhysical Type = "physical"
)

// RequiredTypes lists every screening a candidate must pass.
var RequiredTypes = []Type{TypeDesk, TypeCall, TypePhysical}

func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeDesk, TypeCall, TypePhysical:
		return t, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "invalid screening type %q", s)
}

// Status is the per-type screening state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusPassed     Status = "passed"
	StatusFailed     Status = "failed"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusInProgress, StatusPassed, StatusFailed:
		return st, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "invalid screening status %q", s)
}

// IsTerminal reports passed or failed.
func (s Status) IsTerminal() bool {
	return s == StatusPassed || s == StatusFailed
}

// CanTransitionTo encodes pending -> in_progress -> {passed | failed}.
// pending may also resolve directly.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusInProgress || target == StatusPassed || target == StatusFailed
	case StatusInProgress:
		return target == StatusPassed || target == StatusFailed
	default:
		return false
	}
}

// Screening is the single record per (candidate, type).
type Screening struct {
	CandidateID  id.CandidateID `json:"candidate_id"`
	Type         Type           `json:"type"`
	Status       Status         `json:"status"`
	Remarks      string         `json:"remarks,omitempty"`
	CallAttempts int            `json:"call_attempts"`
	ScreenedAt   *time.Time     `json:"screened_at,omitempty"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func New(candidateID id.CandidateID, t Type, now time.Time) *Screening {
	return &Screening{
		CandidateID: candidateID,
		Type:        t,
		Status:      StatusPending,
		UpdatedAt:   now,
	}
}
