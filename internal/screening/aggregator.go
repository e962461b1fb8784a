// Package screening implements the desk/call/physical screening state
// machines and the aggregate signal the lifecycle engine consumes.
package screening

import (
	"fmt"
	"time"

	dErrors "wasl/pkg/domain-errors"
)

// DefaultMaxCallAttempts caps call screening retries.
const DefaultMaxCallAttempts = 3

// Signal is what a recorded screening means for the candidate.
type Signal string

const (
	// SignalNone: nothing for the lifecycle to do yet.
	SignalNone Signal = "none"
	// SignalAllPassed: every required type passed; advance to registered.
	SignalAllPassed Signal = "all_passed"
	// SignalFailed: a type failed; the candidate is rejected outright.
	SignalFailed Signal = "failed"
)

// Apply moves s to target. Terminal records are immutable.
func (s *Screening) Apply(target Status, remarks string, now time.Time) error {
	if s.Status.IsTerminal() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "%s screening already %s", s.Type, s.Status)
	}
	if s.Status == target {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "%s screening already %s", s.Type, target)
	}
	if !s.Status.CanTransitionTo(target) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "%s screening cannot move from %s to %s", s.Type, s.Status, target)
	}
	s.Status = target
	if remarks != "" {
		s.Remarks = remarks
	}
	if target.IsTerminal() {
		s.ScreenedAt = &now
	}
	s.UpdatedAt = now
	return nil
}

// AttemptResult reports the outcome of logging a call attempt.
type AttemptResult struct {
	Attempts           int  `json:"attempts"`
	MaxAttempts        int  `json:"max_attempts"`
	MaxAttemptsReached bool `json:"max_attempts_reached"`
}

// RecordCallAttempt counts one more call attempt. Going beyond max is a
// soft-fail: the counter stays capped and the caller is told.
func (s *Screening) RecordCallAttempt(maxAttempts int, now time.Time) (AttemptResult, error) {
	if s.Type != TypeCall {
		return AttemptResult{}, dErrors.New(dErrors.CodeValidation, "call attempts apply to call screenings only")
	}
	if s.Status.IsTerminal() {
		return AttemptResult{}, dErrors.Newf(dErrors.CodeInvariantViolation, "call screening already %s", s.Status)
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxCallAttempts
	}
	if s.CallAttempts >= maxAttempts {
		return AttemptResult{Attempts: s.CallAttempts, MaxAttempts: maxAttempts, MaxAttemptsReached: true}, nil
	}
	s.CallAttempts++
	if s.Status == StatusPending {
		s.Status = StatusInProgress
	}
	s.UpdatedAt = now
	return AttemptResult{Attempts: s.CallAttempts, MaxAttempts: maxAttempts}, nil
}

// Outcome is the aggregate view over a candidate's screenings.
type Outcome struct {
	Passed    []Type   `json:"passed"`
	Failed    []Type   `json:"failed"`
	Pending   []Type   `json:"pending"`
	AllPassed bool     `json:"all_passed"`
	AnyFailed bool     `json:"any_failed"`
	Issues    []string `json:"issues"`
}

// Aggregate combines screenings into a pass/fail view. Missing types count
// as pending.
func Aggregate(records []Screening) Outcome {
	byType := make(map[Type]Screening, len(records))
	for _, r := range records {
		byType[r.Type] = r
	}

	out := Outcome{Passed: []Type{}, Failed: []Type{}, Pending: []Type{}, Issues: []string{}}
	for _, t := range RequiredTypes {
		r, ok := byType[t]
		switch {
		case !ok:
			out.Pending = append(out.Pending, t)
			out.Issues = append(out.Issues, fmt.Sprintf("%s screening not started", t))
		case r.Status == StatusPassed:
			out.Passed = append(out.Passed, t)
		case r.Status == StatusFailed:
			out.Failed = append(out.Failed, t)
			out.Issues = append(out.Issues, fmt.Sprintf("%s screening failed", t))
		default:
			out.Pending = append(out.Pending, t)
			out.Issues = append(out.Issues, fmt.Sprintf("%s screening %s", t, r.Status))
		}
	}
	out.AnyFailed = len(out.Failed) > 0
	out.AllPassed = len(out.Passed) == len(RequiredTypes)
	return out
}

// SignalFor decides what a just-recorded screening means given all records.
// A failure always wins over any other state.
func SignalFor(recorded Screening, all []Screening) Signal {
	if recorded.Status == StatusFailed {
		return SignalFailed
	}
	if recorded.Status != StatusPassed {
		return SignalNone
	}
	if Aggregate(all).AllPassed {
		return SignalAllPassed
	}
	return SignalNone
}
