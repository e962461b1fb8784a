// Package visa enforces the ordered visa sub-stages:
// interview -> takamol -> medical -> biometric -> e_number -> visa.
package visa

import (
	"fmt"
	"time"

	dErrors "wasl/pkg/domain-errors"
)

// PrerequisiteNotMetError names the stage that must be cleared first.
type PrerequisiteNotMetError struct {
	Stage    Stage
	Required StageStatus
	Actual   StageStatus
}

func (e *PrerequisiteNotMetError) Error() string {
	return fmt.Sprintf("%s not %s", e.Stage, e.Required)
}

// Update is a requested change to a single stage.
type Update struct {
	Stage  Stage
	Status StageStatus
	// Value carries the e-number or visa number for those stages.
	Value string
}

// Check validates u against p without mutating p.
func Check(p *Process, u Update) error {
	if !u.Stage.Accepts(u.Status) {
		return dErrors.Newf(dErrors.CodeValidation, "invalid %s status %q", u.Stage, u.Status)
	}
	if prev, ok := u.Stage.Previous(); ok {
		if actual := p.StatusOf(prev); actual != prev.Cleared() {
			return &PrerequisiteNotMetError{Stage: prev, Required: prev.Cleared(), Actual: actual}
		}
	}
	if u.Stage == StageENumber && u.Status == StatusGenerated && u.Value == "" {
		return dErrors.New(dErrors.CodeValidation, "e_number value is required")
	}
	if u.Stage == StageVisa && u.Status == StatusIssued && u.Value == "" {
		return dErrors.New(dErrors.CodeValidation, "visa number is required")
	}
	return nil
}

// Apply checks u and, when allowed, writes it to p.
func Apply(p *Process, u Update, now time.Time) error {
	if err := Check(p, u); err != nil {
		return err
	}
	*p.field(u.Stage) = u.Status
	switch u.Stage {
	case StageENumber:
		p.ENumber = u.Value
	case StageVisa:
		p.VisaNumber = u.Value
	}
	p.UpdatedAt = now
	return nil
}
