package visa

import (
	"time"

	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

// Stage is a visa sub-process step. Order matters; see Stages.
type Stage string

const (
	StageInterview Stage = "interview"
	StageTakamol   Stage = "takamol"
	StageMedical   Stage = "medical"
	StageBiometric Stage = "biometric"
	StageENumber   Stage = "e_number"
	StageVisa      Stage = "visa"
)

// Stages is the fixed precedence.
var Stages = []Stage{StageInterview, StageTakamol, StageMedical, StageBiometric, StageENumber, StageVisa}

// StageStatus values. Each stage accepts its own subset.
type StageStatus string

const (
	StatusPending   StageStatus = "pending"
	StatusScheduled StageStatus = "scheduled"
	StatusPassed    StageStatus = "passed"
	StatusFailed    StageStatus = "failed"
	StatusFit       StageStatus = "fit"
	StatusUnfit     StageStatus = "unfit"
	StatusCompleted StageStatus = "completed"
	StatusGenerated StageStatus = "generated"
	StatusApplied   StageStatus = "applied"
	StatusIssued    StageStatus = "issued"
	StatusRefused   StageStatus = "refused"
)

type stageRule struct {
	cleared  StageStatus
	accepted []StageStatus
}

var stageRules = map[Stage]stageRule{
	StageInterview: {cleared: StatusPassed, accepted: []StageStatus{StatusPending, StatusScheduled, StatusPassed, StatusFailed}},
	StageTakamol:   {cleared: StatusPassed, accepted: []StageStatus{StatusPending, StatusScheduled, StatusPassed, StatusFailed}},
	StageMedical:   {cleared: StatusFit, accepted: []StageStatus{StatusPending, StatusScheduled, StatusFit, StatusUnfit}},
	StageBiometric: {cleared: StatusCompleted, accepted: []StageStatus{StatusPending, StatusScheduled, StatusCompleted, StatusFailed}},
	StageENumber:   {cleared: StatusGenerated, accepted: []StageStatus{StatusPending, StatusGenerated}},
	StageVisa:      {cleared: StatusIssued, accepted: []StageStatus{StatusPending, StatusApplied, StatusIssued, StatusRefused}},
}

func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if _, ok := stageRules[st]; !ok {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid visa stage %q", s)
	}
	return st, nil
}

// Cleared returns the terminal value that unlocks the next stage.
func (s Stage) Cleared() StageStatus {
	return stageRules[s].cleared
}

// Accepts reports whether status is valid for the stage.
func (s Stage) Accepts(status StageStatus) bool {
	for _, a := range stageRules[s].accepted {
		if a == status {
			return true
		}
	}
	return false
}

// Previous returns the stage that must be cleared first, or false for the first stage.
func (s Stage) Previous() (Stage, bool) {
	for i, st := range Stages {
		if st == s && i > 0 {
			return Stages[i-1], true
		}
	}
	return "", false
}

// Process is the 1:1 visa record of a candidate.
type Process struct {
	CandidateID     id.CandidateID `json:"candidate_id"`
	InterviewStatus StageStatus    `json:"interview_status"`
	TakamolStatus   StageStatus    `json:"takamol_status"`
	MedicalStatus   StageStatus    `json:"medical_status"`
	BiometricStatus StageStatus    `json:"biometric_status"`
	ENumberStatus   StageStatus    `json:"e_number_status"`
	VisaStatus      StageStatus    `json:"visa_status"`
	ENumber         string         `json:"e_number,omitempty"`
	VisaNumber      string         `json:"visa_number,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// NewProcess opens a visa process with every stage pending.
func NewProcess(candidateID id.CandidateID, now time.Time) *Process {
	return &Process{
		CandidateID:     candidateID,
		InterviewStatus: StatusPending,
		TakamolStatus:   StatusPending,
		MedicalStatus:   StatusPending,
		BiometricStatus: StatusPending,
		ENumberStatus:   StatusPending,
		VisaStatus:      StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (p *Process) field(s Stage) *StageStatus {
	switch s {
	case StageInterview:
		return &p.InterviewStatus
	case StageTakamol:
		return &p.TakamolStatus
	case StageMedical:
		return &p.MedicalStatus
	case StageBiometric:
		return &p.BiometricStatus
	case StageENumber:
		return &p.ENumberStatus
	case StageVisa:
		return &p.VisaStatus
	}
	return nil
}

// StatusOf returns the current status of a stage.
func (p *Process) StatusOf(s Stage) StageStatus {
	if f := p.field(s); f != nil {
		return *f
	}
	return ""
}

// IsIssued reports whether the visa itself has been granted.
func (p *Process) IsIssued() bool {
	return p.VisaStatus == StatusIssued
}
