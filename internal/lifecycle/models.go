// Package lifecycle is the candidate state machine: the status graph, the
// guard/apply rule table consulted on every transition and the events a
// successful transition emits.
package lifecycle

import (
	"strings"
	"time"

	"wasl/internal/training"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

// Status is the candidate's primary lifecycle phase.
type Status string

const (
	StatusNew              Status = "new"
	StatusListed           Status = "listed"
	StatusPreDepartureDocs Status = "pre_departure_docs"
	StatusScreening        Status = "screening"
	StatusRegistered       Status = "registered"
	StatusTraining         Status = "training"
	StatusVisaProcess      Status = "visa_process"
	StatusReady            Status = "ready"
	StatusDeparted         Status = "departed"
	StatusRejected         Status = "rejected"
	StatusDeferred         Status = "deferred"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusNew, StatusListed, StatusPreDepartureDocs, StatusScreening, StatusRegistered,
	StatusTraining, StatusVisaProcess, StatusReady, StatusDeparted, StatusRejected, StatusDeferred,
}

// legacyAliases maps post-screening names used by older imports.
var legacyAliases = map[string]Status{
	"screening_passed": StatusRegistered,
	"screened":         StatusRegistered,
}

// graph holds the legal edges. Every edge must have a rule in the engine.
var graph = map[Status][]Status{
	StatusNew:              {StatusListed, StatusRejected},
	StatusListed:           {StatusPreDepartureDocs, StatusRejected},
	StatusPreDepartureDocs: {StatusScreening, StatusRejected},
	StatusScreening:        {StatusRegistered, StatusDeferred, StatusRejected},
	StatusDeferred:         {StatusScreening, StatusRejected},
	StatusRegistered:       {StatusTraining},
	StatusTraining:         {StatusVisaProcess},
	StatusVisaProcess:      {StatusReady},
	StatusReady:            {StatusDeparted},
}

// ParseStatus accepts canonical names and the legacy post-screening aliases.
func ParseStatus(s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := legacyAliases[v]; ok {
		return alias, nil
	}
	st := Status(v)
	if st.IsValid() {
		return st, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "invalid status %q", s)
}

func (s Status) IsValid() bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no lifecycle mutation may follow.
func (s Status) IsTerminal() bool {
	return s == StatusDeparted || s == StatusRejected
}

// CanTransitionTo reports whether target is a declared edge from s.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range graph[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Edges returns every declared (from, to) pair.
func Edges() []Edge {
	var out []Edge
	for _, from := range Statuses {
		for _, to := range graph[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

// Edge is one arc of the status graph.
type Edge struct {
	From Status
	To   Status
}

func (e Edge) String() string {
	return string(e.From) + "->" + string(e.To)
}

// Candidate is the aggregate the engine mutates.
//
// Invariants:
//   - Status is always a member of Statuses
//   - Status changes only through Engine
//   - Once departed or rejected nothing in the lifecycle changes
type Candidate struct {
	ID             id.CandidateID  `json:"id"`
	ApplicationID  string          `json:"application_id"`
	NationalID     id.NationalID   `json:"national_id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	District       string          `json:"district,omitempty"`
	Status         Status          `json:"status"`
	TrainingStatus training.Status `json:"training_status"`
	CampusID       id.CampusID     `json:"campus_id"`
	TradeID        id.TradeID      `json:"trade_id"`
	BatchID        id.BatchID      `json:"batch_id"`
	OEPID          id.OEPID        `json:"oep_id"`
	Remarks        string          `json:"remarks,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
}

// NewCandidate builds an intake record in status new.
func NewCandidate(candidateID id.CandidateID, applicationID string, nationalID id.NationalID, name string, now time.Time) (*Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if nationalID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "national id is required")
	}
	return &Candidate{
		ID:             candidateID,
		ApplicationID:  applicationID,
		NationalID:     nationalID,
		Name:           name,
		Status:         StatusNew,
		TrainingStatus: training.StatusNotStarted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsArchived reports a soft-deleted candidate.
func (c *Candidate) IsArchived() bool {
	return c.DeletedAt != nil
}

// Payload carries transition-specific inputs.
type Payload struct {
	BatchID id.BatchID
	Reason  string
}

// Result is what callers get back from a transition attempt. A rejected
// guard is data, not an error.
type Result struct {
	Success bool     `json:"success"`
	Status  Status   `json:"status"`
	Issues  []string `json:"issues"`

	// CapacityExceeded marks a rejection caused by a full batch.
	CapacityExceeded bool    `json:"-"`
	Events           []Event `json:"-"`
}

func rejected(status Status, issues ...string) Result {
	return Result{Success: false, Status: status, Issues: issues}
}
