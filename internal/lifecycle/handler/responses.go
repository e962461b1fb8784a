package handler

import (
	"time"

	"wasl/internal/lifecycle"
)

// CandidateResponse is the public view of a candidate. The national id is
// masked outside the progress read.
type CandidateResponse struct {
	ID             string    `json:"id"`
	ApplicationID  string    `json:"application_id"`
	NationalID     string    `json:"national_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	District       string    `json:"district,omitempty"`
	Status         string    `json:"status"`
	TrainingStatus string    `json:"training_status"`
	CampusID       string    `json:"campus_id,omitempty"`
	TradeID        string    `json:"trade_id,omitempty"`
	BatchID        string    `json:"batch_id,omitempty"`
	OEPID          string    `json:"oep_id,omitempty"`
	Remarks        string    `json:"remarks,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func FromCandidate(c *lifecycle.Candidate) *CandidateResponse {
	resp := &CandidateResponse{
		ID:             c.ID.String(),
		ApplicationID:  c.ApplicationID,
		NationalID:     c.NationalID.Masked(),
		Name:           c.Name,
		Phone:          c.Phone,
		District:       c.District,
		Status:         string(c.Status),
		TrainingStatus: string(c.TrainingStatus),
		Remarks:        c.Remarks,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if !c.CampusID.IsNil() {
		resp.CampusID = c.CampusID.String()
	}
	if !c.TradeID.IsNil() {
		resp.TradeID = c.TradeID.String()
	}
	if !c.BatchID.IsNil() {
		resp.BatchID = c.BatchID.String()
	}
	if !c.OEPID.IsNil() {
		resp.OEPID = c.OEPID.String()
	}
	return resp
}

// TransitionResponse is returned for both allowed and rejected transitions.
type TransitionResponse struct {
	Success bool     `json:"success"`
	Status  string   `json:"status"`
	Issues  []string `json:"issues"`
}

func FromResult(res lifecycle.Result) *TransitionResponse {
	issues := res.Issues
	if issues == nil {
		issues = []string{}
	}
	return &TransitionResponse{
		Success: res.Success,
		Status:  string(res.Status),
		Issues:  issues,
	}
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type StatusReportResponse struct {
	Total    int           `json:"total"`
	Statuses []StatusCount `json:"statuses"`
}

// FromStatusReport orders the counts along the lifecycle.
func FromStatusReport(counts map[lifecycle.Status]int) *StatusReportResponse {
	resp := &StatusReportResponse{Statuses: make([]StatusCount, 0, len(lifecycle.Statuses))}
	for _, st := range lifecycle.Statuses {
		n := counts[st]
		resp.Total += n
		resp.Statuses = append(resp.Statuses, StatusCount{Status: string(st), Count: n})
	}
	return resp
}
