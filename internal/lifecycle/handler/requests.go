package handler

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wasl/internal/documents"
	"wasl/internal/lifecycle"
	"wasl/internal/lifecycle/service"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

// CreateCandidateRequest is the body for POST /candidates.
type CreateCandidateRequest struct {
	NationalID string `json:"national_id" validate:"required,max=20"`
	Name       string `json:"name" validate:"required,max=120"`
	Phone      string `json:"phone" validate:"max=20"`
	District   string `json:"district" validate:"max=60"`
	CampusID   string `json:"campus_id"`
	TradeID    string `json:"trade_id"`
	OEPID      string `json:"oep_id"`
	Remarks    string `json:"remarks" validate:"max=500"`

	placement service.PlacementInput
}

func (r *CreateCandidateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	p, err := parsePlacement(r.CampusID, r.TradeID, r.OEPID)
	if err != nil {
		return err
	}
	r.placement = p
	return nil
}

func (r *CreateCandidateRequest) Input() service.CreateCandidateInput {
	return service.CreateCandidateInput{
		NationalID: r.NationalID,
		Name:       r.Name,
		Phone:      r.Phone,
		District:   r.District,
		CampusID:   r.placement.CampusID,
		TradeID:    r.placement.TradeID,
		OEPID:      r.placement.OEPID,
		Remarks:    r.Remarks,
	}
}

// PlacementRequest is the body for PUT /candidates/{id}/placement.
type PlacementRequest struct {
	CampusID string `json:"campus_id"`
	TradeID  string `json:"trade_id"`
	OEPID    string `json:"oep_id"`

	placement service.PlacementInput
}

func (r *PlacementRequest) Validate() error {
	p, err := parsePlacement(r.CampusID, r.TradeID, r.OEPID)
	if err != nil {
		return err
	}
	if p.CampusID.IsNil() && p.TradeID.IsNil() && p.OEPID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "at least one of campus_id, trade_id or oep_id is required")
	}
	r.placement = p
	return nil
}

func (r *PlacementRequest) Input() service.PlacementInput {
	return r.placement
}

// TransitionRequest is the body for POST /candidates/{id}/transitions.
type TransitionRequest struct {
	Target  string `json:"target" validate:"required,max=40"`
	BatchID string `json:"batch_id"`
	Reason  string `json:"reason" validate:"max=500"`

	batchID id.BatchID
}

func (r *TransitionRequest) Validate() error {
	if _, err := lifecycle.ParseStatus(r.Target); err != nil {
		return err
	}
	batchID, err := optionalID(r.BatchID, id.ParseBatchID)
	if err != nil {
		return err
	}
	r.batchID = batchID
	return nil
}

func (r *TransitionRequest) Payload() lifecycle.Payload {
	return lifecycle.Payload{BatchID: r.batchID, Reason: strings.TrimSpace(r.Reason)}
}

type UploadDocumentRequest struct {
	Item      string     `json:"item" validate:"required,max=40"`
	FileRef   string     `json:"file_ref" validate:"required,max=512"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (r *UploadDocumentRequest) Input() service.UploadDocumentInput {
	return service.UploadDocumentInput{
		Item:      documents.ItemCode(strings.TrimSpace(r.Item)),
		FileRef:   strings.TrimSpace(r.FileRef),
		ExpiresAt: r.ExpiresAt,
	}
}

type RejectDocumentRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type ScreeningRequest struct {
	Status  string `json:"status" validate:"required,oneof=pending in_progress passed failed"`
	Remarks string `json:"remarks" validate:"max=500"`
}

// AttendanceRequest marks one training day. Date is YYYY-MM-DD.
type AttendanceRequest struct {
	Date    string `json:"date" validate:"required"`
	Present *bool  `json:"present" validate:"required"`

	date time.Time
}

func (r *AttendanceRequest) Validate() error {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(r.Date))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	r.date = d
	return nil
}

func (r *AttendanceRequest) ParsedDate() time.Time {
	return r.date
}

type AssessmentRequest struct {
	Type       string          `json:"type" validate:"required,oneof=midterm practical final"`
	Score      decimal.Decimal `json:"score"`
	TotalMarks decimal.Decimal `json:"total_marks"`
}

func (r *AssessmentRequest) Validate() error {
	if !r.TotalMarks.IsPositive() {
		return dErrors.New(dErrors.CodeValidation, "total_marks must be positive")
	}
	if r.Score.IsNegative() || r.Score.GreaterThan(r.TotalMarks) {
		return dErrors.New(dErrors.CodeValidation, "score must be between 0 and total_marks")
	}
	return nil
}

type VisaStageRequest struct {
	Status string `json:"status" validate:"required,max=20"`
	Value  string `json:"value" validate:"max=64"`
}

type DepartureRequest struct {
	FlightNumber  string    `json:"flight_number" validate:"required,max=12"`
	Destination   string    `json:"destination" validate:"max=80"`
	DepartureDate time.Time `json:"departure_date" validate:"required"`
}

func (r *DepartureRequest) Input() service.DepartureInput {
	return service.DepartureInput{
		FlightNumber:  r.FlightNumber,
		Destination:   strings.TrimSpace(r.Destination),
		DepartureDate: r.DepartureDate,
	}
}

type RemittanceRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency" validate:"required,len=3"`
	TransferDate time.Time       `json:"transfer_date" validate:"required"`
	Purpose      string          `json:"purpose" validate:"max=200"`
}

func (r *RemittanceRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	return nil
}

func (r *RemittanceRequest) Input() service.RemittanceInput {
	return service.RemittanceInput{
		Amount:       r.Amount,
		Currency:     r.Currency,
		TransferDate: r.TransferDate,
		Purpose:      strings.TrimSpace(r.Purpose),
	}
}

type CreateBatchRequest struct {
	Code      string    `json:"code" validate:"required,max=40"`
	CampusID  string    `json:"campus_id"`
	TradeID   string    `json:"trade_id" validate:"required"`
	Capacity  int       `json:"capacity" validate:"required,gt=0,lte=1000"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	campusID id.CampusID
	tradeID  id.TradeID
}

func (r *CreateBatchRequest) Validate() error {
	tradeID, err := id.ParseTradeID(r.TradeID)
	if err != nil {
		return err
	}
	campusID, err := optionalID(r.CampusID, id.ParseCampusID)
	if err != nil {
		return err
	}
	r.tradeID, r.campusID = tradeID, campusID
	return nil
}

func (r *CreateBatchRequest) Input() service.CreateBatchInput {
	return service.CreateBatchInput{
		Code:      r.Code,
		CampusID:  r.campusID,
		TradeID:   r.tradeID,
		Capacity:  r.Capacity,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

type ResizeBatchRequest struct {
	Capacity int `json:"capacity" validate:"required,gt=0,lte=1000"`
}

// BulkAssignRequest is the body for POST /batches/{id}/assign.
type BulkAssignRequest struct {
	CandidateIDs []string `json:"candidate_ids" validate:"required,min=1,max=500"`

	parsed []id.CandidateID
}

func (r *BulkAssignRequest) Validate() error {
	r.parsed = make([]id.CandidateID, 0, len(r.CandidateIDs))
	for _, s := range r.CandidateIDs {
		cid, err := id.ParseCandidateID(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		r.parsed = append(r.parsed, cid)
	}
	return nil
}

func (r *BulkAssignRequest) ParsedCandidateIDs() []id.CandidateID {
	return r.parsed
}

func parsePlacement(campus, trade, oep string) (service.PlacementInput, error) {
	var (
		p   service.PlacementInput
		err error
	)
	if p.CampusID, err = optionalID(campus, id.ParseCampusID); err != nil {
		return p, err
	}
	if p.TradeID, err = optionalID(trade, id.ParseTradeID); err != nil {
		return p, err
	}
	if p.OEPID, err = optionalID(oep, id.ParseOEPID); err != nil {
		return p, err
	}
	return p, nil
}

func optionalID[T any](s string, parse func(string) (T, error)) (T, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		var zero T
		return zero, nil
	}
	return parse(s)
}
