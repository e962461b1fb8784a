// Package departure holds the post-lifecycle records: the departure itself
// and remittances sent home afterwards.
package departure

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

// Departure records flight details and the pre-departure briefing.
type Departure struct {
	CandidateID         id.CandidateID `json:"candidate_id"`
	FlightNumber        string         `json:"flight_number"`
	DepartureDate       time.Time      `json:"departure_date"`
	Destination         string         `json:"destination"`
	BriefingCompleted   bool           `json:"briefing_completed"`
	BriefingCompletedAt *time.Time     `json:"briefing_completed_at,omitempty"`
	DepartedAt          *time.Time     `json:"departed_at,omitempty"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func New(candidateID id.CandidateID, flight, destination string, date time.Time, now time.Time) (*Departure, error) {
	flight = strings.ToUpper(strings.TrimSpace(flight))
	if flight == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "flight number is required")
	}
	if date.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "departure date is required")
	}
	return &Departure{
		CandidateID:   candidateID,
		FlightNumber:  flight,
		DepartureDate: date,
		Destination:   strings.TrimSpace(destination),
		UpdatedAt:     now,
	}, nil
}

// Reschedule changes flight details before the candidate has left.
func (d *Departure) Reschedule(flight, destination string, date time.Time, now time.Time) error {
	if d.DepartedAt != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "candidate has already departed")
	}
	next, err := New(d.CandidateID, flight, destination, date, now)
	if err != nil {
		return err
	}
	d.FlightNumber = next.FlightNumber
	d.DepartureDate = next.DepartureDate
	d.Destination = next.Destination
	d.UpdatedAt = now
	return nil
}

// CompleteBriefing marks the pre-departure briefing as attended.
func (d *Departure) CompleteBriefing(now time.Time) error {
	if d.BriefingCompleted {
		return dErrors.New(dErrors.CodeInvariantViolation, "briefing already completed")
	}
	d.BriefingCompleted = true
	d.BriefingCompletedAt = &now
	d.UpdatedAt = now
	return nil
}

// ReadyToDepart returns the issues blocking departure.
func (d *Departure) ReadyToDepart() []string {
	if !d.BriefingCompleted {
		return []string{"Pre-departure briefing not completed"}
	}
	return nil
}

// MarkDeparted stamps the departure time.
func (d *Departure) MarkDeparted(now time.Time) {
	d.DepartedAt = &now
	d.UpdatedAt = now
}

// Remittance is money a departed worker sent home.
type Remittance struct {
	ID           id.RemittanceID `json:"id"`
	CandidateID  id.CandidateID  `json:"candidate_id"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	TransferDate time.Time       `json:"transfer_date"`
	Purpose      string          `json:"purpose,omitempty"`
	RecordedAt   time.Time       `json:"recorded_at"`
}

func NewRemittance(remittanceID id.RemittanceID, candidateID id.CandidateID, amount decimal.Decimal, currency string, transferDate time.Time, purpose string, now time.Time) (*Remittance, error) {
	if !amount.IsPositive() {
		return nil, dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return nil, dErrors.New(dErrors.CodeValidation, "currency must be a 3-letter code")
	}
	if transferDate.After(now) {
		return nil, dErrors.New(dErrors.CodeValidation, "transfer date is in the future")
	}
	return &Remittance{
		ID:           remittanceID,
		CandidateID:  candidateID,
		Amount:       amount.Round(2),
		Currency:     currency,
		TransferDate: transferDate,
		Purpose:      strings.TrimSpace(purpose),
		RecordedAt:   now,
	}, nil
}

// Summary aggregates remittances per currency.
type Summary struct {
	Count        int                        `json:"count"`
	Totals       map[string]decimal.Decimal `json:"totals"`
	LastTransfer *time.Time                 `json:"last_transfer,omitempty"`
}

func Summarize(remittances []Remittance) Summary {
	s := Summary{Totals: map[string]decimal.Decimal{}}
	for _, r := range remittances {
		s.Count++
		s.Totals[r.Currency] = s.Totals[r.Currency].Add(r.Amount)
		if s.LastTransfer == nil || r.TransferDate.After(*s.LastTransfer) {
			t := r.TransferDate
			s.LastTransfer = &t
		}
	}
	return s
}
