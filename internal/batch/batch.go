// Package batch models training batches and their enrollment ceiling.
package batch

import (
	"fmt"
	"strings"
	"time"

	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

// Batch is a training cohort at a campus for one trade.
//
// Invariants:
//   - Capacity is positive
//   - EnrollmentCount never exceeds Capacity
//   - Capacity cannot drop below EnrollmentCount
type Batch struct {
	ID              id.BatchID  `json:"id"`
	Code            string      `json:"code"`
	CampusID        id.CampusID `json:"campus_id"`
	TradeID         id.TradeID  `json:"trade_id"`
	Capacity        int         `json:"capacity"`
	EnrollmentCount int         `json:"enrollment_count"`
	StartDate       time.Time   `json:"start_date"`
	EndDate         time.Time   `json:"end_date"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// CapacityExceededError is returned when a batch has no seat left.
type CapacityExceededError struct {
	BatchID  id.BatchID
	Code     string
	Capacity int
}

func (e *CapacityExceededError) Error() string {
	label := e.Code
	if label == "" {
		label = e.BatchID.String()
	}
	return fmt.Sprintf("batch %s is full (capacity %d)", label, e.Capacity)
}

func New(batchID id.BatchID, code string, campusID id.CampusID, tradeID id.TradeID, capacity int, start, end time.Time, now time.Time) (*Batch, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "batch code is required")
	}
	if capacity <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "capacity must be positive")
	}
	if !end.IsZero() && end.Before(start) {
		return nil, dErrors.New(dErrors.CodeValidation, "end date is before start date")
	}
	return &Batch{
		ID:        batchID,
		Code:      code,
		CampusID:  campusID,
		TradeID:   tradeID,
		Capacity:  capacity,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Available returns the number of free seats.
func (b *Batch) Available() int {
	return b.Capacity - b.EnrollmentCount
}

// HasCapacity reports whether one more candidate fits.
func (b *Batch) HasCapacity() bool {
	return b.EnrollmentCount < b.Capacity
}

// Enroll takes one seat. Stores must perform the same check atomically.
func (b *Batch) Enroll(now time.Time) error {
	if !b.HasCapacity() {
		return &CapacityExceededError{BatchID: b.ID, Code: b.Code, Capacity: b.Capacity}
	}
	b.EnrollmentCount++
	b.UpdatedAt = now
	return nil
}

// CanResize checks a capacity change against current enrollment.
func (b *Batch) CanResize(capacity int) error {
	if capacity <= 0 {
		return dErrors.New(dErrors.CodeValidation, "capacity must be positive")
	}
	if capacity < b.EnrollmentCount {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"capacity %d is below current enrollment %d", capacity, b.EnrollmentCount)
	}
	return nil
}

// Resize validates and applies a capacity change.
func (b *Batch) Resize(capacity int, now time.Time) error {
	if err := b.CanResize(capacity); err != nil {
		return err
	}
	b.Capacity = capacity
	b.UpdatedAt = now
	return nil
}
