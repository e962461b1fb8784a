package handler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "wasl/pkg/domain-errors"
)

func TestPlacementRequestNeedsOneID(t *testing.T) {
	req := &PlacementRequest{}
	err := req.Validate()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	trade := uuid.New()
	req = &PlacementRequest{TradeID: " " + trade.String() + " "}
	require.NoError(t, req.Validate())
	assert.Equal(t, trade.String(), req.Input().TradeID.String())
	assert.True(t, req.Input().CampusID.IsNil())
}

func TestTransitionRequestPayload(t *testing.T) {
	batch := uuid.New()
	req := &TransitionRequest{Target: "training", BatchID: batch.String(), Reason: "  moved  "}
	require.NoError(t, req.Validate())
	p := req.Payload()
	assert.Equal(t, batch.String(), p.BatchID.String())
	assert.Equal(t, "moved", p.Reason)

	bad := &TransitionRequest{Target: "training", BatchID: "ELEC-01"}
	assert.True(t, dErrors.HasCode(bad.Validate(), dErrors.CodeInvalidInput))
}

func TestAttendanceRequestDate(t *testing.T) {
	present := true
	req := &AttendanceRequest{Date: "04/05/2026", Present: &present}
	err := req.Validate()
	require.Error(t, err)
	assert.Equal(t, "date must be YYYY-MM-DD", err.Error())

	req.Date = "2026-05-04"
	require.NoError(t, req.Validate())
	assert.Equal(t, 4, req.ParsedDate().Day())
}

func TestAmountsMustBePositive(t *testing.T) {
	rem := &RemittanceRequest{Amount: decimal.Zero, Currency: "SAR"}
	assert.True(t, dErrors.HasCode(rem.Validate(), dErrors.CodeValidation))

	a := &AssessmentRequest{Type: "final", Score: decimal.NewFromInt(10), TotalMarks: decimal.Zero}
	assert.True(t, dErrors.HasCode(a.Validate(), dErrors.CodeValidation))

	a.TotalMarks = decimal.NewFromInt(100)
	assert.NoError(t, a.Validate())
}
