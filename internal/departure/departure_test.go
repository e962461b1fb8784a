package departure

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

var now = time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)

func TestDeparture(t *testing.T) {
	candidateID := id.CandidateID(uuid.New())

	t.Run("briefing gates readiness", func(t *testing.T) {
		d, err := New(candidateID, " sv 727 ", "Riyadh", now.AddDate(0, 0, 7), now)
		require.NoError(t, err)
		assert.Equal(t, "SV 727", d.FlightNumber)
		assert.Equal(t, []string{"Pre-departure briefing not completed"}, d.ReadyToDepart())

		require.NoError(t, d.CompleteBriefing(now))
		assert.Empty(t, d.ReadyToDepart())
		assert.True(t, dErrors.HasCode(d.CompleteBriefing(now), dErrors.CodeInvariantViolation))
	})

	t.Run("cannot reschedule after departure", func(t *testing.T) {
		d, err := New(candidateID, "PK 741", "Jeddah", now, now)
		require.NoError(t, err)
		d.MarkDeparted(now)
		err = d.Reschedule("PK 743", "Jeddah", now.AddDate(0, 0, 1), now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("flight number required", func(t *testing.T) {
		_, err := New(candidateID, "", "Doha", now, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestRemittances(t *testing.T) {
	candidateID := id.CandidateID(uuid.New())
	remit := func(amount, currency string, daysAgo int) Remittance {
		r, err := NewRemittance(id.RemittanceID(uuid.New()), candidateID, decimal.RequireFromString(amount), currency, now.AddDate(0, 0, -daysAgo), "family support", now)
		require.NoError(t, err)
		return *r
	}

	t.Run("summarizes per currency", func(t *testing.T) {
		s := Summarize([]Remittance{remit("1500.50", "sar", 40), remit("1499.50", "SAR", 10), remit("200", "AED", 3)})
		assert.Equal(t, 3, s.Count)
		assert.Equal(t, "3000", s.Totals["SAR"].String())
		assert.Equal(t, "200", s.Totals["AED"].String())
		require.NotNil(t, s.LastTransfer)
		assert.Equal(t, now.AddDate(0, 0, -3), *s.LastTransfer)
	})

	t.Run("rejects non-positive amounts and future dates", func(t *testing.T) {
		_, err := NewRemittance(id.RemittanceID(uuid.New()), candidateID, decimal.Zero, "SAR", now, "", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = NewRemittance(id.RemittanceID(uuid.New()), candidateID, decimal.NewFromInt(10), "SAR", now.Add(time.Hour), "", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = NewRemittance(id.RemittanceID(uuid.New()), candidateID, decimal.NewFromInt(10), "RIYAL", now, "", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
