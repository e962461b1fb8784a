package training

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

var (
	now         = time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	candidateID = id.CandidateID(uuid.New())
	batchID     = id.BatchID(uuid.New())
)

func attendance(present, total int) []Attendance {
	records := make([]Attendance, 0, total)
	for i := 0; i < total; i++ {
		records = append(records, Attendance{
			CandidateID: candidateID,
			BatchID:     batchID,
			Date:        now.AddDate(0, 0, -i),
			Present:     i < present,
		})
	}
	return records
}

func assessment(t *testing.T, typ AssessmentType, score int64) Assessment {
	t.Helper()
	a, err := NewAssessment(candidateID, batchID, typ, decimal.NewFromInt(score), decimal.NewFromInt(100), now)
	require.NoError(t, err)
	return *a
}

func TestAttendancePercentage(t *testing.T) {
	t.Run("85 of 100 is exactly 85", func(t *testing.T) {
		pct := AttendancePercentage(attendance(85, 100))
		assert.True(t, pct.Equal(decimal.NewFromInt(85)), "got %s", pct)
	})

	t.Run("no records is zero", func(t *testing.T) {
		assert.True(t, AttendancePercentage(nil).IsZero())
	})

	t.Run("rounds to two places", func(t *testing.T) {
		pct := AttendancePercentage(attendance(2, 3))
		assert.Equal(t, "66.67", pct.String())
	})
}

func TestAssessments(t *testing.T) {
	t.Run("result derives from pass percentage", func(t *testing.T) {
		assert.Equal(t, ResultPass, assessment(t, AssessmentFinal, 50).Result)
		assert.Equal(t, ResultFail, assessment(t, AssessmentFinal, 49).Result)
	})

	t.Run("score above total is rejected", func(t *testing.T) {
		_, err := NewAssessment(candidateID, batchID, AssessmentMidterm, decimal.NewFromInt(101), decimal.NewFromInt(100), now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("average of raw scores", func(t *testing.T) {
		avg := AverageScore([]Assessment{assessment(t, AssessmentMidterm, 70), assessment(t, AssessmentFinal, 81)})
		assert.Equal(t, "75.5", avg.String())
	})
}

func TestCertificateEligibility(t *testing.T) {
	t.Run("attendance 89.9 percent rejects", func(t *testing.T) {
		p := Compute(attendance(899, 1000), []Assessment{assessment(t, AssessmentFinal, 80)}, decimal.Zero)
		assert.False(t, p.EligibleForCertificate)
		assert.Equal(t, []string{"Attendance 89.9% below 90% threshold"}, p.Issues)
	})

	t.Run("attendance 90.0 percent with passing final accepts", func(t *testing.T) {
		p := Compute(attendance(900, 1000), []Assessment{assessment(t, AssessmentFinal, 80)}, decimal.Zero)
		assert.True(t, p.EligibleForCertificate)
		assert.Empty(t, p.Issues)
	})

	t.Run("85 percent attendance cites threshold", func(t *testing.T) {
		p := Compute(attendance(85, 100), []Assessment{assessment(t, AssessmentFinal, 90)}, decimal.Zero)
		assert.False(t, p.EligibleForCertificate)
		assert.Contains(t, p.Issues, "Attendance 85% below 90% threshold")
	})

	t.Run("failed midterm blocks even with passing final", func(t *testing.T) {
		p := Compute(attendance(100, 100), []Assessment{
			assessment(t, AssessmentMidterm, 41),
			assessment(t, AssessmentFinal, 90),
		}, decimal.Zero)
		assert.False(t, p.HasPassedAllAssessments)
		assert.Equal(t, []string{"midterm assessment failed (41/100)"}, p.Issues)
	})

	t.Run("final assessment is required", func(t *testing.T) {
		p := Compute(attendance(100, 100), []Assessment{assessment(t, AssessmentMidterm, 90)}, decimal.Zero)
		assert.False(t, p.HasFinalAssessment)
		assert.Equal(t, []string{"No final assessment recorded"}, p.Issues)
	})

	t.Run("threshold boundary sweep", func(t *testing.T) {
		final := []Assessment{assessment(t, AssessmentFinal, 75)}
		for present := 880; present <= 920; present++ {
			p := Compute(attendance(present, 1000), final, decimal.Zero)
			assert.Equal(t, present >= 900, p.EligibleForCertificate, "present=%d", present)
		}

		p := Compute(attendance(17999, 20000), final, decimal.Zero)
		assert.Equal(t, "90", p.AttendancePercentage.String())
		assert.False(t, p.EligibleForCertificate, "89.995 percent must not meet a 90 percent bar")
		assert.Equal(t, []string{"Attendance 90% below 90% threshold"}, p.Issues)

		p = Compute(attendance(18000, 20000), final, decimal.Zero)
		assert.True(t, p.EligibleForCertificate)
	})

	t.Run("custom threshold", func(t *testing.T) {
		p := Compute(attendance(80, 100), []Assessment{assessment(t, AssessmentFinal, 75)}, decimal.NewFromInt(75))
		assert.True(t, p.EligibleForCertificate)
	})
}

func TestCertificateNumber(t *testing.T) {
	assert.Equal(t, "CERT-LHR-ELEC-01-0007", CertificateNumber("LHR-ELEC-01", 7))
}
