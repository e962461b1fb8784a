// Package training computes attendance, assessment and certificate
// eligibility figures for a candidate enrolled in a batch.
package training

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DefaultAttendanceThreshold is the minimum attendance percentage for a certificate.
var DefaultAttendanceThreshold = decimal.NewFromInt(90)

// Progress is the computed training picture for one candidate.
type Progress struct {
	PresentDays             int             `json:"present_days"`
	TotalDays               int             `json:"total_days"`
	AttendancePercentage    decimal.Decimal `json:"attendance_percentage"`
	AverageAssessmentScore  decimal.Decimal `json:"average_assessment_score"`
	AssessmentCount         int             `json:"assessment_count"`
	HasPassedAllAssessments bool            `json:"has_passed_all_assessments"`
	HasFinalAssessment      bool            `json:"has_final_assessment"`
	EligibleForCertificate  bool            `json:"eligible_for_certificate"`
	Issues                  []string        `json:"issues"`
}

// AttendancePercentage returns present/total*100 rounded to two places.
// No records yields zero.
func AttendancePercentage(records []Attendance) decimal.Decimal {
	if len(records) == 0 {
		return decimal.Zero
	}
	present := 0
	for _, r := range records {
		if r.Present {
			present++
		}
	}
	return decimal.NewFromInt(int64(present)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(len(records)))).
		Round(2)
}

// AverageScore is the mean of raw scores. No assessments yields zero.
func AverageScore(assessments []Assessment) decimal.Decimal {
	if len(assessments) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, a := range assessments {
		sum = sum.Add(a.Score)
	}
	return sum.Div(decimal.NewFromInt(int64(len(assessments)))).Round(2)
}

// Compute evaluates certificate eligibility against threshold. A zero
// threshold uses DefaultAttendanceThreshold.
func Compute(attendance []Attendance, assessments []Assessment, threshold decimal.Decimal) Progress {
	if threshold.IsZero() {
		threshold = DefaultAttendanceThreshold
	}

	p := Progress{
		TotalDays:               len(attendance),
		AttendancePercentage:    AttendancePercentage(attendance),
		AverageAssessmentScore:  AverageScore(assessments),
		AssessmentCount:         len(assessments),
		HasPassedAllAssessments: true,
		Issues:                  []string{},
	}
	for _, a := range attendance {
		if a.Present {
			p.PresentDays++
		}
	}

	if belowThreshold(p.PresentDays, p.TotalDays, threshold) {
		p.Issues = append(p.Issues, fmt.Sprintf("Attendance %s%% below %s%% threshold",
			p.AttendancePercentage.String(), threshold.String()))
	}

	for _, a := range assessments {
		if a.Type == AssessmentFinal {
			p.HasFinalAssessment = true
		}
		if a.Result == ResultFail {
			p.HasPassedAllAssessments = false
			p.Issues = append(p.Issues, fmt.Sprintf("%s assessment failed (%s/%s)",
				a.Type, a.Score.String(), a.TotalMarks.String()))
		}
	}
	if !p.HasFinalAssessment {
		p.Issues = append(p.Issues, "No final assessment recorded")
	}

	p.EligibleForCertificate = len(p.Issues) == 0
	return p
}

// CertificateNumber formats the certificate number for a batch sequence.
func CertificateNumber(batchCode string, seq int) string {
	return fmt.Sprintf("CERT-%s-%04d", batchCode, seq)
}

// belowThreshold compares present/total*100 with threshold without
// rounding, so 89.995% never passes a 90% bar.
func belowThreshold(present, total int, threshold decimal.Decimal) bool {
	if total == 0 {
		return threshold.IsPositive()
	}
	return decimal.NewFromInt(int64(present)).Mul(hundred).
		LessThan(threshold.Mul(decimal.NewFromInt(int64(total))))
}
