// Package documents tracks checklist completion for a candidate. Evaluate is
// pure: it reads document rows and reports readiness, it never mutates them.
package documents

import (
	"fmt"
	"strings"
	"time"
)

// Readiness summarises the checklist state for one phase.
type Readiness struct {
	Phase          Phase      `json:"phase"`
	UploadedCount  int        `json:"uploaded_count"`
	VerifiedCount  int        `json:"verified_count"`
	TotalMandatory int        `json:"total_mandatory"`
	MissingItems   []ItemCode `json:"missing_items"`
	Issues         []string   `json:"issues"`
	IsComplete     bool       `json:"is_complete"`
}

// Summary joins issues for display.
func (r Readiness) Summary() string {
	return strings.Join(r.Issues, "; ")
}

// Evaluate computes readiness of the mandatory items of phase. When several
// uploads exist for the same item the most recent one counts.
func Evaluate(docs []Document, checklist Checklist, phase Phase, now time.Time) Readiness {
	latest := latestByItem(docs)
	mandatory := checklist.Mandatory(phase)

	r := Readiness{
		Phase:          phase,
		TotalMandatory: len(mandatory),
		MissingItems:   []ItemCode{},
		Issues:         []string{},
	}

	for _, item := range mandatory {
		doc, ok := latest[item.Code]
		if !ok {
			r.MissingItems = append(r.MissingItems, item.Code)
			r.Issues = append(r.Issues, fmt.Sprintf("%s document missing", item.Name))
			continue
		}
		r.UploadedCount++

		switch {
		case doc.Status == StatusRejected:
			msg := fmt.Sprintf("%s document rejected", item.Name)
			if doc.RejectionReason != "" {
				msg += ": " + doc.RejectionReason
			}
			r.Issues = append(r.Issues, msg)
		case !doc.IsVerified():
			r.Issues = append(r.Issues, fmt.Sprintf("%s document not verified", item.Name))
		case doc.IsExpired(now):
			r.VerifiedCount++
			r.Issues = append(r.Issues, fmt.Sprintf("%s document expired on %s", item.Name, doc.ExpiresAt.Format(time.DateOnly)))
		default:
			r.VerifiedCount++
		}
	}

	r.IsComplete = len(r.Issues) == 0
	return r
}

func latestByItem(docs []Document) map[ItemCode]Document {
	latest := make(map[ItemCode]Document, len(docs))
	for _, d := range docs {
		current, ok := latest[d.Item]
		if !ok || d.UploadedAt.After(current.UploadedAt) {
			latest[d.Item] = d
		}
	}
	return latest
}
