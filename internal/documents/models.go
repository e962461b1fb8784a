package documents

import (
	"time"

	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

// Phase groups checklist items by the lifecycle step that needs them.
type Phase string

const (
	PhasePreDeparture Phase = "pre_departure"
	PhaseRegistration Phase = "registration"
)

// VerificationStatus is the review state of an uploaded document.
type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusVerified VerificationStatus = "verified"
	StatusRejected VerificationStatus = "rejected"
)

// ItemCode identifies a checklist entry (cnic, passport, frc, ...).
type ItemCode string

const (
	ItemCNIC        ItemCode = "cnic"
	ItemPassport    ItemCode = "passport"
	ItemDomicile    ItemCode = "domicile"
	ItemFRC         ItemCode = "frc"
	ItemPCC         ItemCode = "pcc"
	ItemEducation   ItemCode = "education"
	ItemPhotograph  ItemCode = "photograph"
	ItemUndertaking ItemCode = "undertaking"
)

// ChecklistItem is one required or optional document.
type ChecklistItem struct {
	Code      ItemCode
	Name      string
	Mandatory bool
	Phase     Phase
}

// Checklist is an ordered set of items. Order drives issue ordering.
type Checklist []ChecklistItem

// DefaultChecklist is the BTEVTA document checklist.
func DefaultChecklist() Checklist {
	return Checklist{
		{Code: ItemCNIC, Name: "CNIC", Mandatory: true, Phase: PhasePreDeparture},
		{Code: ItemPassport, Name: "Passport", Mandatory: true, Phase: PhasePreDeparture},
		{Code: ItemDomicile, Name: "Domicile", Mandatory: true, Phase: PhasePreDeparture},
		{Code: ItemFRC, Name: "FRC", Mandatory: true, Phase: PhasePreDeparture},
		{Code: ItemPCC, Name: "PCC", Mandatory: true, Phase: PhasePreDeparture},
		{Code: ItemEducation, Name: "Education certificate", Mandatory: false, Phase: PhasePreDeparture},
		{Code: ItemPhotograph, Name: "Photograph", Mandatory: true, Phase: PhaseRegistration},
		{Code: ItemUndertaking, Name: "Undertaking", Mandatory: true, Phase: PhaseRegistration},
	}
}

// Item looks up a checklist entry by code.
func (c Checklist) Item(code ItemCode) (ChecklistItem, bool) {
	for _, item := range c {
		if item.Code == code {
			return item, true
		}
	}
	return ChecklistItem{}, false
}

// Mandatory returns the mandatory items of a phase in checklist order.
func (c Checklist) Mandatory(phase Phase) []ChecklistItem {
	var out []ChecklistItem
	for _, item := range c {
		if item.Mandatory && item.Phase == phase {
			out = append(out, item)
		}
	}
	return out
}

// Document is an uploaded checklist document for a candidate.
type Document struct {
	ID              id.DocumentID      `json:"id"`
	CandidateID     id.CandidateID     `json:"candidate_id"`
	Item            ItemCode           `json:"item"`
	FileRef         string             `json:"file_ref"`
	Status          VerificationStatus `json:"status"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	ExpiresAt       *time.Time         `json:"expires_at,omitempty"`
	VerifiedAt      *time.Time         `json:"verified_at,omitempty"`
	UploadedAt      time.Time          `json:"uploaded_at"`
}

// NewDocument validates an upload against the checklist.
func NewDocument(docID id.DocumentID, candidateID id.CandidateID, item ItemCode, fileRef string, expiresAt *time.Time, checklist Checklist, now time.Time) (*Document, error) {
	if _, ok := checklist.Item(item); !ok {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown document type %q", item)
	}
	if fileRef == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "file reference is required")
	}
	return &Document{
		ID:          docID,
		CandidateID: candidateID,
		Item:        item,
		FileRef:     fileRef,
		Status:      StatusPending,
		ExpiresAt:   expiresAt,
		UploadedAt:  now,
	}, nil
}

// Verify marks the document as reviewed and accepted.
func (d *Document) Verify(now time.Time) error {
	if d.Status == StatusVerified {
		return dErrors.New(dErrors.CodeInvariantViolation, "document already verified")
	}
	d.Status = StatusVerified
	d.RejectionReason = ""
	d.VerifiedAt = &now
	return nil
}

// Reject marks the document as unusable. A reason is required.
func (d *Document) Reject(reason string) error {
	if reason == "" {
		return dErrors.New(dErrors.CodeValidation, "rejection reason is required")
	}
	d.Status = StatusRejected
	d.RejectionReason = reason
	d.VerifiedAt = nil
	return nil
}

// IsVerified requires both the status and the verification timestamp.
func (d *Document) IsVerified() bool {
	return d.Status == StatusVerified && d.VerifiedAt != nil
}

// IsExpired reports whether the document's expiry lies before now.
func (d *Document) IsExpired(now time.Time) bool {
	return d.ExpiresAt != nil && d.ExpiresAt.Before(now)
}
