package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wasl/internal/documents"
	"wasl/internal/lifecycle"
	id "wasl/pkg/domain"
	"wasl/pkg/platform/audit"
)

type UploadDocumentInput struct {
	Item      documents.ItemCode
	FileRef   string
	ExpiresAt *time.Time
}

// UploadDocument records a new upload. A later upload of the same item
// supersedes earlier ones.
func (s *Service) UploadDocument(ctx context.Context, candidateID id.CandidateID, in UploadDocumentInput) (*documents.Document, error) {
	var doc *documents.Document
	err := s.withCandidate(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error {
		if err := requireNotTerminal(c); err != nil {
			return err
		}
		d, err := documents.NewDocument(id.DocumentID(uuid.New()), c.ID, in.Item, in.FileRef, in.ExpiresAt, s.engine.Checklist(), s.now())
		if err != nil {
			return err
		}
		if err := store.SaveDocument(ctx, d); err != nil {
			return translate(err, "document")
		}
		doc = d
		return s.emit(ctx, c, audit.EventDocumentUploaded, func(e *audit.Event) {
			e.Reason = string(d.Item)
		})
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) VerifyDocument(ctx context.Context, candidateID id.CandidateID, documentID id.DocumentID) (*documents.Document, error) {
	return s.reviewDocument(ctx, candidateID, documentID, audit.EventDocumentVerified, func(d *documents.Document) error {
		return d.Verify(s.now())
	})
}

func (s *Service) RejectDocument(ctx context.Context, candidateID id.CandidateID, documentID id.DocumentID, reason string) (*documents.Document, error) {
	return s.reviewDocument(ctx, candidateID, documentID, audit.EventDocumentRejected, func(d *documents.Document) error {
		return d.Reject(reason)
	})
}

func (s *Service) reviewDocument(ctx context.Context, candidateID id.CandidateID, documentID id.DocumentID, action audit.AuditEvent, review func(d *documents.Document) error) (*documents.Document, error) {
	var doc *documents.Document
	err := s.withCandidate(ctx, candidateID, func(ctx context.Context, store lifecycle.Store, c *lifecycle.Candidate) error {
		if err := requireNotTerminal(c); err != nil {
			return err
		}
		d, err := store.GetDocument(ctx, c.ID, documentID)
		if err != nil {
			return translate(err, "document")
		}
		if err := review(d); err != nil {
			return err
		}
		if err := store.SaveDocument(ctx, d); err != nil {
			return translate(err, "document")
		}
		doc = d
		return s.emit(ctx, c, action, func(e *audit.Event) {
			e.Decision = string(d.Status)
			e.Reason = d.RejectionReason
		})
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
