package lifecycle

import (
	"context"
	"time"

	"wasl/internal/batch"
	"wasl/internal/departure"
	"wasl/internal/documents"
	"wasl/internal/screening"
	"wasl/internal/training"
	"wasl/internal/visa"
	id "wasl/pkg/domain"
)

// Stores return sentinel.ErrNotFound for missing rows and
// sentinel.ErrConflict for uniqueness violations.

type CandidateStore interface {
	CreateCandidate(ctx context.Context, c *Candidate) error
	GetCandidate(ctx context.Context, candidateID id.CandidateID) (*Candidate, error)
	FindCandidateByNationalID(ctx context.Context, nationalID id.NationalID) (*Candidate, error)
	UpdateCandidate(ctx context.Context, c *Candidate) error
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]Candidate, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
	NextApplicationSequence(ctx context.Context, year int) (int, error)
}

// CandidateFilter narrows ListCandidates. Zero values match everything.
type CandidateFilter struct {
	Status  Status
	BatchID id.BatchID
	Limit   int
}

type DocumentStore interface {
	SaveDocument(ctx context.Context, d *documents.Document) error
	GetDocument(ctx context.Context, candidateID id.CandidateID, documentID id.DocumentID) (*documents.Document, error)
	ListDocuments(ctx context.Context, candidateID id.CandidateID) ([]documents.Document, error)
}

type ScreeningStore interface {
	GetScreening(ctx context.Context, candidateID id.CandidateID, t screening.Type) (*screening.Screening, error)
	SaveScreening(ctx context.Context, s *screening.Screening) error
	ListScreenings(ctx context.Context, candidateID id.CandidateID) ([]screening.Screening, error)
}

type BatchStore interface {
	CreateBatch(ctx context.Context, b *batch.Batch) error
	GetBatch(ctx context.Context, batchID id.BatchID) (*batch.Batch, error)
	ListBatches(ctx context.Context) ([]batch.Batch, error)
	// IncrementEnrollment takes one seat atomically and returns
	// *batch.CapacityExceededError when the batch is full.
	IncrementEnrollment(ctx context.Context, batchID id.BatchID, now time.Time) error
	// ResizeBatch changes capacity only if it stays at or above enrollment;
	// otherwise it returns sentinel.ErrInvalidState.
	ResizeBatch(ctx context.Context, batchID id.BatchID, capacity int, now time.Time) (*batch.Batch, error)
}

type TrainingStore interface {
	GetTraining(ctx context.Context, candidateID id.CandidateID) (*training.Training, error)
	SaveTraining(ctx context.Context, t *training.Training) error
	UpsertAttendance(ctx context.Context, a training.Attendance) error
	ListAttendance(ctx context.Context, candidateID id.CandidateID) ([]training.Attendance, error)
	AddAssessment(ctx context.Context, a *training.Assessment) error
	ListAssessments(ctx context.Context, candidateID id.CandidateID) ([]training.Assessment, error)
	GetCertificate(ctx context.Context, candidateID id.CandidateID) (*training.Certificate, error)
	CreateCertificate(ctx context.Context, cert *training.Certificate) error
	NextCertificateSequence(ctx context.Context, batchID id.BatchID) (int, error)
}

type VisaStore interface {
	GetVisaProcess(ctx context.Context, candidateID id.CandidateID) (*visa.Process, error)
	SaveVisaProcess(ctx context.Context, p *visa.Process) error
}

type DepartureStore interface {
	GetDeparture(ctx context.Context, candidateID id.CandidateID) (*departure.Departure, error)
	SaveDeparture(ctx context.Context, d *departure.Departure) error
	AddRemittance(ctx context.Context, r *departure.Remittance) error
	ListRemittances(ctx context.Context, candidateID id.CandidateID) ([]departure.Remittance, error)
}

// Store is everything the engine and its callers persist.
type Store interface {
	CandidateStore
	DocumentStore
	ScreeningStore
	BatchStore
	TrainingStore
	VisaStore
	DepartureStore
}
