// Package store persists candidates and their child records. InMemoryStore
// backs tests and database-less runs; PostgresStore is the production store.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"wasl/internal/batch"
	"wasl/internal/departure"
	"wasl/internal/documents"
	"wasl/internal/lifecycle"
	"wasl/internal/screening"
	"wasl/internal/training"
	"wasl/internal/visa"
	id "wasl/pkg/domain"
	"wasl/pkg/platform/sentinel"
)

type screeningKey struct {
	candidate id.CandidateID
	kind      screening.Type
}

// InMemoryStore keeps everything in maps behind one RWMutex. Values are
// copied in and out so callers never share state with the store.
type InMemoryStore struct {
	mu sync.RWMutex

	candidates   map[id.CandidateID]lifecycle.Candidate
	byNationalID map[id.NationalID]id.CandidateID
	appSeq       map[int]int

	documents  map[id.CandidateID][]documents.Document
	screenings map[screeningKey]screening.Screening

	batches map[id.BatchID]batch.Batch

	trainings    map[id.CandidateID]training.Training
	attendance   map[id.CandidateID][]training.Attendance
	assessments  map[id.CandidateID][]training.Assessment
	certificates map[id.CandidateID]training.Certificate
	certSeq      map[id.BatchID]int

	visas       map[id.CandidateID]visa.Process
	departures  map[id.CandidateID]departure.Departure
	remittances map[id.CandidateID][]departure.Remittance
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		candidates:   make(map[id.CandidateID]lifecycle.Candidate),
		byNationalID: make(map[id.NationalID]id.CandidateID),
		appSeq:       make(map[int]int),
		documents:    make(map[id.CandidateID][]documents.Document),
		screenings:   make(map[screeningKey]screening.Screening),
		batches:      make(map[id.BatchID]batch.Batch),
		trainings:    make(map[id.CandidateID]training.Training),
		attendance:   make(map[id.CandidateID][]training.Attendance),
		assessments:  make(map[id.CandidateID][]training.Assessment),
		certificates: make(map[id.CandidateID]training.Certificate),
		certSeq:      make(map[id.BatchID]int),
		visas:        make(map[id.CandidateID]visa.Process),
		departures:   make(map[id.CandidateID]departure.Departure),
		remittances:  make(map[id.CandidateID][]departure.Remittance),
	}
}

func (s *InMemoryStore) CreateCandidate(_ context.Context, c *lifecycle.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[c.ID]; ok {
		return sentinel.ErrConflict
	}
	if _, ok := s.byNationalID[c.NationalID]; ok {
		return sentinel.ErrConflict
	}
	s.candidates[c.ID] = *c
	s.byNationalID[c.NationalID] = c.ID
	return nil
}

func (s *InMemoryStore) GetCandidate(_ context.Context, candidateID id.CandidateID) (*lifecycle.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) FindCandidateByNationalID(_ context.Context, nationalID id.NationalID) (*lifecycle.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cid, ok := s.byNationalID[nationalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := s.candidates[cid]
	return &c, nil
}

func (s *InMemoryStore) UpdateCandidate(_ context.Context, c *lifecycle.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.candidates[c.ID] = *c
	return nil
}

func (s *InMemoryStore) ListCandidates(_ context.Context, filter lifecycle.CandidateFilter) ([]lifecycle.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]lifecycle.Candidate, 0)
	for _, c := range s.candidates {
		if c.DeletedAt != nil {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if !filter.BatchID.IsNil() && c.BatchID != filter.BatchID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *InMemoryStore) CountByStatus(_ context.Context) (map[lifecycle.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[lifecycle.Status]int)
	for _, c := range s.candidates {
		if c.DeletedAt == nil {
			counts[c.Status]++
		}
	}
	return counts, nil
}

func (s *InMemoryStore) NextApplicationSequence(_ context.Context, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appSeq[year]++
	return s.appSeq[year], nil
}

func (s *InMemoryStore) SaveDocument(_ context.Context, d *documents.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.documents[d.CandidateID]
	for i := range docs {
		if docs[i].ID == d.ID {
			docs[i] = *d
			return nil
		}
	}
	s.documents[d.CandidateID] = append(docs, *d)
	return nil
}

func (s *InMemoryStore) GetDocument(_ context.Context, candidateID id.CandidateID, documentID id.DocumentID) (*documents.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.documents[candidateID] {
		if d.ID == documentID {
			return &d, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListDocuments(_ context.Context, candidateID id.CandidateID) ([]documents.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]documents.Document{}, s.documents[candidateID]...), nil
}

func (s *InMemoryStore) GetScreening(_ context.Context, candidateID id.CandidateID, t screening.Type) (*screening.Screening, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.screenings[screeningKey{candidateID, t}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}

func (s *InMemoryStore) SaveScreening(_ context.Context, rec *screening.Screening) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenings[screeningKey{rec.CandidateID, rec.Type}] = *rec
	return nil
}

func (s *InMemoryStore) ListScreenings(_ context.Context, candidateID id.CandidateID) ([]screening.Screening, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]screening.Screening, 0, len(screening.RequiredTypes))
	for _, t := range screening.RequiredTypes {
		if rec, ok := s.screenings[screeningKey{candidateID, t}]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *InMemoryStore) CreateBatch(_ context.Context, b *batch.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.batches {
		if existing.ID == b.ID || existing.Code == b.Code {
			return sentinel.ErrConflict
		}
	}
	s.batches[b.ID] = *b
	return nil
}

func (s *InMemoryStore) GetBatch(_ context.Context, batchID id.BatchID) (*batch.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[batchID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &b, nil
}

func (s *InMemoryStore) ListBatches(_ context.Context) ([]batch.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]batch.Batch, 0, len(s.batches))
	for _, b := range s.batches {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// IncrementEnrollment checks and increments under the write lock, the
// in-memory equivalent of the conditional UPDATE.
func (s *InMemoryStore) IncrementEnrollment(_ context.Context, batchID id.BatchID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[batchID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if err := b.Enroll(now); err != nil {
		return err
	}
	s.batches[batchID] = b
	return nil
}

func (s *InMemoryStore) ResizeBatch(_ context.Context, batchID id.BatchID, capacity int, now time.Time) (*batch.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[batchID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if capacity < b.EnrollmentCount {
		return nil, sentinel.ErrInvalidState
	}
	b.Capacity = capacity
	b.UpdatedAt = now
	s.batches[batchID] = b
	return &b, nil
}

func (s *InMemoryStore) GetTraining(_ context.Context, candidateID id.CandidateID) (*training.Training, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trainings[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &t, nil
}

func (s *InMemoryStore) SaveTraining(_ context.Context, t *training.Training) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trainings[t.CandidateID] = *t
	return nil
}

// UpsertAttendance keeps one row per candidate and calendar date.
func (s *InMemoryStore) UpsertAttendance(_ context.Context, a training.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.attendance[a.CandidateID]
	for i := range rows {
		if sameDay(rows[i].Date, a.Date) {
			rows[i] = a
			return nil
		}
	}
	s.attendance[a.CandidateID] = append(rows, a)
	return nil
}

func (s *InMemoryStore) ListAttendance(_ context.Context, candidateID id.CandidateID) ([]training.Attendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]training.Attendance{}, s.attendance[candidateID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *InMemoryStore) AddAssessment(_ context.Context, a *training.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessments[a.CandidateID] = append(s.assessments[a.CandidateID], *a)
	return nil
}

func (s *InMemoryStore) ListAssessments(_ context.Context, candidateID id.CandidateID) ([]training.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]training.Assessment{}, s.assessments[candidateID]...), nil
}

func (s *InMemoryStore) GetCertificate(_ context.Context, candidateID id.CandidateID) (*training.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.certificates[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) CreateCertificate(_ context.Context, cert *training.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certificates[cert.CandidateID]; ok {
		return sentinel.ErrConflict
	}
	s.certificates[cert.CandidateID] = *cert
	return nil
}

func (s *InMemoryStore) NextCertificateSequence(_ context.Context, batchID id.BatchID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.certSeq[batchID]++
	return s.certSeq[batchID], nil
}

func (s *InMemoryStore) GetVisaProcess(_ context.Context, candidateID id.CandidateID) (*visa.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.visas[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryStore) SaveVisaProcess(_ context.Context, p *visa.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visas[p.CandidateID] = *p
	return nil
}

func (s *InMemoryStore) GetDeparture(_ context.Context, candidateID id.CandidateID) (*departure.Departure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.departures[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &d, nil
}

func (s *InMemoryStore) SaveDeparture(_ context.Context, d *departure.Departure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departures[d.CandidateID] = *d
	return nil
}

func (s *InMemoryStore) AddRemittance(_ context.Context, r *departure.Remittance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remittances[r.CandidateID] = append(s.remittances[r.CandidateID], *r)
	return nil
}

func (s *InMemoryStore) ListRemittances(_ context.Context, candidateID id.CandidateID) ([]departure.Remittance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]departure.Remittance{}, s.remittances[candidateID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].TransferDate.Before(out[j].TransferDate) })
	return out, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

var _ lifecycle.Store = (*InMemoryStore)(nil)
