package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	id "wasl/pkg/domain"
	audit "wasl/pkg/platform/audit"
)

// InMemoryStore is an outbox-shaped audit store for tests and database-less runs.
type InMemoryStore struct {
	mu        sync.RWMutex
	entries   []audit.OutboxEntry
	published map[uuid.UUID]time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{published: make(map[uuid.UUID]time.Time)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.published = make(map[uuid.UUID]time.Time)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	entry, err := audit.NewOutboxEntry(event, time.Now())
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryStore) ListByCandidate(_ context.Context, candidateID id.CandidateID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Event, 0)
	for _, entry := range s.entries {
		if entry.AggregateType != "candidate" || entry.AggregateID != candidateID.String() {
			continue
		}
		e, err := audit.DecodeEvent(entry.Payload)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *InMemoryStore) Pending(_ context.Context, limit int) ([]audit.OutboxEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.OutboxEntry, 0)
	for _, entry := range s.entries {
		if _, done := s.published[entry.ID]; done {
			continue
		}
		out = append(out, entry)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, eid := range ids {
		s.published[eid] = at
	}
	return nil
}

var (
	_ audit.Store  = (*InMemoryStore)(nil)
	_ audit.Outbox = (*InMemoryStore)(nil)
)
