package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "wasl/pkg/domain"
	audit "wasl/pkg/platform/audit"
	"wasl/pkg/platform/audit/store/memory"
	"wasl/pkg/requestcontext"
)

type failingStore struct{ audit.Store }

func (failingStore) Append(context.Context, audit.Event) error { return errors.New("db down") }

func TestEmit(t *testing.T) {
	candidateID := id.CandidateID(uuid.New())
	operatorID := id.OperatorID(uuid.New())
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("fills request metadata from context", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		metrics := NewMetrics(prometheus.NewRegistry())
		pub := New(store, WithMetrics(metrics))

		ctx := requestcontext.WithOperatorID(context.Background(), operatorID)
		ctx = requestcontext.WithRequestID(ctx, "req-1")
		ctx = requestcontext.WithTime(ctx, at)

		require.NoError(t, pub.Emit(ctx, audit.Event{
			CandidateID: candidateID,
			Action:      string(audit.EventCandidateTransitioned),
			From:        "listed",
			To:          "pre_departure_docs",
		}))

		events, err := store.ListByCandidate(ctx, candidateID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, operatorID.String(), events[0].ActorID)
		assert.Equal(t, "req-1", events[0].RequestID)
		assert.Equal(t, audit.CategoryCompliance, events[0].Category)
		assert.True(t, at.Equal(events[0].Timestamp))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EventsEmitted.WithLabelValues(string(audit.EventCandidateTransitioned))))
	})

	t.Run("fails closed when the store fails", func(t *testing.T) {
		metrics := NewMetrics(prometheus.NewRegistry())
		pub := New(failingStore{}, WithMetrics(metrics))
		err := pub.Emit(context.Background(), audit.Event{CandidateID: candidateID, Action: "candidate_created"})
		require.Error(t, err)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PersistFailures))
	})

	t.Run("requires an action and a subject", func(t *testing.T) {
		pub := New(memory.NewInMemoryStore())
		assert.Error(t, pub.Emit(context.Background(), audit.Event{CandidateID: candidateID}))
		assert.Error(t, pub.Emit(context.Background(), audit.Event{Action: "batch_created"}))
	})
}
