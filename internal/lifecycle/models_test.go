package lifecycle_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wasl/internal/lifecycle"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want lifecycle.Status
	}{
		{"new", lifecycle.StatusNew},
		{" Training ", lifecycle.StatusTraining},
		{"pre_departure_docs", lifecycle.StatusPreDepartureDocs},
		{"screening_passed", lifecycle.StatusRegistered},
		{"screened", lifecycle.StatusRegistered},
	}
	for _, tt := range tests {
		got, err := lifecycle.ParseStatus(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := lifecycle.ParseStatus("emigrated")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestStatusGraph(t *testing.T) {
	assert.True(t, lifecycle.StatusNew.CanTransitionTo(lifecycle.StatusListed))
	assert.True(t, lifecycle.StatusDeferred.CanTransitionTo(lifecycle.StatusScreening))
	assert.False(t, lifecycle.StatusNew.CanTransitionTo(lifecycle.StatusTraining))
	assert.False(t, lifecycle.StatusRegistered.CanTransitionTo(lifecycle.StatusRejected))

	for _, st := range []lifecycle.Status{lifecycle.StatusDeparted, lifecycle.StatusRejected} {
		assert.True(t, st.IsTerminal())
		for _, target := range lifecycle.Statuses {
			assert.False(t, st.CanTransitionTo(target), "%s -> %s", st, target)
		}
	}

	t.Run("every edge has a default rule", func(t *testing.T) {
		rules := lifecycle.DefaultRules()
		assert.Len(t, rules, len(lifecycle.Edges()))
		for _, edge := range lifecycle.Edges() {
			assert.Contains(t, rules, edge)
		}
	})
}

func TestNewCandidate(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	c, err := lifecycle.NewCandidate(id.CandidateID(uuid.New()), "BTV-2026-000001", "3520212345671", "  Ayesha Khan ", now)
	require.NoError(t, err)
	assert.Equal(t, "Ayesha Khan", c.Name)
	assert.Equal(t, lifecycle.StatusNew, c.Status)
	assert.False(t, c.IsArchived())

	_, err = lifecycle.NewCandidate(id.CandidateID(uuid.New()), "BTV-2026-000002", "3520212345671", "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
