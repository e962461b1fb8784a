package screening

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

var now = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

func passed(t Type) Screening {
	return Screening{Type: t, Status: StatusPassed}
}

func TestScreeningStateMachine(t *testing.T) {
	candidateID := id.CandidateID(uuid.New())

	t.Run("pending to in_progress to passed", func(t *testing.T) {
		s := New(candidateID, TypeDesk, now)
		require.NoError(t, s.Apply(StatusInProgress, "", now))
		require.NoError(t, s.Apply(StatusPassed, "good", now))
		assert.Equal(t, StatusPassed, s.Status)
		assert.Equal(t, "good", s.Remarks)
		require.NotNil(t, s.ScreenedAt)
	})

	t.Run("pending can resolve directly", func(t *testing.T) {
		s := New(candidateID, TypePhysical, now)
		require.NoError(t, s.Apply(StatusFailed, "vision", now))
		assert.Equal(t, StatusFailed, s.Status)
	})

	t.Run("terminal status cannot change", func(t *testing.T) {
		s := New(candidateID, TypeDesk, now)
		require.NoError(t, s.Apply(StatusFailed, "", now))
		err := s.Apply(StatusPassed, "", now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("cannot move back to pending", func(t *testing.T) {
		s := New(candidateID, TypeDesk, now)
		require.NoError(t, s.Apply(StatusInProgress, "", now))
		assert.Error(t, s.Apply(StatusPending, "", now))
	})

	t.Run("parse rejects unknown values", func(t *testing.T) {
		_, err := ParseStatus("screened")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = ParseType("medical")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestCallAttempts(t *testing.T) {
	candidateID := id.CandidateID(uuid.New())

	t.Run("counts up to the maximum then soft-fails", func(t *testing.T) {
		s := New(candidateID, TypeCall, now)
		for i := 1; i <= 3; i++ {
			res, err := s.RecordCallAttempt(3, now)
			require.NoError(t, err)
			assert.Equal(t, i, res.Attempts)
			assert.False(t, res.MaxAttemptsReached)
		}
		res, err := s.RecordCallAttempt(3, now)
		require.NoError(t, err)
		assert.True(t, res.MaxAttemptsReached)
		assert.Equal(t, 3, res.Attempts)
		assert.Equal(t, 3, s.CallAttempts)
		assert.Equal(t, StatusInProgress, s.Status, "soft-fail leaves status untouched")
	})

	t.Run("only call screenings track attempts", func(t *testing.T) {
		s := New(candidateID, TypeDesk, now)
		_, err := s.RecordCallAttempt(3, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("zero max falls back to default", func(t *testing.T) {
		s := New(candidateID, TypeCall, now)
		res, err := s.RecordCallAttempt(0, now)
		require.NoError(t, err)
		assert.Equal(t, DefaultMaxCallAttempts, res.MaxAttempts)
	})
}

func TestAggregate(t *testing.T) {
	t.Run("all three passed", func(t *testing.T) {
		out := Aggregate([]Screening{passed(TypeDesk), passed(TypeCall), passed(TypePhysical)})
		assert.True(t, out.AllPassed)
		assert.False(t, out.AnyFailed)
		assert.Empty(t, out.Issues)
	})

	t.Run("missing types are pending", func(t *testing.T) {
		out := Aggregate([]Screening{passed(TypeDesk)})
		assert.False(t, out.AllPassed)
		assert.Equal(t, []Type{TypeCall, TypePhysical}, out.Pending)
		assert.Contains(t, out.Issues, "call screening not started")
	})

	t.Run("any failure is reported", func(t *testing.T) {
		out := Aggregate([]Screening{passed(TypeDesk), {Type: TypeCall, Status: StatusFailed}})
		assert.True(t, out.AnyFailed)
		assert.Contains(t, out.Issues, "call screening failed")
	})
}

func TestSignalFor(t *testing.T) {
	t.Run("third pass signals advancement", func(t *testing.T) {
		all := []Screening{passed(TypeDesk), passed(TypeCall), passed(TypePhysical)}
		assert.Equal(t, SignalAllPassed, SignalFor(all[2], all))
	})

	t.Run("failure wins regardless of other state", func(t *testing.T) {
		failed := Screening{Type: TypePhysical, Status: StatusFailed}
		all := []Screening{passed(TypeDesk), {Type: TypeCall, Status: StatusInProgress}, failed}
		assert.Equal(t, SignalFailed, SignalFor(failed, all))
	})

	t.Run("partial passes signal nothing", func(t *testing.T) {
		all := []Screening{passed(TypeDesk), passed(TypeCall)}
		assert.Equal(t, SignalNone, SignalFor(all[1], all))
	})
}
