package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
)

var (
	jwtService = NewJWTService("test-signing-key", "wasl", "wasl-operators")
	operatorID = id.OperatorID(uuid.New())
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(operatorID, "Ayesha", "registrar", time.Hour)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, operatorID.String(), claims.OperatorID)
	assert.Equal(t, "registrar", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

}

func TestOperatorValidator(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(operatorID, "Ayesha", "registrar", time.Hour)
	require.NoError(t, err)

	t.Run("any role", func(t *testing.T) {
		claims, err := NewOperatorValidator(jwtService).ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, operatorID.String(), claims.OperatorID)
		assert.Equal(t, "Ayesha", claims.Name)
		assert.NotEmpty(t, claims.JTI)
	})

	t.Run("allowed role", func(t *testing.T) {
		_, err := NewOperatorValidator(jwtService, "registrar", "admin").ValidateToken(token)
		assert.NoError(t, err)
	})

	t.Run("role not allowed", func(t *testing.T) {
		_, err := NewOperatorValidator(jwtService, "admin").ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		assert.Equal(t, `role "registrar" may not operate on candidates`, err.Error())
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := NewOperatorValidator(jwtService).ValidateToken("nope")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func TestValidateRejects(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		_, err := jwtService.ValidateToken("not-a-token")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("expired", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(operatorID, "Ayesha", "registrar", -time.Hour)
		require.NoError(t, err)
		_, err = jwtService.ValidateToken(token)
		require.Error(t, err)
		assert.Equal(t, "token has expired", err.Error())
	})

	t.Run("other audience", func(t *testing.T) {
		other := NewJWTService("test-signing-key", "wasl", "someone-else")
		token, err := other.GenerateAccessToken(operatorID, "Ayesha", "registrar", time.Hour)
		require.NoError(t, err)
		_, err = jwtService.ValidateToken(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewJWTService("another-key", "wasl", "wasl-operators")
		token, err := other.GenerateAccessToken(operatorID, "Ayesha", "registrar", time.Hour)
		require.NoError(t, err)
		_, err = jwtService.ValidateToken(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
