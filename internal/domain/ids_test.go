package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/edge-gateway/internal/domain"
)

func TestUserID(t *testing.T) {
	validUUID := "550e8400-e29b-41d4-a716-446655440000"

	t.Run("valid UUID", func(t *testing.T) {
		id, err := domain.NewUserID(validUUID)
		require.NoError(t, err)
		assert.Equal(t, validUUID, id.String())
		assert.False(t, id.IsZero())
	})

	t.Run("empty string returns error", func(t *testing.T) {
		_, err := domain.NewUserID("")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyID)
	})

	t.Run("invalid format returns error", func(t *testing.T) {
		_, err := domain.NewUserID("not-a-uuid")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})

	t.Run("zero value is zero", func(t *testing.T) {
		var id domain.UserID
		assert.True(t, id.IsZero())
		assert.Empty(t, id.String())
	})

	t.Run("generate creates valid ID", func(t *testing.T) {
		id := domain.GenerateUserID()
		assert.False(t, id.IsZero())
		// Verify it's a valid UUID by parsing it
		_, err := domain.NewUserID(id.String())
		require.NoError(t, err)
	})

	t.Run("MustUserID panics on invalid", func(t *testing.T) {
		assert.Panics(t, func() {
			domain.MustUserID("invalid")
		})
	})

	t.Run("MustUserID succeeds on valid", func(t *testing.T) {
		assert.NotPanics(t, func() {
			id := domain.MustUserID(validUUID)
			assert.Equal(t, validUUID, id.String())
		})
	})
}

func TestSessionID(t *testing.T) {
	validUUID := "6f1c8e52-9f0a-4b7d-8a3e-2d5c91e07b44"

	t.Run("valid UUID", func(t *testing.T) {
		id, err := domain.NewSessionID(validUUID)
		require.NoError(t, err)
		assert.Equal(t, validUUID, id.String())
		assert.False(t, id.IsZero())
	})

	t.Run("empty string returns error", func(t *testing.T) {
		_, err := domain.NewSessionID("")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyID)
	})

	t.Run("invalid format returns error", func(t *testing.T) {
		_, err := domain.NewSessionID("not-a-uuid")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})

	t.Run("generate creates valid ID", func(t *testing.T) {
		id := domain.GenerateSessionID()
		assert.False(t, id.IsZero())
		_, err := domain.NewSessionID(id.String())
		require.NoError(t, err)
	})

	t.Run("MustSessionID panics on invalid", func(t *testing.T) {
		assert.Panics(t, func() {
			domain.MustSessionID("invalid")
		})
	})
}
