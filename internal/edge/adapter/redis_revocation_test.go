package adapter_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/edge-gateway/internal/domain"
	"github.com/slotwise/edge-gateway/internal/edge/adapter"
	redisclient "github.com/slotwise/edge-gateway/internal/redis"
)

func newTestRevocationStore(t *testing.T) (*adapter.RevocationStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redisclient.NewClient(redisclient.Config{
		Addr:         mr.Addr(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})

	return adapter.NewRevocationStore(client.RDB), mr
}

func TestRevocationStore_IsRevoked(t *testing.T) {
	t.Run("returns false for unknown session", func(t *testing.T) {
		store, _ := newTestRevocationStore(t)

		revoked, err := store.IsRevoked(context.Background(), "unknown-sid")

		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("returns true when the auth backend wrote a revocation entry", func(t *testing.T) {
		store, mr := newTestRevocationStore(t)
		require.NoError(t, mr.Set("revoked_session:sid-123", "1"))

		revoked, err := store.IsRevoked(context.Background(), "sid-123")

		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("returns false after the revocation entry expires", func(t *testing.T) {
		store, mr := newTestRevocationStore(t)
		require.NoError(t, mr.Set("revoked_session:sid-456", "1"))
		mr.SetTTL("revoked_session:sid-456", domain.RevokedSessionTTL)

		mr.FastForward(domain.RevokedSessionTTL + time.Second)

		revoked, err := store.IsRevoked(context.Background(), "sid-456")

		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("different sessions are independent", func(t *testing.T) {
		store, mr := newTestRevocationStore(t)
		require.NoError(t, mr.Set("revoked_session:sid-a", "1"))

		revoked, err := store.IsRevoked(context.Background(), "sid-b")

		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("fails closed when redis is unreachable", func(t *testing.T) {
		store, mr := newTestRevocationStore(t)
		mr.Close()

		revoked, err := store.IsRevoked(context.Background(), "sid-any")

		require.Error(t, err)
		assert.True(t, revoked, "unreachable store must report revoked")
	})
}
