package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenRevocations_Revoke(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTokenRevocations()

	t.Run("unknown JTI is not revoked", func(t *testing.T) {
		revoked, err := store.IsRevoked(ctx, "unknown-jti")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revoked JTI is reported", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))

		revoked, err := store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("entry lapses after its TTL", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-2", time.Nanosecond))
		time.Sleep(time.Millisecond)

		revoked, err := store.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}

func TestInMemoryTokenRevocations_RevokeAllForUser(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTokenRevocations()

	issuedBefore := time.Now().Add(-time.Minute)

	require.NoError(t, store.RevokeAllForUser(ctx, "user-1", time.Hour))

	t.Run("tokens issued before the cutoff are rejected", func(t *testing.T) {
		revoked, err := store.IsUserRevokedSince(ctx, "user-1", issuedBefore)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("tokens issued after the cutoff remain valid", func(t *testing.T) {
		revoked, err := store.IsUserRevokedSince(ctx, "user-1", time.Now().Add(time.Second))
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("other users are unaffected", func(t *testing.T) {
		revoked, err := store.IsUserRevokedSince(ctx, "user-2", issuedBefore)
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
