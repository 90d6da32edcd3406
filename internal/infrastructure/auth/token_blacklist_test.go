package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/bizhub/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklistRevoke(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklistEntryExpiry(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-short", -time.Second))

	revoked, err := blacklist.IsRevoked(ctx, "jti-short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklistRevokeUser(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	issuedBefore := time.Now().Add(-time.Minute)
	require.NoError(t, blacklist.RevokeUser(ctx, "user-1", time.Hour))

	revoked, err := blacklist.IsUserRevoked(ctx, "user-1", issuedBefore)
	require.NoError(t, err)
	assert.True(t, revoked, "tokens issued before the revocation should be rejected")

	issuedAfter := time.Now().Add(time.Minute)
	revoked, err = blacklist.IsUserRevoked(ctx, "user-1", issuedAfter)
	require.NoError(t, err)
	assert.False(t, revoked, "tokens issued after the revocation remain valid")

	revoked, err = blacklist.IsUserRevoked(ctx, "other-user", issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)
}
