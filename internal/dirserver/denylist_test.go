package dirserver

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDenylist(t *testing.T) (*TokenDenylist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenDenylist(client), mr
}

func TestDenylistRevokeAndCheck(t *testing.T) {
	denylist, _ := newTestDenylist(t)

	revoked, err := denylist.IsRevoked(context.Background(), "some-token")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(context.Background(), "some-token", time.Now().Add(time.Hour)))

	revoked, err = denylist.IsRevoked(context.Background(), "some-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other credentials are unaffected.
	revoked, err = denylist.IsRevoked(context.Background(), "other-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDenylistExpiredCredentialIsNoop(t *testing.T) {
	denylist, mr := newTestDenylist(t)

	require.NoError(t, denylist.Revoke(context.Background(), "stale-token", time.Now().Add(-time.Minute)))
	assert.Zero(t, len(mr.Keys()), "already-expired credentials need no denylist entry")
}

func TestDenylistEntryExpiresWithCredential(t *testing.T) {
	denylist, mr := newTestDenylist(t)

	require.NoError(t, denylist.Revoke(context.Background(), "short-token", time.Now().Add(time.Minute)))
	mr.FastForward(2 * time.Minute)

	revoked, err := denylist.IsRevoked(context.Background(), "short-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDenylistStoresDigestNotCredential(t *testing.T) {
	denylist, mr := newTestDenylist(t)

	require.NoError(t, denylist.Revoke(context.Background(), "raw-credential", time.Now().Add(time.Hour)))
	for _, key := range mr.Keys() {
		assert.NotContains(t, key, "raw-credential")
	}
}
