package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safeshare/internal/common"
	"safeshare/internal/session"
)

func TestSessionManager_NoCredential(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.sessions.Credential(ctx)
	assert.ErrorIs(t, err, common.ErrNoCredential)

	_, err = f.sessions.Current(ctx)
	assert.ErrorIs(t, err, common.ErrNoCredential)
}

func TestSessionManager_MalformedCredential(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Set(ctx, common.AccessTokenKey, []byte("not.a.jwt")))

	_, err := f.sessions.Current(ctx)
	assert.ErrorIs(t, err, common.ErrMalformedCredential)
}

func TestSessionManager_ExpiredCredential(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	token := mintToken(t, 42, session.RoleRegular, true, time.Hour)
	require.NoError(t, f.store.Set(ctx, common.AccessTokenKey, []byte(token)))

	// move the manager's clock past the credential's lifetime
	f.sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := f.sessions.Current(ctx)
	assert.ErrorIs(t, err, common.ErrCredentialExpired)
}

func TestSessionManager_ProfileFetchFails(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	token := mintToken(t, 42, session.RoleRegular, true, time.Hour)
	require.NoError(t, f.store.Set(ctx, common.AccessTokenKey, []byte(token)))

	f.backend.mu.Lock()
	f.backend.revokeBearers = true
	f.backend.mu.Unlock()

	_, err := f.sessions.Current(ctx)
	assert.ErrorIs(t, err, common.ErrProfileFetch)
}

func TestSessionManager_Current(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	token := mintToken(t, 42, session.RoleRegular, true, time.Hour)
	require.NoError(t, f.store.Set(ctx, common.AccessTokenKey, []byte(token)))

	sess, err := f.sessions.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, sess.Token)
	assert.Equal(t, int64(42), sess.Claims.UserID)
	assert.True(t, sess.Claims.MFAVerified)
	assert.Equal(t, "bob", sess.Profile.Username)
}

func TestSessionManager_Clear(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Set(ctx, common.AccessTokenKey, []byte("tok")))
	require.NoError(t, f.sessions.Clear(ctx))

	v, _ := f.store.Get(ctx, common.AccessTokenKey)
	assert.Nil(t, v)
}
