package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndVerify(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)

	token, expiresAt, err := signer.Generate("asset:1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	require.NoError(t, signer.Verify(token, "asset:1"))
	assert.ErrorIs(t, signer.Verify(token, "asset:2"), ErrTokenInvalid)
	assert.ErrorIs(t, signer.Verify("garbage", "asset:1"), ErrTokenInvalid)
	assert.ErrorIs(t, NewSignedURLSigner("other", time.Hour).Verify(token, "asset:1"), ErrTokenInvalid)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("brief:gig-1")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.ErrorIs(t, signer.Verify(token, "brief:gig-1"), ErrTokenExpired)
}

func TestSignedURLSignerRequiresSecret(t *testing.T) {
	_, _, err := NewSignedURLSigner("", time.Minute).Generate("asset:1")
	assert.Error(t, err)
}
