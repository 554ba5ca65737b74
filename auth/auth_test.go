package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libris-io/libris/auth"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	manager, err := auth.NewTokenManager([]byte("correct-horse-battery-staple"), time.Hour)
	require.NoError(t, err)

	userID := uuid.New()

	token, err := manager.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenManager_Verify(t *testing.T) {
	manager, err := auth.NewTokenManager([]byte("secret-one"), time.Hour)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other, err := auth.NewTokenManager([]byte("secret-two"), time.Hour)
		require.NoError(t, err)

		token, err := other.Issue(uuid.New())
		require.NoError(t, err)

		_, err = manager.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := auth.NewTokenManager([]byte("secret-one"), time.Nanosecond)
		require.NoError(t, err)

		token, err := expired.Issue(uuid.New())
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = manager.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := manager.Verify("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestNewTokenManager(t *testing.T) {
	_, err := auth.NewTokenManager(nil, time.Hour)
	assert.Error(t, err)

	_, err = auth.NewTokenManager([]byte("secret"), 0)
	assert.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	hasher := auth.NewBcryptHasher(4)

	hash, err := hasher.Hash("muaddib")
	require.NoError(t, err)
	assert.NotEqual(t, "muaddib", hash)

	assert.NoError(t, hasher.Compare(hash, "muaddib"))
	assert.Error(t, hasher.Compare(hash, "wrong"))
}
