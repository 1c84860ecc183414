package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.GenerateGameToken("game-1")
	require.NoError(t, err)

	claims, err := issuer.ValidateGameToken(token)
	require.NoError(t, err)
	assert.Equal(t, "game-1", claims.GameID)
}

func TestGameTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.GenerateGameToken("game-1")
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		_, err := NewTokenIssuer("other", time.Hour).ValidateGameToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenIssuer("secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		_, err := later.ValidateGameToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.ValidateGameToken("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
