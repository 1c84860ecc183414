package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTokenFromRequest(t *testing.T) {
	t.Run("bearer header wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws?token=from-query", nil)
		req.Header.Set("Authorization", "Bearer from-header")
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "from-cookie"})

		token, err := GetTokenFromRequest(req)

		require.NoError(t, err)
		assert.Equal(t, "from-header", token)
	})

	t.Run("query before cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws?token=from-query", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "from-cookie"})

		token, err := GetTokenFromRequest(req)

		require.NoError(t, err)
		assert.Equal(t, "from-query", token)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/games/1", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "from-cookie"})

		token, err := GetTokenFromRequest(req)

		require.NoError(t, err)
		assert.Equal(t, "from-cookie", token)
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/games/1", nil)

		_, err := GetTokenFromRequest(req)

		assert.ErrorIs(t, err, ErrNoToken)
	})
}
