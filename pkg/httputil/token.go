package httputil

import (
	"errors"
	"net/http"
	"strings"
)

const TokenCookieName = "game_token"

var ErrNoToken = errors.New("no game token in header, query or cookie")

// GetTokenFromRequest looks for the game token in the Authorization header,
// then the "token" query parameter (websocket clients cannot set headers),
// then the cookie.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(token), nil
		}
		return authHeader, nil
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}

	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", ErrNoToken
}
