package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-ai/pkg/auth"
	"github.com/iamasit07/connect4-ai/pkg/httputil"
	"github.com/rs/zerolog/log"
)

// GameIDKey holds the game id from a validated token in the gin context.
const GameIDKey = "game_id"

// GameTokenMiddleware requires a valid game token whose game id matches the
// :id route parameter.
func GameTokenMiddleware(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := tokens.ValidateGameToken(tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("[AUTH] Rejected game token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if claims.GameID != c.Param("id") {
			log.Warn().Str("token_game", claims.GameID).Str("path_game", c.Param("id")).Msg("[AUTH] Token does not match game")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token is not valid for this game"})
			return
		}

		c.Set(GameIDKey, claims.GameID)
		c.Next()
	}
}
