package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-ai/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-ai/pkg/auth"
)

type RouterConfig struct {
	Games     *GameHandler
	Tokens    *auth.TokenIssuer
	WebSocket gin.HandlerFunc
	Origins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Origins))

	router.GET("/api/health", cfg.Games.Health)
	router.POST("/api/games", cfg.Games.CreateGame)
	router.GET("/api/games/live", cfg.Games.GetLiveGames)

	// Routes that act on a single game need that game's token
	protected := router.Group("/api/games/:id")
	protected.Use(middleware.GameTokenMiddleware(cfg.Tokens))
	{
		protected.GET("", cfg.Games.GetGame)
		protected.POST("/moves", cfg.Games.MakeMove)
		protected.POST("/reset", cfg.Games.ResetGame)
		protected.DELETE("", cfg.Games.DeleteGame)
	}

	// WebSocket Route (token checked inside the WS handler itself)
	if cfg.WebSocket != nil {
		router.GET("/ws", cfg.WebSocket)
	}

	return router
}
