package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/service/game"
	"github.com/iamasit07/connect4-ai/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-ai/pkg/auth"
	"github.com/rs/zerolog/log"
)

// GameNotifier pushes changes made over HTTP to websocket clients watching
// the same game.
type GameNotifier interface {
	PublishMoves(gameID string, result game.MoveResult)
	PublishState(gameID string, snapshot domain.GameSnapshot)
}

// Pinger reports cache health. Nil when running memory-only.
type Pinger interface {
	Ping(ctx context.Context) error
}

type GameHandler struct {
	SessionManager *game.SessionManager
	Tokens         *auth.TokenIssuer
	Notifier       GameNotifier
	Cache          Pinger
}

func NewGameHandler(sm *game.SessionManager, tokens *auth.TokenIssuer, notifier GameNotifier, cache Pinger) *GameHandler {
	return &GameHandler{
		SessionManager: sm,
		Tokens:         tokens,
		Notifier:       notifier,
		Cache:          cache,
	}
}

type createGameRequest struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
}

type createGameResponse struct {
	Game  domain.GameSnapshot `json:"game"`
	Token string              `json:"token"`
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

// CreateGame starts a session and returns the token that controls it.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	snapshot, err := h.SessionManager.CreateSession(c.Request.Context(), domain.GameMode(req.Mode), req.Difficulty)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := h.Tokens.GenerateGameToken(snapshot.GameID)
	if err != nil {
		log.Error().Err(err).Str("game_id", snapshot.GameID).Msg("[HTTP] Failed to sign game token")
		_ = h.SessionManager.RemoveSession(c.Request.Context(), snapshot.GameID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
		return
	}

	c.JSON(http.StatusCreated, createGameResponse{Game: snapshot, Token: token})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	snapshot, err := h.SessionManager.GetSession(c.Request.Context(), gameID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// MakeMove plays the caller's disk. In bot mode the reply is part of the
// response.
func (h *GameHandler) MakeMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column is required"})
		return
	}

	id := gameID(c)
	result, err := h.SessionManager.HandleMove(c.Request.Context(), id, *req.Column)
	if err != nil {
		if len(result.Moves) > 0 && h.Notifier != nil {
			h.Notifier.PublishMoves(id, result)
		}
		writeError(c, err)
		return
	}

	if h.Notifier != nil {
		h.Notifier.PublishMoves(id, result)
	}
	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) ResetGame(c *gin.Context) {
	id := gameID(c)
	snapshot, err := h.SessionManager.ResetSession(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.Notifier != nil {
		h.Notifier.PublishState(id, snapshot)
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	if err := h.SessionManager.RemoveSession(c.Request.Context(), gameID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// gameID is the game the request's token was validated for.
func gameID(c *gin.Context) string {
	if id := c.GetString(middleware.GameIDKey); id != "" {
		return id
	}
	return c.Param("id")
}

// GetLiveGames returns the games currently in progress.
func (h *GameHandler) GetLiveGames(c *gin.Context) {
	c.JSON(http.StatusOK, h.SessionManager.GetActiveGames())
}

func (h *GameHandler) Health(c *gin.Context) {
	cache := "disabled"
	if h.Cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		cache = "up"
		if err := h.Cache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("[HTTP] Cache ping failed")
			cache = "down"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"activeSessions": h.SessionManager.ActiveSessions(),
		"cache":          cache,
	})
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidMove),
		errors.Is(err, domain.ErrUnknownMode),
		errors.Is(err, domain.ErrUnknownDifficulty):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrGameFinished),
		errors.Is(err, domain.ErrNotYourTurn),
		errors.Is(err, domain.ErrNoLegalMove):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("[HTTP] Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
