package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/service/game"
	"github.com/iamasit07/connect4-ai/pkg/auth"
	"github.com/iamasit07/connect4-ai/pkg/httputil"
	"github.com/iamasit07/connect4-ai/pkg/uid"
	"github.com/rs/zerolog/log"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 512
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Tokens         *auth.TokenIssuer
	Upgrader       websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, sm *game.SessionManager, tokens *auth.TokenIssuer, allowedOrigins []string) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Tokens:         tokens,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket authenticates the game token and upgrades the connection.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	if gameID := c.Query("game_id"); gameID != "" && !uid.IsGameID(gameID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game_id"})
		return
	}

	tokenString, err := httputil.GetTokenFromRequest(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	claims, err := h.Tokens.ValidateGameToken(tokenString)
	if err != nil {
		log.Debug().Err(err).Msg("[WS] Invalid token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	gameID := c.Query("game_id")
	if gameID == "" {
		gameID = claims.GameID
	}
	if claims.GameID != gameID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Token is not valid for this game"})
		return
	}

	ctx := c.Request.Context()
	snapshot, err := h.SessionManager.GetSession(ctx, gameID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[WS] Upgrade error")
		return
	}

	h.handleConnection(ctx, gameID, conn, snapshot)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(ctx context.Context, gameID string, conn *websocket.Conn, snapshot domain.GameSnapshot) {
	h.ConnManager.AddConnection(gameID, conn)
	log.Info().Str("game_id", gameID).Msg("[WS] Connection opened")

	done := make(chan struct{})
	defer func() {
		close(done)
		h.ConnManager.RemoveConnectionIfMatching(gameID, conn)
		log.Info().Str("game_id", gameID).Msg("[WS] Connection closed")
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	h.sendState(gameID, snapshot)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("game_id", gameID).Msg("[WS] Client disconnected unexpectedly")
			}
			return
		}

		if !h.ConnManager.IsCurrentConnection(gameID, conn) {
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Str("game_id", gameID).Msg("[WS] Invalid message format")
			h.sendError(gameID, "Invalid message format")
			continue
		}

		h.processMessage(ctx, gameID, msg)
	}
}

func (h *Handler) processMessage(ctx context.Context, gameID string, msg domain.ClientMessage) {
	switch msg.Type {
	case domain.MsgMakeMove:
		if msg.Column == nil {
			h.sendError(gameID, "column is required")
			return
		}
		result, err := h.SessionManager.HandleMove(ctx, gameID, *msg.Column)
		if len(result.Moves) > 0 {
			h.PublishMoves(gameID, result)
		}
		if err != nil {
			h.sendError(gameID, errorMessage(err))
		}

	case domain.MsgResetGame:
		snapshot, err := h.SessionManager.ResetSession(ctx, gameID)
		if err != nil {
			h.sendError(gameID, errorMessage(err))
			return
		}
		h.PublishState(gameID, snapshot)

	case domain.MsgGetState:
		snapshot, err := h.SessionManager.GetSession(ctx, gameID)
		if err != nil {
			h.sendError(gameID, errorMessage(err))
			return
		}
		h.sendState(gameID, snapshot)

	default:
		h.sendError(gameID, "Unknown message type: "+msg.Type)
	}
}

// PublishMoves sends one move_made per applied move, then game_over or the
// resulting state.
func (h *Handler) PublishMoves(gameID string, result game.MoveResult) {
	for i := range result.Moves {
		move := result.Moves[i]
		if err := h.ConnManager.SendMessage(gameID, domain.ServerMessage{
			Type:   domain.MsgMoveMade,
			GameID: gameID,
			Move:   &move,
		}); err != nil {
			log.Debug().Err(err).Str("game_id", gameID).Msg("[WS] Failed to send move")
			return
		}
	}

	snapshot := result.Game
	if snapshot.Status == domain.StatusInProgress {
		h.sendState(gameID, snapshot)
		return
	}

	_ = h.ConnManager.SendMessage(gameID, domain.ServerMessage{
		Type:   domain.MsgGameOver,
		GameID: gameID,
		Game:   &snapshot,
		Winner: snapshot.Winner,
		Reason: string(snapshot.Status),
	})
}

func (h *Handler) PublishState(gameID string, snapshot domain.GameSnapshot) {
	h.sendState(gameID, snapshot)
}

func (h *Handler) sendState(gameID string, snapshot domain.GameSnapshot) {
	_ = h.ConnManager.SendMessage(gameID, domain.ServerMessage{
		Type:   domain.MsgGameState,
		GameID: gameID,
		Game:   &snapshot,
	})
}

func (h *Handler) sendError(gameID, message string) {
	_ = h.ConnManager.SendMessage(gameID, domain.ServerMessage{
		Type:    domain.MsgError,
		GameID:  gameID,
		Message: message,
	})
}

func errorMessage(err error) string {
	var domainErr domain.Error
	var moveErr *domain.InvalidMoveError
	switch {
	case errors.As(err, &moveErr), errors.As(err, &domainErr):
		return err.Error()
	}
	log.Error().Err(err).Msg("[WS] Request failed")
	return "Internal server error"
}
