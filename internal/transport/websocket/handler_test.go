package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/iamasit07/connect4-ai/internal/service/bot"
	"github.com/iamasit07/connect4-ai/internal/service/game"
	"github.com/iamasit07/connect4-ai/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsFixture struct {
	server  *httptest.Server
	manager *game.SessionManager
	tokens  *auth.TokenIssuer
	handler *Handler
}

func newFixture(t *testing.T) *wsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sm := game.NewSessionManager(game.Options{
		NewPolicy: func(bot.Difficulty) (bot.Policy, error) {
			return bot.MinimaxPolicy{Depth: 1}, nil
		},
	})
	tokens := auth.NewTokenIssuer("ws-secret", time.Hour)
	handler := NewHandler(NewConnectionManager(), sm, tokens, nil)

	router := gin.New()
	router.GET("/ws", handler.HandleWebSocket)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &wsFixture{server: server, manager: sm, tokens: tokens, handler: handler}
}

func (f *wsFixture) newGame(t *testing.T, mode domain.GameMode) (string, string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	snapshot, err := f.manager.CreateSession(ctx, mode, "")
	require.NoError(t, err)
	token, err := f.tokens.GenerateGameToken(snapshot.GameID)
	require.NoError(t, err)
	return snapshot.GameID, token
}

func (f *wsFixture) dial(t *testing.T, gameID, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	query := url.Values{}
	query.Set("game_id", gameID)
	query.Set("token", token)
	wsURL := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?" + query.Encode()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func readMessage(t *testing.T, conn *websocket.Conn) domain.ServerMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg domain.ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func column(c int) *int {
	return &c
}

func TestWebSocketBotGame(t *testing.T) {
	f := newFixture(t)
	gameID, token := f.newGame(t, domain.ModeBot)

	conn, _, err := f.dial(t, gameID, token)
	require.NoError(t, err)

	initial := readMessage(t, conn)
	assert.Equal(t, domain.MsgGameState, initial.Type)
	require.NotNil(t, initial.Game)
	assert.Equal(t, gameID, initial.Game.GameID)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: domain.MsgMakeMove, Column: column(3)}))

	human := readMessage(t, conn)
	assert.Equal(t, domain.MsgMoveMade, human.Type)
	require.NotNil(t, human.Move)
	assert.Equal(t, domain.Player1, human.Move.Player)
	assert.Equal(t, 3, human.Move.Column)

	reply := readMessage(t, conn)
	assert.Equal(t, domain.MsgMoveMade, reply.Type)
	require.NotNil(t, reply.Move)
	assert.Equal(t, domain.Player2, reply.Move.Player)

	state := readMessage(t, conn)
	assert.Equal(t, domain.MsgGameState, state.Type)
	require.NotNil(t, state.Game)
	assert.Equal(t, 2, state.Game.MoveCount)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: domain.MsgMakeMove, Column: column(9)}))
	invalid := readMessage(t, conn)
	assert.Equal(t, domain.MsgError, invalid.Type)
	assert.Contains(t, invalid.Message, "invalid move")

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: domain.MsgResetGame}))
	reset := readMessage(t, conn)
	assert.Equal(t, domain.MsgGameState, reset.Type)
	require.NotNil(t, reset.Game)
	assert.Equal(t, 0, reset.Game.MoveCount)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "surrender"}))
	unknown := readMessage(t, conn)
	assert.Equal(t, domain.MsgError, unknown.Type)
}

func TestWebSocketLocalGameOver(t *testing.T) {
	f := newFixture(t)
	gameID, token := f.newGame(t, domain.ModeLocal)

	conn, _, err := f.dial(t, gameID, token)
	require.NoError(t, err)
	readMessage(t, conn)

	for _, col := range []int{0, 1, 0, 1, 0, 1} {
		require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: domain.MsgMakeMove, Column: column(col)}))
		assert.Equal(t, domain.MsgMoveMade, readMessage(t, conn).Type)
		assert.Equal(t, domain.MsgGameState, readMessage(t, conn).Type)
	}

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: domain.MsgMakeMove, Column: column(0)}))
	assert.Equal(t, domain.MsgMoveMade, readMessage(t, conn).Type)

	over := readMessage(t, conn)
	assert.Equal(t, domain.MsgGameOver, over.Type)
	assert.Equal(t, domain.Player1, over.Winner)
	assert.Equal(t, string(domain.StatusWon), over.Reason)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: domain.MsgGetState}))
	state := readMessage(t, conn)
	assert.Equal(t, domain.MsgGameState, state.Type)
	require.NotNil(t, state.Game)
	assert.Equal(t, domain.StatusWon, state.Game.Status)
}

func TestWebSocketRejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	gameID, _ := f.newGame(t, domain.ModeBot)
	otherID, otherToken := f.newGame(t, domain.ModeBot)
	require.NotEqual(t, gameID, otherID)

	_, resp, err := f.dial(t, "not-a-game", otherToken)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, resp, err = f.dial(t, gameID, "garbage")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = f.dial(t, gameID, otherToken)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWebSocketNewConnectionReplacesOld(t *testing.T) {
	f := newFixture(t)
	gameID, token := f.newGame(t, domain.ModeBot)

	first, _, err := f.dial(t, gameID, token)
	require.NoError(t, err)
	readMessage(t, first)

	second, _, err := f.dial(t, gameID, token)
	require.NoError(t, err)
	readMessage(t, second)

	kicked := readMessage(t, first)
	assert.Equal(t, domain.MsgForceDisconnect, kicked.Type)

	require.NoError(t, first.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = first.ReadMessage()
	assert.Error(t, err)

	assert.Eventually(t, func() bool { return f.handler.ConnManager.Count() == 1 }, time.Second, 10*time.Millisecond)
}
