package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

type client struct {
	conn *websocket.Conn

	// gorilla connections allow one concurrent writer
	writeMu sync.Mutex
}

// ConnectionManager holds the live connection of each game.
type ConnectionManager struct {
	connections map[string]*client // gameID → client
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*client),
	}
}

// AddConnection registers conn for gameID, replacing and closing any older
// connection to the same game.
func (cm *ConnectionManager) AddConnection(gameID string, conn *websocket.Conn) {
	cm.mu.Lock()
	old, exists := cm.connections[gameID]
	cm.connections[gameID] = &client{conn: conn}
	cm.mu.Unlock()

	if exists {
		log.Info().Str("game_id", gameID).Msg("[WS] Replacing existing connection")
		_ = old.send(domain.ServerMessage{
			Type:    domain.MsgForceDisconnect,
			GameID:  gameID,
			Message: "Game opened in another connection",
		})
		_ = old.conn.Close()
	}
}

// RemoveConnectionIfMatching avoids closing a newer connection when an old
// one cleans up.
func (cm *ConnectionManager) RemoveConnectionIfMatching(gameID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if current, exists := cm.connections[gameID]; exists && current.conn == conn {
		current.conn.Close()
		delete(cm.connections, gameID)
	}
}

func (cm *ConnectionManager) IsCurrentConnection(gameID string, conn *websocket.Conn) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	current, exists := cm.connections[gameID]
	return exists && current.conn == conn
}

// SendMessage writes a JSON message to the game's connection. A game without
// a connection is not an error.
func (cm *ConnectionManager) SendMessage(gameID string, message domain.ServerMessage) error {
	cm.mu.RLock()
	c, exists := cm.connections[gameID]
	cm.mu.RUnlock()

	if !exists {
		return nil
	}
	return c.send(message)
}

// Count returns the number of open connections.
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

func (c *client) send(message domain.ServerMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(message)
}
