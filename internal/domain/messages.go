package domain

// Client message types.
const (
	MsgMakeMove  = "make_move"
	MsgResetGame = "reset_game"
	MsgGetState  = "get_state"
)

// Server message types.
const (
	MsgGameState       = "game_state"
	MsgMoveMade        = "move_made"
	MsgGameOver        = "game_over"
	MsgError           = "error"
	MsgForceDisconnect = "force_disconnect"
)

// ClientMessage is what a websocket client sends.
type ClientMessage struct {
	Type   string `json:"type"`
	Column *int   `json:"column,omitempty"`
}

// ServerMessage is what the server pushes to a websocket client.
type ServerMessage struct {
	Type    string        `json:"type"`
	Message string        `json:"message,omitempty"`
	GameID  string        `json:"gameId,omitempty"`
	Move    *Move         `json:"move,omitempty"`
	Game    *GameSnapshot `json:"game,omitempty"`
	Winner  PlayerID      `json:"winner,omitempty"`
	Reason  string        `json:"reason,omitempty"`
}
