package domain

import "time"

// GameMode selects who plays Player2.
type GameMode string

const (
	ModeBot   GameMode = "bot"
	ModeLocal GameMode = "local"
)

func (m GameMode) Valid() bool {
	return m == ModeBot || m == ModeLocal
}

// GameSnapshot is the serialisable view of a session, shared by the
// transports and the session cache.
type GameSnapshot struct {
	GameID          string     `json:"gameId"`
	Mode            GameMode   `json:"mode"`
	Difficulty      string     `json:"difficulty,omitempty"`
	BotName         string     `json:"botName,omitempty"`
	Board           Board      `json:"board"`
	CurrentPlayer   PlayerID   `json:"currentPlayer"`
	Status          GameStatus `json:"status"`
	Winner          PlayerID   `json:"winner"`
	MoveCount       int        `json:"moveCount"`
	LegalMoves      []int      `json:"legalMoves"`
	LastMove        *Move      `json:"lastMove,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
	DurationSeconds float64    `json:"durationSeconds"`
}

// Game rebuilds the state machine held by the snapshot.
func (s GameSnapshot) Game() *Game {
	return &Game{
		Board:         s.Board,
		CurrentPlayer: s.CurrentPlayer,
		Status:        s.Status,
		Winner:        s.Winner,
		MoveCount:     s.MoveCount,
		LastMove:      s.LastMove,
	}
}
