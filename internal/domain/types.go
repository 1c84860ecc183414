package domain

import "fmt"

var BotNames = map[string]string{
	"easy":   "Alice",
	"medium": "Bob",
	"hard":   "Charles",
}

func GetBotName(difficulty string) string {
	if name, ok := BotNames[difficulty]; ok {
		return name
	}
	return "BOT"
}

// PlayerID is the value of a single cell and also identifies whose turn it is.
type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other player. Empty has no opponent.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// to represent the game status
type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusWon        GameStatus = "won"
	StatusDraw       GameStatus = "draw"
)

// Outcome is the result of evaluating a board.
type Outcome struct {
	Status GameStatus `json:"status"`
	Winner PlayerID   `json:"winner"`
}

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove       Error = "invalid move"
	ErrColumnFull        Error = "column is full"
	ErrColumnOutOfRange  Error = "column out of range"
	ErrInvalidPlayer     Error = "invalid player"
	ErrNoLegalMove       Error = "no legal move"
	ErrGameFinished      Error = "game is already finished"
	ErrNotYourTurn       Error = "not your turn"
	ErrUnknownDifficulty Error = "unknown difficulty"
	ErrUnknownMode       Error = "unknown game mode"
	ErrSessionNotFound   Error = "session not found"
)

// InvalidMoveError is returned when a disk cannot be dropped into a column.
// It matches ErrInvalidMove and the specific reason with errors.Is.
type InvalidMoveError struct {
	Column int
	Reason error
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move in column %d: %v", e.Column, e.Reason)
}

func (e *InvalidMoveError) Unwrap() []error {
	return []error{ErrInvalidMove, e.Reason}
}
