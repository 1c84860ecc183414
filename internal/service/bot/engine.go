package bot

import (
	"strings"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

// Difficulty names a move-selection policy.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty accepts the difficulty names case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", domain.ErrUnknownDifficulty
}

// Policy picks a column for Player2. Implementations must not keep the board.
type Policy interface {
	ChooseMove(board domain.Board) (int, error)
}

// NewPolicy selects the policy for a difficulty. depth only applies to Hard.
func NewPolicy(difficulty Difficulty, depth int, seed uint64) (Policy, error) {
	switch difficulty {
	case Easy:
		return NewRandomPolicy(seed), nil
	case Medium:
		return HeuristicPolicy{}, nil
	case Hard:
		return MinimaxPolicy{Depth: depth}, nil
	}
	return nil, domain.ErrUnknownDifficulty
}
