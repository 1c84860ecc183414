package bot

import (
	"math"
	"time"

	"github.com/iamasit07/connect4-ai/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultDepth is the search depth used by the hard tier.
	DefaultDepth = 5

	// Terminal scores dominate anything a depth-limited leaf can return.
	WinScore  = 100000
	LossScore = -100000
	DrawScore = 0

	// NoColumn is returned alongside leaf scores.
	NoColumn = -1

	// The automated player always maximizes.
	MaxPlayer = domain.Player2
	MinPlayer = domain.Player1
)

// SearchStats counts the work done by one search.
type SearchStats struct {
	Nodes   int
	Cutoffs int
}

// Result is the outcome of a root search.
type Result struct {
	Column  int
	Score   int
	Depth   int
	Stats   SearchStats
	Elapsed time.Duration
}

// Search runs minimax with alpha-beta pruning and returns the best column for
// the side to move together with its score. Leaves (depth 0 or a finished game)
// return NoColumn. Scores of non-root nodes are bounds when a cutoff happened.
func Search(board domain.Board, depth, alpha, beta int, maximizing bool) (int, int) {
	var stats SearchStats
	return search(board, depth, alpha, beta, maximizing, &stats)
}

func search(board domain.Board, depth, alpha, beta int, maximizing bool, stats *SearchStats) (int, int) {
	stats.Nodes++

	if depth <= 0 || domain.IsTerminal(board) {
		return NoColumn, leafScore(board)
	}

	// not terminal, so there is at least one open column
	moves := domain.LegalMoves(board)
	bestColumn := moves[0]

	if maximizing {
		value := math.MinInt
		for _, col := range moves {
			child, _, err := domain.ApplyMove(board, col, MaxPlayer)
			if err != nil {
				continue
			}

			_, score := search(child, depth-1, alpha, beta, false, stats)
			if score > value {
				value = score
				bestColumn = col
			}

			alpha = max(alpha, value)
			if alpha >= beta {
				stats.Cutoffs++
				break
			}
		}
		return bestColumn, value
	}

	value := math.MaxInt
	for _, col := range moves {
		child, _, err := domain.ApplyMove(board, col, MinPlayer)
		if err != nil {
			continue
		}

		_, score := search(child, depth-1, alpha, beta, true, stats)
		if score < value {
			value = score
			bestColumn = col
		}

		beta = min(beta, value)
		if alpha >= beta {
			stats.Cutoffs++
			break
		}
	}
	return bestColumn, value
}

func leafScore(board domain.Board) int {
	switch {
	case domain.IsWinningState(board, MaxPlayer):
		return WinScore
	case domain.IsWinningState(board, MinPlayer):
		return LossScore
	}
	return DrawScore
}

// Analyze searches board from the automated player's point of view.
// A depth below 1 is treated as 1.
func Analyze(board domain.Board, depth int) (Result, error) {
	if len(domain.LegalMoves(board)) == 0 || domain.IsTerminal(board) {
		return Result{Column: NoColumn}, domain.ErrNoLegalMove
	}
	if depth < 1 {
		depth = 1
	}

	start := time.Now()
	var stats SearchStats
	column, score := search(board, depth, math.MinInt, math.MaxInt, true, &stats)

	result := Result{
		Column:  column,
		Score:   score,
		Depth:   depth,
		Stats:   stats,
		Elapsed: time.Since(start),
	}

	log.Debug().
		Int("column", result.Column).
		Int("score", result.Score).
		Int("depth", depth).
		Int("nodes", stats.Nodes).
		Int("cutoffs", stats.Cutoffs).
		Dur("elapsed", result.Elapsed).
		Msg("[BOT] search finished")

	return result, nil
}

// ChooseMove returns the column the automated player (Player2) should play.
func ChooseMove(board domain.Board, depth int) (int, error) {
	result, err := Analyze(board, depth)
	if err != nil {
		return NoColumn, err
	}
	return result.Column, nil
}

// MinimaxPolicy is the hard tier: a full alpha-beta search to Depth plies.
type MinimaxPolicy struct {
	Depth int
}

func (p MinimaxPolicy) ChooseMove(board domain.Board) (int, error) {
	depth := p.Depth
	if depth == 0 {
		depth = DefaultDepth
	}
	return ChooseMove(board, depth)
}
