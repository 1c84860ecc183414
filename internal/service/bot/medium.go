package bot

import (
	"github.com/iamasit07/connect4-ai/internal/domain"
)

// HeuristicPolicy is the medium tier. It looks one move ahead (plus the
// opponent's immediate reply) and scores every column by fixed priorities.
type HeuristicPolicy struct{}

func (HeuristicPolicy) ChooseMove(board domain.Board) (int, error) {
	validColumns := domain.LegalMoves(board)
	if len(validColumns) == 0 || domain.IsTerminal(board) {
		return NoColumn, domain.ErrNoLegalMove
	}

	botPlayer := MaxPlayer
	opponent := botPlayer.Opponent()
	currentOpponentThreat := evaluateWinningThreat(board, opponent, botPlayer)

	scores := make(map[int]int, len(validColumns))
	for _, col := range validColumns {
		botBoard, botRow, err := domain.ApplyMove(board, col, botPlayer)
		if err != nil {
			continue
		}
		oppBoard, oppRow, _ := domain.ApplyMove(board, col, opponent)

		score := 0

		if domain.CheckWin(botBoard, botRow, col, botPlayer) {
			score += scoreWinNow
		}
		if domain.CheckWin(oppBoard, oppRow, col, opponent) {
			score += scoreBlockWin
		}

		// playing here must not open the cell above for the opponent
		if len(winningColumns(botBoard, opponent)) > 0 {
			score -= scoreGiftWin
		}

		score += evaluateWinningThreat(botBoard, botPlayer, opponent)
		if evaluateWinningThreat(botBoard, opponent, botPlayer) < currentOpponentThreat {
			score += scoreBlockWinThreat
		}

		score += evaluateThreats(botBoard, botRow, col, botPlayer)
		score += evaluateThreats(oppBoard, oppRow, col, opponent) / 2 // half value for blocking vs creating

		score += centerBonus(col)
		scores[col] = score
	}

	return findBestColumn(scores), nil
}

func centerBonus(col int) int {
	switch distFromCenter(col) {
	case 0:
		return scoreCenter
	case 1:
		return scoreNearCenter
	case 2:
		return scoreEdge
	}
	return 0
}

func distFromCenter(col int) int {
	d := col - domain.Columns/2
	if d < 0 {
		return -d
	}
	return d
}

// findBestColumn returns the highest scoring column, preferring the centre on ties.
func findBestColumn(scores map[int]int) int {
	bestColumn := NoColumn
	maxScore := 0

	for col := 0; col < domain.Columns; col++ {
		score, exists := scores[col]
		if !exists {
			continue
		}

		if bestColumn == NoColumn || score > maxScore ||
			(score == maxScore && distFromCenter(col) < distFromCenter(bestColumn)) {
			maxScore = score
			bestColumn = col
		}
	}

	return bestColumn
}
