package bot

import (
	"github.com/iamasit07/connect4-ai/internal/domain"
)

const (
	// Score priorities for the heuristic policy (from highest to lowest)
	scoreWinNow          = 100000 // bot can win immediately
	scoreBlockWin        = 10000  // block opponent's immediate win
	scoreCreateWinThreat = 8000   // two winning replies the opponent cannot both block
	scoreBlockWinThreat  = 5000   // reduce the opponent's winning threats
	scoreGiftWin         = 9000   // penalty: the opponent wins on top of this move
	scoreThreeInRow      = 400
	scoreTwoInRow        = 100
	scoreSingle          = 25
	scoreCenter          = 30
	scoreNearCenter      = 20
	scoreEdge            = 5
)

// winningColumns lists the columns where player wins with a single disk.
func winningColumns(board domain.Board, player domain.PlayerID) []int {
	var cols []int
	for _, col := range domain.LegalMoves(board) {
		next, row, err := domain.ApplyMove(board, col, player)
		if err != nil {
			continue
		}
		if domain.CheckWin(next, row, col, player) {
			cols = append(cols, col)
		}
	}
	return cols
}

// evaluateThreats scores the lines through (row, col) that can still be extended.
func evaluateThreats(board domain.Board, row, col int, player domain.PlayerID) int {
	score := 0
	for _, dir := range domain.Directions {
		dRow, dCol := dir[0], dir[1]

		posCount := board.CountDiskInDirection(row, col, dRow, dCol, player)
		negCount := board.CountDiskInDirection(row, col, -dRow, -dCol, player)
		total := posCount + negCount

		if !checkSpaceForExtension(board, row, col, dRow, dCol, posCount, negCount) {
			continue
		}

		switch {
		case total >= 2:
			score += scoreThreeInRow
		case total == 1:
			score += scoreTwoInRow
		default:
			score += scoreSingle
		}
	}
	return score
}

// evaluateWinningThreat rates how many winning replies player has and whether
// the opponent can block them.
func evaluateWinningThreat(board domain.Board, player, opponent domain.PlayerID) int {
	winning := winningColumns(board, player)

	switch len(winning) {
	case 0:
		return 0
	case 1:
		// opponent blocks, can player still threaten?
		blockBoard, _, err := domain.ApplyMove(board, winning[0], opponent)
		if err != nil {
			return 0
		}
		if len(winningColumns(blockBoard, player)) > 0 {
			return scoreCreateWinThreat / 2
		}
		return scoreCreateWinThreat / 4
	default:
		// the opponent can only block one
		return scoreCreateWinThreat
	}
}

func checkSpaceForExtension(board domain.Board, row, col, dRow, dCol, posCount, negCount int) bool {
	posRow := row + dRow*(posCount+1)
	posCol := col + dCol*(posCount+1)
	if isInBounds(posRow, posCol) && board[posRow][posCol] == domain.Empty && isPlayableSpace(board, posRow, posCol) {
		return true
	}

	negRow := row - dRow*(negCount+1)
	negCol := col - dCol*(negCount+1)
	if isInBounds(negRow, negCol) && board[negRow][negCol] == domain.Empty && isPlayableSpace(board, negRow, negCol) {
		return true
	}

	return false
}

// isPlayableSpace respects gravity: the cell below must be occupied.
func isPlayableSpace(board domain.Board, row, col int) bool {
	if row == domain.Rows-1 {
		return true
	}
	return board[row+1][col] != domain.Empty
}

func isInBounds(row, col int) bool {
	return row >= 0 && row < domain.Rows && col >= 0 && col < domain.Columns
}
