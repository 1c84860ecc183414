package domain

// Directions lists the line orientations as (dRow, dCol): horizontal,
// vertical, diagonal \ and diagonal /. Each line is scanned both ways.
var Directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// IsWinningState reports whether player has four in a row anywhere on the board.
func IsWinningState(board Board, player PlayerID) bool {
	if !player.Valid() {
		return false
	}
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			if board[row][col] != player {
				continue
			}
			for _, dir := range Directions {
				endRow := row + dir[0]*(ToWin-1)
				endCol := col + dir[1]*(ToWin-1)
				if endRow < 0 || endRow >= Rows || endCol < 0 || endCol >= Columns {
					continue
				}
				if board.CountDiskInDirection(row, col, dir[0], dir[1], player) >= ToWin-1 {
					return true
				}
			}
		}
	}
	return false
}

func IsDraw(board Board) bool {
	return len(LegalMoves(board)) == 0 &&
		!IsWinningState(board, Player1) &&
		!IsWinningState(board, Player2)
}

func IsTerminal(board Board) bool {
	return IsWinningState(board, Player1) || IsWinningState(board, Player2) || IsDraw(board)
}

// Evaluate classifies the board. If both players somehow have an alignment
// Player2 is reported, matching the scoring order of the search engine.
func Evaluate(board Board) Outcome {
	switch {
	case IsWinningState(board, Player2):
		return Outcome{Status: StatusWon, Winner: Player2}
	case IsWinningState(board, Player1):
		return Outcome{Status: StatusWon, Winner: Player1}
	case IsDraw(board):
		return Outcome{Status: StatusDraw, Winner: Empty}
	}
	return Outcome{Status: StatusInProgress, Winner: Empty}
}

// CheckWin only checks the lines passing through (row, column), which is
// enough right after a disk has been dropped there.
func CheckWin(board Board, row, column int, player PlayerID) bool {
	if row < 0 || row >= Rows || column < 0 || column >= Columns || board[row][column] != player {
		return false
	}
	for _, dir := range Directions {
		forward := board.CountDiskInDirection(row, column, dir[0], dir[1], player)
		backward := board.CountDiskInDirection(row, column, -dir[0], -dir[1], player)
		if forward+backward+1 >= ToWin {
			return true
		}
	}
	return false
}
