package domain

import "strings"

// Board is the 6x7 grid. Row 0 is the top row, row Rows-1 the bottom.
// It is a value type: assigning or passing a Board copies every cell.
type Board [Rows][Columns]PlayerID

func NewBoard() Board {
	return Board{}
}

func (b Board) IsValidMove(column int) bool {
	if column < 0 || column >= Columns {
		return false
	}

	// here b[0] represents the top row (0 -> top and 5 -> bottom)
	return b[0][column] == Empty
}

// DropDisk places player's disk in the lowest empty row of column, in place.
func (b *Board) DropDisk(column int, player PlayerID) (int, error) {
	if column < 0 || column >= Columns {
		return -1, &InvalidMoveError{Column: column, Reason: ErrColumnOutOfRange}
	}
	if !player.Valid() {
		return -1, ErrInvalidPlayer
	}

	// shifting the disk from top to bottom till it
	// reaches the end or another disk
	for row := Rows - 1; row >= 0; row-- {
		if b[row][column] == Empty {
			b[row][column] = player
			return row, nil
		}
	}

	return -1, &InvalidMoveError{Column: column, Reason: ErrColumnFull}
}

// ApplyMove returns a copy of board with player's disk dropped into column
// and the row it landed in. board itself is never modified.
func ApplyMove(board Board, column int, player PlayerID) (Board, int, error) {
	next := board
	row, err := next.DropDisk(column, player)
	if err != nil {
		return board, -1, err
	}
	return next, row, nil
}

// LegalMoves lists the open columns in ascending order.
func LegalMoves(board Board) []int {
	moves := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if board[0][col] == Empty {
			moves = append(moves, col)
		}
	}
	return moves
}

func (b Board) IsFull() bool {
	for c := 0; c < Columns; c++ {
		if b[0][c] == Empty {
			return false
		}
	}

	return true
}

// DiskCount returns the number of non-empty cells.
func (b Board) DiskCount() int {
	n := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if b[r][c] != Empty {
				n++
			}
		}
	}
	return n
}

// CountDiskInDirection counts player's disks next to (row, column) walking
// in direction (deltaRow, deltaCol), not including the start cell.
func (b Board) CountDiskInDirection(row, column, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, column+deltaCol
	for r >= 0 && r < Rows && c >= 0 && c < Columns && b[r][c] == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

// String renders the board top row first, '.' for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			switch b[r][c] {
			case Player1:
				sb.WriteByte('X')
			case Player2:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
