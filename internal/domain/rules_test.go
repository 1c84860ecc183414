package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// drawBoard is a full grid with no four-in-a-row for either player.
var drawBoard = parseBoard(
	"XXXOXXX",
	"OOOXOOO",
	"OOOXOOO",
	"XXXOXXX",
	"XXXOXXX",
	"OOOXOOO",
)

func parseBoard(rows ...string) Board {
	var board Board
	for r, line := range rows {
		for c, ch := range line {
			switch ch {
			case 'X':
				board[r][c] = Player1
			case 'O':
				board[r][c] = Player2
			}
		}
	}
	return board
}

// mirror reflects the board along its vertical axis.
func mirror(board Board) Board {
	var out Board
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			out[r][Columns-1-c] = board[r][c]
		}
	}
	return out
}

func TestIsWinningState(t *testing.T) {
	tests := []struct {
		name   string
		board  Board
		player PlayerID
		want   bool
	}{
		{
			name: "horizontal",
			board: parseBoard(
				".......",
				".......",
				".......",
				".......",
				"OOO....",
				".XXXX..",
			),
			player: Player1,
			want:   true,
		},
		{
			name: "vertical",
			board: parseBoard(
				".......",
				".......",
				"......O",
				"......O",
				"X.....O",
				"XX....O",
			),
			player: Player2,
			want:   true,
		},
		{
			name: "diagonal down-right",
			board: parseBoard(
				".......",
				".......",
				"X......",
				"OX.....",
				"OOX....",
				"OXOX...",
			),
			player: Player1,
			want:   true,
		},
		{
			name: "diagonal down-left",
			board: parseBoard(
				".......",
				".......",
				"......O",
				".....OX",
				"....OXX",
				"...OXXO",
			),
			player: Player2,
			want:   true,
		},
		{
			name: "three is not enough",
			board: parseBoard(
				".......",
				".......",
				".......",
				".......",
				"OOO....",
				"XXX....",
			),
			player: Player1,
			want:   false,
		},
		{
			name: "line broken by the opponent",
			board: parseBoard(
				".......",
				".......",
				".......",
				".......",
				"...O...",
				"XXXOXXX",
			),
			player: Player1,
			want:   false,
		},
		{
			name:   "other player's win",
			board:  parseBoard(".......", ".......", "......O", "......O", "X.....O", "XX....O"),
			player: Player1,
			want:   false,
		},
		{
			name:   "empty is never a winner",
			board:  NewBoard(),
			player: Empty,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWinningState(tt.board, tt.player))
			assert.Equal(t, tt.want, IsWinningState(mirror(tt.board), tt.player), "mirrored board")
		})
	}
}

func TestDirectionsCoverEachLineOnce(t *testing.T) {
	seen := map[[2]int]bool{}
	for _, dir := range Directions {
		assert.NotEqual(t, [2]int{0, 0}, dir)
		assert.False(t, seen[dir], "duplicate direction %v", dir)
		assert.False(t, seen[[2]int{-dir[0], -dir[1]}], "direction %v is the reverse of another", dir)
		seen[dir] = true
	}
	assert.Len(t, seen, 4)
}

func TestBottomRowWin(t *testing.T) {
	// Given: Player1 holds columns 0, 1 and 2 of the bottom row
	board := playColumns(t, 0, 0, 1, 1, 2, 2)
	require.False(t, IsWinningState(board, Player1))

	// When: Player1 plays column 3
	board, row, err := ApplyMove(board, 3, Player1)
	require.NoError(t, err)

	// Then: the win is detected immediately
	assert.Equal(t, Rows-1, row)
	assert.True(t, IsWinningState(board, Player1))
	assert.True(t, CheckWin(board, row, 3, Player1))
	assert.Equal(t, Outcome{Status: StatusWon, Winner: Player1}, Evaluate(board))
}

func TestFullBoardDraw(t *testing.T) {
	require.True(t, drawBoard.IsFull())

	assert.True(t, IsDraw(drawBoard))
	assert.True(t, IsTerminal(drawBoard))
	assert.False(t, IsWinningState(drawBoard, Player1))
	assert.False(t, IsWinningState(drawBoard, Player2))
	assert.Empty(t, LegalMoves(drawBoard))
	assert.Equal(t, Outcome{Status: StatusDraw, Winner: Empty}, Evaluate(drawBoard))
}

func TestFullBoardWithWinnerIsNotDraw(t *testing.T) {
	board := drawBoard
	board[5][3] = Player2 // completes OOOO on the bottom row

	assert.True(t, IsWinningState(board, Player2))
	assert.False(t, IsDraw(board))
	assert.True(t, IsTerminal(board))
}

func TestCheckWinAgreesWithFullScan(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	for game := 0; game < 200; game++ {
		board := NewBoard()
		player := Player1
		for !IsTerminal(board) {
			moves := LegalMoves(board)
			col := moves[r.Intn(len(moves))]

			next, row, err := ApplyMove(board, col, player)
			require.NoError(t, err)

			require.Equal(t, IsWinningState(next, player), CheckWin(next, row, col, player), "\n%s", next)
			assert.Equal(t, IsWinningState(next, player), IsWinningState(mirror(next), player))

			board = next
			player = player.Opponent()
		}
	}
}

func TestEvaluateInProgress(t *testing.T) {
	board := playColumns(t, 3, 3)

	assert.Equal(t, Outcome{Status: StatusInProgress, Winner: Empty}, Evaluate(board))
	assert.False(t, IsTerminal(board))
}
