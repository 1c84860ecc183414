package domain

// Game is the per-session state machine: in_progress -> won | draw.
type Game struct {
	Board         Board
	CurrentPlayer PlayerID
	Status        GameStatus
	Winner        PlayerID
	MoveCount     int
	LastMove      *Move
}

// Move records a single dropped disk.
type Move struct {
	Player PlayerID `json:"player"`
	Column int      `json:"column"`
	Row    int      `json:"row"`
}

func NewGame() *Game {
	return &Game{
		Board:         NewBoard(),
		CurrentPlayer: Player1,
		Status:        StatusInProgress,
		Winner:        Empty,
	}
}

// Reset starts a fresh game on the same instance.
func (g *Game) Reset() {
	*g = *NewGame()
}

func (g *Game) MakeMove(player PlayerID, column int) (Move, error) {
	if g.Status != StatusInProgress {
		return Move{}, ErrGameFinished
	}

	if player != g.CurrentPlayer {
		return Move{}, ErrNotYourTurn
	}

	row, err := g.Board.DropDisk(column, player)
	if err != nil {
		return Move{}, err
	}

	g.MoveCount++
	move := Move{Player: player, Column: column, Row: row}
	g.LastMove = &move

	if CheckWin(g.Board, row, column, player) {
		g.Status = StatusWon
		g.Winner = player
		return move, nil
	}

	if g.Board.IsFull() {
		g.Status = StatusDraw
		return move, nil
	}

	g.CurrentPlayer = player.Opponent()
	return move, nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}
