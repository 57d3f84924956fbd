package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"TicTacToe/internals/ai"
)

var (
	ErrNotYourTurn  = errors.New("not your turn")
	ErrOutOfBounds  = errors.New("cell out of bounds")
	ErrCellTaken    = errors.New("cell already taken")
	ErrGameFinished = errors.New("game is over")
)

// Game is the live state of one match. Seat i belongs to player i+1.
type Game struct {
	ID        string
	Board     [][]int
	Players   []string
	Turn      int // player to move, 1-based
	Round     int // 1-based ply counter
	Mutex     sync.Mutex
	Over      bool
	Winner    int // 0 while running or on a draw
	Moves     []string
	StartTime time.Time
}

func NewGame(id string, size int, players []string) *Game {
	board := make([][]int, size)
	for i := range board {
		board[i] = make([]int, size)
	}
	return &Game{
		ID:        id,
		Board:     board,
		Players:   players,
		Turn:      1,
		Round:     1,
		Moves:     make([]string, 0, size*size),
		StartTime: time.Now(),
	}
}

func (g *Game) Size() int { return len(g.Board) }

// PlaceTile puts the player's tile on (row, col), passes the turn on and
// settles the game when the move wins or fills the board.
func (g *Game) PlaceTile(player, row, col int) error {
	if g.Over {
		return ErrGameFinished
	}
	if player != g.Turn {
		return ErrNotYourTurn
	}
	if row < 0 || row >= g.Size() || col < 0 || col >= g.Size() {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
	}
	if g.Board[row][col] != 0 {
		return fmt.Errorf("%w: (%d,%d)", ErrCellTaken, row, col)
	}

	g.Board[row][col] = player
	g.Moves = append(g.Moves, fmt.Sprintf("%d:%d:%d", player, row, col))
	g.Round++
	if g.Turn == len(g.Players) {
		g.Turn = 1
	} else {
		g.Turn++
	}

	if winner := g.CheckWin(); winner != 0 {
		g.Over = true
		g.Winner = winner
	} else if g.CheckDraw() {
		g.Over = true
	}
	return nil
}

func (g *Game) snapshot() *ai.Board {
	b, err := ai.Snapshot(g.Board, g.Turn, g.Round)
	if err != nil {
		// PlaceTile is the only writer, so the grid always matches the round
		panic(fmt.Sprintf("game %s: %v", g.ID, err))
	}
	return b
}

// CheckWin returns the player owning a full line, or 0.
func (g *Game) CheckWin() int {
	winner, _ := ai.CheckWin(g.snapshot())
	return int(winner)
}

// CheckDraw is true when the board is full without a winner.
func (g *Game) CheckDraw() bool {
	return ai.IsDraw(g.snapshot())
}

// WinnerName is the winner's seat name, or "draw".
func (g *Game) WinnerName() string {
	if g.Winner == 0 {
		return "draw"
	}
	return g.Players[g.Winner-1]
}
